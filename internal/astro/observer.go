package astro

import (
	"context"
	"time"
)

// Default observer site, used when no location fix arrives in time.
// Austin, TX, the reference site the scenario fixtures are written against.
const (
	DefaultLatDeg = 30.2672
	DefaultLonDeg = -97.7431
)

// Observer is a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	AltM   float64 // Altitude above sea level in meters (optional)
	Name   string  // Optional name for the site
}

// DefaultObserver returns the documented fallback site.
func DefaultObserver() Observer {
	return Observer{LatDeg: DefaultLatDeg, LonDeg: DefaultLonDeg, Name: "default"}
}

// ObserverState couples an observer location with a resolved time base.
// Recomputed whenever the location or time advances; never mutated in place.
type ObserverState struct {
	Observer   Observer
	UTC        time.Time
	JulianDate float64
	LSTHours   float64 // Local sidereal time in hours [0,24)
	Defaulted  bool    // True when the location fell back to the default site
}

// NewObserverState resolves the time base for an observer at a UTC instant.
func NewObserverState(obs Observer, t time.Time) ObserverState {
	t = t.UTC()
	return ObserverState{
		Observer:   obs,
		UTC:        t,
		JulianDate: JulianDate(t),
		LSTHours:   LocalSiderealTime(t, obs.LonDeg),
	}
}

// LocationSource resolves the device position. Resolve may block; callers
// bound it with the context.
type LocationSource interface {
	Resolve(ctx context.Context) (Observer, error)
}

// FixedLocation is a LocationSource that always returns the same site.
type FixedLocation Observer

// Resolve implements LocationSource.
func (f FixedLocation) Resolve(ctx context.Context) (Observer, error) {
	return Observer(f), nil
}

// ResolveObserver waits up to timeout for a location fix. On timeout or
// error it substitutes the default site rather than failing, so the caller
// proceeds with degraded accuracy.
func ResolveObserver(ctx context.Context, src LocationSource, timeout time.Duration, now time.Time) ObserverState {
	if src == nil {
		st := NewObserverState(DefaultObserver(), now)
		st.Defaulted = true
		return st
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		obs Observer
		err error
	}
	ch := make(chan result, 1)
	go func() {
		obs, err := src.Resolve(ctx)
		ch <- result{obs, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			st := NewObserverState(DefaultObserver(), now)
			st.Defaulted = true
			return st
		}
		return NewObserverState(r.obs, now)
	case <-ctx.Done():
		st := NewObserverState(DefaultObserver(), now)
		st.Defaulted = true
		return st
	}
}
