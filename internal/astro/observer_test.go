package astro

import (
	"context"
	"errors"
	"testing"
	"time"
)

type slowLocation struct {
	delay time.Duration
	obs   Observer
	err   error
}

func (s slowLocation) Resolve(ctx context.Context) (Observer, error) {
	select {
	case <-time.After(s.delay):
		return s.obs, s.err
	case <-ctx.Done():
		return Observer{}, ctx.Err()
	}
}

func TestResolveObserver_Success(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	site := Observer{LatDeg: 48.8566, LonDeg: 2.3522, Name: "paris"}

	st := ResolveObserver(context.Background(), FixedLocation(site), time.Second, now)

	if st.Defaulted {
		t.Error("fix available, state should not be defaulted")
	}
	if st.Observer != site {
		t.Errorf("observer = %+v, want %+v", st.Observer, site)
	}
	if st.LSTHours < 0 || st.LSTHours >= 24 {
		t.Errorf("LST out of range: %v", st.LSTHours)
	}
}

func TestResolveObserver_Timeout(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := slowLocation{delay: time.Second, obs: Observer{LatDeg: 1}}

	st := ResolveObserver(context.Background(), src, 10*time.Millisecond, now)

	if !st.Defaulted {
		t.Error("timeout should fall back to the default site")
	}
	if st.Observer.LatDeg != DefaultLatDeg || st.Observer.LonDeg != DefaultLonDeg {
		t.Errorf("default site = (%v, %v), want (%v, %v)",
			st.Observer.LatDeg, st.Observer.LonDeg, DefaultLatDeg, DefaultLonDeg)
	}
}

func TestResolveObserver_Error(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	src := slowLocation{err: errors.New("no fix")}

	st := ResolveObserver(context.Background(), src, time.Second, now)
	if !st.Defaulted {
		t.Error("resolver error should fall back to the default site")
	}
}

func TestResolveObserver_NilSource(t *testing.T) {
	st := ResolveObserver(context.Background(), nil, time.Second, time.Now())
	if !st.Defaulted {
		t.Error("nil source should fall back to the default site")
	}
}

func TestNewObserverState_TimeBase(t *testing.T) {
	tm := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	st := NewObserverState(Observer{LonDeg: 0}, tm)

	if st.JulianDate != JulianDate(tm) {
		t.Error("julian date not derived from the given instant")
	}
	if st.LSTHours != LocalSiderealTime(tm, 0) {
		t.Error("LST not derived from the given instant and longitude")
	}
	if st.UTC.Location() != time.UTC {
		t.Error("state time must be UTC")
	}
}
