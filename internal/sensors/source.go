// Package sensors provides the raw sample sources the fusion engine
// consumes: a deterministic synthetic generator and a CSV replay source.
// The active source is selected once at startup via capability probing;
// the fusion engine never branches on event shape per callback.
package sensors

import (
	"context"

	"github.com/litescript/ls-skylens/internal/fusion"
)

// Source is anything that can stream sensor samples over time.
type Source interface {
	// Name returns the source name for display/logging.
	Name() string

	// Capabilities reports which sensors this source emits, probed before
	// the stream starts.
	Capabilities() fusion.Capabilities

	// Run streams samples into out until the context is cancelled or the
	// source is exhausted. Run closes nothing; the caller owns the channel.
	Run(ctx context.Context, out chan<- fusion.SensorSample) error
}

// Probe returns the first source offering a directional sensor, or the last
// source as the final fallback (the fixed-north rung still needs a tick).
func Probe(sources ...Source) Source {
	if len(sources) == 0 {
		return nil
	}
	for _, s := range sources {
		caps := s.Capabilities()
		if caps.Magnetometer || caps.Orientation || caps.Gyroscope {
			return s
		}
	}
	return sources[len(sources)-1]
}

// push delivers one sample unless the context has been cancelled.
func push(ctx context.Context, out chan<- fusion.SensorSample, s fusion.SensorSample) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- s:
		return true
	}
}
