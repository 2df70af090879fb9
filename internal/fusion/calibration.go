package fusion

import (
	"errors"
	"time"
)

// ErrCalibrationTimeout is returned when the collection window closed with
// too few samples; the previous offset is left unchanged.
var ErrCalibrationTimeout = errors.New("calibration window closed with insufficient samples")

// Calibration tuning. The buffer is bounded so a fast sensor cannot grow it
// without limit during the window.
const (
	CalibrationWindow     = 10 * time.Second
	calibrationCapacity   = 128
	calibrationMinSamples = 5
)

// Calibration collects true-heading samples over a fixed window and derives
// a heading offset from their mean. It is user-triggered and exclusively
// owned by one fusion engine.
type Calibration struct {
	samples []float64
	start   time.Time
	window  time.Duration
	active  bool
}

// NewCalibration opens a collection window starting at now.
func NewCalibration(now time.Time) *Calibration {
	return &Calibration{
		samples: make([]float64, 0, calibrationCapacity),
		start:   now,
		window:  CalibrationWindow,
		active:  true,
	}
}

// Active reports whether the window is still open at now.
func (c *Calibration) Active(now time.Time) bool {
	return c.active && now.Sub(c.start) < c.window
}

// Add records a heading sample in degrees. Samples past the window or the
// buffer capacity are ignored.
func (c *Calibration) Add(headingDeg float64, now time.Time) {
	if !c.Active(now) || len(c.samples) >= calibrationCapacity {
		return
	}
	c.samples = append(c.samples, headingDeg)
}

// Finish closes the window and returns the computed offset in degrees
// (the negated sample mean). If fewer than the minimum number of samples
// were collected it returns ErrCalibrationTimeout and the caller must keep
// its prior offset.
func (c *Calibration) Finish() (float64, error) {
	c.active = false
	if len(c.samples) < calibrationMinSamples {
		return 0, ErrCalibrationTimeout
	}

	var sum float64
	for _, s := range c.samples {
		sum += s
	}
	return -(sum / float64(len(c.samples))), nil
}

// SampleCount returns how many samples have been collected so far.
func (c *Calibration) SampleCount() int {
	return len(c.samples)
}
