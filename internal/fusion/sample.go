// Package fusion turns raw magnetometer, accelerometer, and gyroscope
// samples into a stable device orientation and true heading.
//
// Device frame convention (portrait): +X toward the right edge, +Y toward
// the top edge, +Z out of the screen. The camera looks along -Z. Gravity is
// reported as the device axis pointing up reading positive, so a device
// lying flat screen-up measures approximately (0, 0, 9.8).
package fusion

import (
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// SampleKind tags the sensor that produced a sample.
type SampleKind int

const (
	KindMagnetometer  SampleKind = iota // µT
	KindAccelerometer                   // m/s², gravity included
	KindGyroscope                       // rad/s
	KindOrientation                     // absolute device orientation
)

// String returns the kind name.
func (k SampleKind) String() string {
	switch k {
	case KindMagnetometer:
		return "magnetometer"
	case KindAccelerometer:
		return "accelerometer"
	case KindGyroscope:
		return "gyroscope"
	case KindOrientation:
		return "orientation"
	default:
		return "unknown"
	}
}

// SensorSample is the single tagged variant every sensor source emits.
// Vec carries the reading for vector sensors; Orientation carries the
// absolute quaternion for device-motion sources.
type SensorSample struct {
	Kind        SampleKind
	Time        time.Time
	Vec         mathutil.Vec3
	Orientation mathutil.Quat
}

// Valid reports whether the sample carries usable numbers. NaN or infinite
// components, and near-zero gravity vectors, are dropped by the engine.
func (s SensorSample) Valid() bool {
	switch s.Kind {
	case KindOrientation:
		return s.Orientation.IsFinite() && s.Orientation.Norm() > 0
	case KindAccelerometer:
		return s.Vec.IsFinite() && s.Vec.Norm() > minGravity
	default:
		return s.Vec.IsFinite()
	}
}

// minGravity is the smallest accelerometer magnitude (m/s²) accepted as a
// gravity reading; free-fall or garbage samples fall below it.
const minGravity = 0.5
