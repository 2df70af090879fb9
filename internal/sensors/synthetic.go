package sensors

import (
	"context"
	"math"
	"time"

	"github.com/litescript/ls-skylens/internal/fusion"
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Earth-field and gravity constants for the generator, in µT and m/s².
const (
	synFieldStrength  = 50.0
	synInclinationDeg = 60.0
	synGravity        = 9.81
)

// Synthetic is a deterministic sensor source that pans the camera across the
// sky at a fixed rate. It exists for demos and tests; identical settings
// always produce the identical stream.
type Synthetic struct {
	Interval     time.Duration // sample spacing, default 50ms
	PanRateDeg   float64       // heading change per second, default 6
	PitchUpDeg   float64       // fixed camera elevation, default 35
	StartHeading float64
}

// Name implements Source.
func (s *Synthetic) Name() string { return "synthetic" }

// Capabilities implements Source: the generator emits the full raw triplet.
func (s *Synthetic) Capabilities() fusion.Capabilities {
	return fusion.Capabilities{
		Magnetometer:  true,
		Accelerometer: true,
		Gyroscope:     true,
	}
}

// Run implements Source.
func (s *Synthetic) Run(ctx context.Context, out chan<- fusion.SensorSample) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	rate := s.PanRateDeg
	if rate == 0 {
		rate = 6
	}
	pitch := -s.PitchUpDeg
	if s.PitchUpDeg == 0 {
		pitch = -35
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			heading := math.Mod(s.StartHeading+rate*now.Sub(start).Seconds(), 360)
			grav, mag := SimulateAttitude(heading, pitch, 0)

			if !push(ctx, out, fusion.SensorSample{Kind: fusion.KindAccelerometer, Time: now, Vec: grav}) {
				return ctx.Err()
			}
			if !push(ctx, out, fusion.SensorSample{Kind: fusion.KindMagnetometer, Time: now, Vec: mag}) {
				return ctx.Err()
			}
			// Constant pan expressed as rotation rate about the up axis.
			gyro := grav.Normalized().Scale(-mathutil.DegToRad(rate))
			if !push(ctx, out, fusion.SensorSample{Kind: fusion.KindGyroscope, Time: now, Vec: gyro}) {
				return ctx.Err()
			}
		}
	}
}

// SimulateAttitude returns the gravity and magnetometer vectors a device at
// the given true heading, pitch, and roll would measure, assuming zero
// declination. Shared with the fusion tests.
func SimulateAttitude(headingDeg, pitchDeg, rollDeg float64) (gravity, mag mathutil.Vec3) {
	q := fusion.OrientationFromHPR(headingDeg, pitchDeg, rollDeg)

	up := mathutil.Vec3{Z: synGravity}

	// Field points toward magnetic north and dips below the horizontal by
	// the inclination angle.
	incl := mathutil.DegToRad(synInclinationDeg)
	field := mathutil.Vec3{
		Y: synFieldStrength * math.Cos(incl),
		Z: -synFieldStrength * math.Sin(incl),
	}

	return q.Rotate(up), q.Rotate(field)
}
