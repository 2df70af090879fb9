package fusion

import (
	"errors"
	"math"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Errors surfaced by heading derivation. Both are handled locally by the
// engine (the update is skipped, the previous output retained).
var (
	ErrGimbalLock    = errors.New("heading undefined: gravity outside the portrait axis")
	ErrInvalidSample = errors.New("invalid sensor sample")
)

// gimbalLockThreshold is the fraction of gravity allowed outside the device
// Y axis before heading becomes degenerate. A device lying flat (gravity on
// Z) or rolled fully sideways (gravity on X) exceeds it.
const gimbalLockThreshold = 0.99

// Tilt holds the device attitude derived from a gravity reading.
// Pitch is positive when the camera points below the horizon and negative
// when it points above; roll is positive when the device leans right.
type Tilt struct {
	PitchDeg float64
	RollDeg  float64
}

// TiltFromGravity derives pitch and roll from a gravity vector.
// The camera looks along -Z, so its elevation above the horizon is
// -asin(gz/|g|); pitch is the negation of that elevation.
func TiltFromGravity(g mathutil.Vec3) (Tilt, error) {
	n := g.Norm()
	if !g.IsFinite() || n < minGravity {
		return Tilt{}, ErrInvalidSample
	}

	return Tilt{
		PitchDeg: mathutil.RadToDeg(math.Asin(clamp(g.Z/n, -1, 1))),
		RollDeg:  mathutil.RadToDeg(math.Atan2(g.X, g.Y)),
	}, nil
}

// headingDegenerate reports whether the gravity vector has left the portrait
// axis far enough that a tilt-compensated heading is undefined.
func headingDegenerate(g mathutil.Vec3) bool {
	n := g.Norm()
	if n == 0 {
		return true
	}
	return math.Hypot(g.X, g.Z)/n > gimbalLockThreshold
}

// TiltCompensatedHeading computes the true heading of the camera axis from a
// magnetometer reading and a gravity reading, applying the declination
// correction for the current location.
//
// Both vectors are in the device frame. Returns ErrGimbalLock when the
// device points near-vertically; the caller must skip the update rather
// than extrapolate.
func TiltCompensatedHeading(mag, gravity mathutil.Vec3, declinationDeg float64) (float64, error) {
	if !mag.IsFinite() || !gravity.IsFinite() {
		return 0, ErrInvalidSample
	}
	if gravity.Norm() < minGravity {
		return 0, ErrInvalidSample
	}
	if headingDegenerate(gravity) {
		return 0, ErrGimbalLock
	}

	up := gravity.Normalized()

	// Project the magnetic field and the camera axis onto the horizontal
	// plane; the tilt compensation is exactly this removal of the vertical
	// component measured by the accelerometer.
	magH := mag.Sub(up.Scale(mag.Dot(up)))
	forward := mathutil.Vec3{Z: -1} // camera axis
	fwdH := forward.Sub(up.Scale(forward.Dot(up)))

	if magH.Norm() < 1e-9 || fwdH.Norm() < 1e-9 {
		return 0, ErrGimbalLock
	}

	// Signed angle from magnetic north to the camera axis, clockwise seen
	// from above, then declination to convert magnetic to true.
	headingMag := math.Atan2(fwdH.Cross(magH).Dot(up), fwdH.Dot(magH))
	heading := mathutil.RadToDeg(headingMag) + declinationDeg

	return normalizeHeading(heading), nil
}

// normalizeHeading wraps a heading into [0,360).
func normalizeHeading(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// blendHeading exponentially blends headings along the shorter arc.
// weight is the share of the new heading.
func blendHeading(prev, next, weight float64) float64 {
	delta := math.Mod(next-prev+540, 360) - 180
	return normalizeHeading(prev + delta*weight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
