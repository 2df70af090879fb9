package fusion

import (
	"math"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// The device orientation quaternion maps horizon-frame vectors
// (+X east, +Y north, +Z up) into the device frame. The identity orientation
// has the device axes aligned with the horizon frame: flat on its back,
// screen up, top edge north.

// OrientationFromHPR builds the device orientation quaternion from a true
// heading, pitch, and roll in degrees under the package conventions
// (pitch positive below the horizon, roll positive leaning right).
func OrientationFromHPR(headingDeg, pitchDeg, rollDeg float64) mathutil.Quat {
	h := mathutil.DegToRad(headingDeg)
	e := mathutil.DegToRad(-pitchDeg) // camera elevation
	r := mathutil.DegToRad(rollDeg)

	// Camera forward in the horizon frame.
	f := mathutil.Vec3{
		X: math.Cos(e) * math.Sin(h),
		Y: math.Cos(e) * math.Cos(h),
		Z: math.Sin(e),
	}

	up := mathutil.Vec3{Z: 1}
	zDev := f.Scale(-1)

	// Device top edge: world up projected off the camera axis, then rolled
	// about the camera axis. Near the zenith the projection vanishes; point
	// the top edge along the heading instead.
	y0 := up.Sub(f.Scale(up.Dot(f)))
	if y0.Norm() < 1e-9 {
		y0 = mathutil.Vec3{X: math.Sin(h), Y: math.Cos(h)}
	}
	yDev := mathutil.QuatFromAxisAngle(zDev, r).Rotate(y0.Normalized())
	xDev := yDev.Cross(zDev)

	// QuatFromBasis yields device→horizon; the device orientation is the
	// inverse.
	return mathutil.QuatFromBasis(xDev, yDev, zDev).Conjugate()
}

// HPRFromOrientation extracts heading, pitch, and roll in degrees from a
// device orientation quaternion. It is the inverse of OrientationFromHPR
// away from the zenith singularity.
func HPRFromOrientation(q mathutil.Quat) (headingDeg, pitchDeg, rollDeg float64) {
	inv := q.Conjugate()

	f := inv.Rotate(mathutil.Vec3{Z: -1}) // camera forward in horizon frame
	yDev := inv.Rotate(mathutil.Vec3{Y: 1})

	e := math.Asin(clamp(f.Z, -1, 1))
	h := math.Atan2(f.X, f.Y)

	up := mathutil.Vec3{Z: 1}
	y0 := up.Sub(f.Scale(up.Dot(f)))
	if y0.Norm() < 1e-9 {
		y0 = mathutil.Vec3{X: math.Sin(h), Y: math.Cos(h)}
	}
	y0 = y0.Normalized()

	zDev := f.Scale(-1)
	r := math.Atan2(y0.Cross(yDev).Dot(zDev), y0.Dot(yDev))

	return normalizeHeading(mathutil.RadToDeg(h)),
		mathutil.RadToDeg(-e),
		mathutil.RadToDeg(r)
}
