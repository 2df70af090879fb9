package astro

import (
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// SkyOrientation holds the rotation from the celestial (catalog) frame into
// the observer's local horizon frame, derived solely from ObserverState.
type SkyOrientation struct {
	WorldRotation     mathutil.Quat
	PoleElevationDeg  float64 // Elevation of the celestial pole, equals latitude
	MeridianOffsetDeg float64 // LST expressed as an angle
}

// ComputeSkyOrientation builds the world rotation quaternion by composing
// three axis rotations in fixed order: yaw by the meridian offset (LST as an
// angle), pitch by minus the latitude, yaw by the longitude. Yaw is a
// rotation about +Z, pitch about +X, combined longitude∘latitude∘meridian.
func ComputeSkyOrientation(st ObserverState) SkyOrientation {
	meridianDeg := st.LSTHours * 15

	qMeridian := mathutil.QuatFromAxisAngle(mathutil.Vec3{Z: 1}, mathutil.DegToRad(meridianDeg))
	qLatitude := mathutil.QuatFromAxisAngle(mathutil.Vec3{X: 1}, mathutil.DegToRad(-st.Observer.LatDeg))
	qLongitude := mathutil.QuatFromAxisAngle(mathutil.Vec3{Z: 1}, mathutil.DegToRad(st.Observer.LonDeg))

	world := qLongitude.Mul(qLatitude).Mul(qMeridian)

	return SkyOrientation{
		WorldRotation:     world,
		PoleElevationDeg:  st.Observer.LatDeg,
		MeridianOffsetDeg: meridianDeg,
	}
}

// Valid reports whether the world rotation is a unit quaternion within the
// shared tolerance. Callers log a failure and keep using the orientation;
// it is still usable, just potentially inaccurate.
func (s SkyOrientation) Valid() bool {
	return s.WorldRotation.IsUnit()
}
