package fusion

import (
	"math"
	"testing"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

func TestOrientationFromHPR_UprightNorth(t *testing.T) {
	// Upright portrait facing north maps world up onto the device top edge.
	q := OrientationFromHPR(0, 0, 0)

	up := q.Rotate(mathutil.Vec3{Z: 1})
	if up.Sub(mathutil.Vec3{Y: 1}).Norm() > 1e-9 {
		t.Errorf("world up in device frame = %+v, want +Y", up)
	}
	north := q.Rotate(mathutil.Vec3{Y: 1})
	if north.Sub(mathutil.Vec3{Z: -1}).Norm() > 1e-9 {
		t.Errorf("world north in device frame = %+v, want -Z (camera axis)", north)
	}
}

func TestOrientationFromHPR_Unit(t *testing.T) {
	for h := 0.0; h < 360; h += 60 {
		for p := -80.0; p <= 80; p += 40 {
			for r := -90.0; r <= 90; r += 45 {
				if !OrientationFromHPR(h, p, r).IsUnit() {
					t.Errorf("non-unit orientation at h=%v p=%v r=%v", h, p, r)
				}
			}
		}
	}
}

func TestHPRRoundTrip(t *testing.T) {
	for h := 10.0; h < 360; h += 47 {
		for p := -75.0; p <= 75; p += 30 {
			for r := -60.0; r <= 60; r += 30 {
				q := OrientationFromHPR(h, p, r)
				gotH, gotP, gotR := HPRFromOrientation(q)

				hDiff := math.Abs(gotH - h)
				if hDiff > 180 {
					hDiff = 360 - hDiff
				}
				if hDiff > 1e-6 || math.Abs(gotP-p) > 1e-6 || math.Abs(gotR-r) > 1e-6 {
					t.Errorf("(%v,%v,%v) round-tripped to (%v,%v,%v)", h, p, r, gotH, gotP, gotR)
				}
			}
		}
	}
}

func TestOrientationFromHPR_CameraAxis(t *testing.T) {
	// Heading 90, camera at the horizon: the camera axis must point east.
	q := OrientationFromHPR(90, 0, 0)
	f := q.Conjugate().Rotate(mathutil.Vec3{Z: -1})

	if f.Sub(mathutil.Vec3{X: 1}).Norm() > 1e-9 {
		t.Errorf("camera axis = %+v, want east (+X)", f)
	}
}

func TestOrientationFromHPR_GravityConsistent(t *testing.T) {
	// The orientation must agree with the tilt conventions: mapping world
	// down into the device frame and deriving tilt from it returns the same
	// pitch and roll.
	for p := -60.0; p <= 60; p += 30 {
		for r := -45.0; r <= 45; r += 45 {
			q := OrientationFromHPR(120, p, r)
			gDev := q.Rotate(mathutil.Vec3{Z: -1}).Scale(-9.81) // device "up" response

			tilt, err := TiltFromGravity(gDev)
			if err != nil {
				t.Fatalf("p=%v r=%v: %v", p, r, err)
			}
			if math.Abs(tilt.PitchDeg-p) > 1e-6 || math.Abs(tilt.RollDeg-r) > 1e-6 {
				t.Errorf("p=%v r=%v: tilt from gravity gave (%v, %v)", p, r, tilt.PitchDeg, tilt.RollDeg)
			}
		}
	}
}
