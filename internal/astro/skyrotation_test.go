package astro

import (
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

func TestComputeSkyOrientation_Unit(t *testing.T) {
	// The composed rotation must stay unit length for any site and time.
	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	for lat := -90.0; lat <= 90; lat += 45 {
		for lon := -180.0; lon <= 180; lon += 90 {
			for _, tm := range times {
				st := NewObserverState(Observer{LatDeg: lat, LonDeg: lon}, tm)
				sky := ComputeSkyOrientation(st)

				if !sky.Valid() {
					t.Errorf("lat=%v lon=%v %v: norm %v, want 1",
						lat, lon, tm, sky.WorldRotation.Norm())
				}
			}
		}
	}
}

func TestComputeSkyOrientation_Deterministic(t *testing.T) {
	st := NewObserverState(DefaultObserver(), time.Date(2024, 6, 15, 3, 30, 0, 0, time.UTC))

	a := ComputeSkyOrientation(st)
	b := ComputeSkyOrientation(st)

	if a.WorldRotation != b.WorldRotation {
		t.Error("identical observer states must produce identical rotations")
	}
}

func TestComputeSkyOrientation_Bookkeeping(t *testing.T) {
	st := NewObserverState(Observer{LatDeg: 42, LonDeg: -71}, time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC))
	sky := ComputeSkyOrientation(st)

	if sky.PoleElevationDeg != 42 {
		t.Errorf("pole elevation = %v, want latitude 42", sky.PoleElevationDeg)
	}
	want := st.LSTHours * 15
	if math.Abs(sky.MeridianOffsetDeg-want) > 1e-12 {
		t.Errorf("meridian offset = %v, want %v", sky.MeridianOffsetDeg, want)
	}
}

func TestComputeSkyOrientation_PoleFixedAcrossLST(t *testing.T) {
	// The celestial pole lies on the meridian yaw axis, so its image must
	// not move as sidereal time advances at a fixed site.
	obs := Observer{LatDeg: 30.2672, LonDeg: -97.7431}
	pole := mathutil.Vec3{Z: 1}

	base := ComputeSkyOrientation(NewObserverState(obs, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	ref := base.WorldRotation.Rotate(pole)

	for hour := 1; hour < 24; hour += 4 {
		st := NewObserverState(obs, time.Date(2024, 6, 15, hour, 0, 0, 0, time.UTC))
		got := ComputeSkyOrientation(st).WorldRotation.Rotate(pole)

		if got.Sub(ref).Norm() > 1e-9 {
			t.Errorf("hour %d: pole image moved by %v", hour, got.Sub(ref).Norm())
		}
	}
}

func TestSkyOrientation_ValidRejectsNonUnit(t *testing.T) {
	bad := SkyOrientation{WorldRotation: mathutil.Quat{W: 2}}
	if bad.Valid() {
		t.Error("norm-2 quaternion reported valid")
	}
}
