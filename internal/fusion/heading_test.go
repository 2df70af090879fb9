package fusion

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

func TestTiltFromGravity(t *testing.T) {
	tests := []struct {
		name      string
		g         mathutil.Vec3
		wantPitch float64
		wantRoll  float64
	}{
		// Upright portrait: gravity along +Y, camera at the horizon.
		{"upright", mathutil.Vec3{Y: 9.81}, 0, 0},
		// Flat on a table, screen up: gravity along +Z.
		{"flat screen up", mathutil.Vec3{Z: 9.81}, 90, 0},
		// Camera raised 30° above the horizon.
		{"raised 30", mathutil.Vec3{Y: 9.81 * math.Cos(math.Pi / 6), Z: -9.81 * math.Sin(math.Pi / 6)}, -30, 0},
		// Rolled 45° clockwise.
		{"rolled 45", mathutil.Vec3{X: 9.81 * math.Sin(math.Pi / 4), Y: 9.81 * math.Cos(math.Pi / 4)}, 0, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tilt, err := TiltFromGravity(tt.g)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(tilt.PitchDeg-tt.wantPitch) > 1e-9 {
				t.Errorf("pitch = %v, want %v", tilt.PitchDeg, tt.wantPitch)
			}
			if math.Abs(tilt.RollDeg-tt.wantRoll) > 1e-9 {
				t.Errorf("roll = %v, want %v", tilt.RollDeg, tt.wantRoll)
			}
		})
	}
}

func TestTiltFromGravity_RejectsWeak(t *testing.T) {
	if _, err := TiltFromGravity(mathutil.Vec3{Y: 0.1}); !errors.Is(err, ErrInvalidSample) {
		t.Errorf("weak gravity gave %v, want ErrInvalidSample", err)
	}
}

func TestTiltCompensatedHeading_Upright(t *testing.T) {
	// Upright portrait, camera due north: the horizontal field points along
	// the camera axis, so the heading is 0.
	gravity := mathutil.Vec3{Y: 9.81}
	north := mathutil.Vec3{Z: -30, Y: -40} // field dips below horizontal

	got, err := TiltCompensatedHeading(north, gravity, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got) > 1e-9 && math.Abs(got-360) > 1e-9 {
		t.Errorf("heading = %v, want 0", got)
	}
}

func TestTiltCompensatedHeading_East(t *testing.T) {
	// Camera axis (-Z) pointing east: the field (north) is 90° to its left,
	// so the reported heading is 90.
	gravity := mathutil.Vec3{Y: 9.81}
	// Device X axis now faces south, Z faces west: north in device frame is -X... -Z? Work
	// from the rotation: device yawed +90° about the up axis (+Y).
	mag := mathutil.Vec3{X: -30, Y: -5}

	got, err := TiltCompensatedHeading(mag, gravity, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-90) > 1e-6 {
		t.Errorf("heading = %v, want 90", got)
	}
}

func TestTiltCompensatedHeading_Declination(t *testing.T) {
	gravity := mathutil.Vec3{Y: 9.81}
	north := mathutil.Vec3{Z: -30, Y: -40}

	got, err := TiltCompensatedHeading(north, gravity, 4.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-4.5) > 1e-9 {
		t.Errorf("heading = %v, want declination 4.5", got)
	}
}

func TestTiltCompensatedHeading_GimbalLock(t *testing.T) {
	// Device flat on its back: gravity has no component along the portrait
	// axis, the heading is undefined, and the error must be explicit; the
	// result must never be NaN.
	gravity := mathutil.Vec3{Z: 9.8}
	mag := mathutil.Vec3{X: 20, Y: 30, Z: -10}

	got, err := TiltCompensatedHeading(mag, gravity, 0)
	if !errors.Is(err, ErrGimbalLock) {
		t.Fatalf("flat gravity gave %v, want ErrGimbalLock", err)
	}
	if math.IsNaN(got) {
		t.Error("heading is NaN on gimbal lock")
	}
}

func TestTiltCompensatedHeading_Range(t *testing.T) {
	gravity := mathutil.Vec3{Y: 9.81, Z: -2}
	for angle := 0.0; angle < 360; angle += 15 {
		a := mathutil.DegToRad(angle)
		mag := mathutil.Vec3{
			X: -30 * math.Sin(a),
			Z: -30 * math.Cos(a),
			Y: -20,
		}
		got, err := TiltCompensatedHeading(mag, gravity, 0)
		if err != nil {
			t.Fatalf("angle %v: unexpected error: %v", angle, err)
		}
		if got < 0 || got >= 360 {
			t.Errorf("angle %v: heading out of range: %v", angle, got)
		}
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-725, 355},
	}
	for _, tt := range tests {
		if got := normalizeHeading(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeHeading(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
