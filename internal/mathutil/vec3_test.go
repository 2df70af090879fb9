package mathutil

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 12}
	if got := v.Norm(); math.Abs(got-13) > 1e-12 {
		t.Errorf("norm = %v, want 13", got)
	}
}

func TestVec3Normalized(t *testing.T) {
	v := Vec3{X: 0, Y: 5, Z: 0}.Normalized()
	if v.Sub(Vec3{Y: 1}).Norm() > 1e-12 {
		t.Errorf("got %+v, want unit Y", v)
	}

	// The zero vector has no direction: it normalizes to itself.
	z := Vec3{}.Normalized()
	if z != (Vec3{}) {
		t.Errorf("zero vector normalized to %+v", z)
	}
}

func TestVec3Cross(t *testing.T) {
	got := Vec3{X: 1}.Cross(Vec3{Y: 1})
	if got.Sub(Vec3{Z: 1}).Norm() > 1e-12 {
		t.Errorf("X×Y = %+v, want +Z", got)
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"parallel", Vec3{X: 2}, Vec3{X: 5}, 0},
		{"orthogonal", Vec3{X: 1}, Vec3{Y: 1}, math.Pi / 2},
		{"opposite", Vec3{Z: 1}, Vec3{Z: -3}, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleBetween(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3IsFinite(t *testing.T) {
	if (Vec3{X: math.NaN()}).IsFinite() {
		t.Error("NaN component reported finite")
	}
	if !(Vec3{X: 1, Y: 2, Z: 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
}

func TestDegRadRoundTrip(t *testing.T) {
	for d := -720.0; d <= 720; d += 90 {
		if got := RadToDeg(DegToRad(d)); math.Abs(got-d) > 1e-9 {
			t.Errorf("round trip of %v° gave %v°", d, got)
		}
	}
}
