// Package projection maps camera-space star positions to screen space and
// decides what the camera can see.
package projection

import (
	"math"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// ScreenPoint is an ephemeral projected position, recomputed every frame.
// X and Y are in pixels from the top-left corner; Depth is the positive
// distance in front of the camera.
type ScreenPoint struct {
	X, Y  float64
	Depth float64
}

// Viewport describes the projection surface and vertical field of view.
type Viewport struct {
	Width, Height float64
	FOVDeg        float64 // vertical field of view in degrees
}

// focalLength derives the pinhole focal length in pixels from the vertical
// field of view.
func (v Viewport) focalLength() float64 {
	return (v.Height / 2) / math.Tan(mathutil.DegToRad(v.FOVDeg)/2)
}

// ProjectToScreen perspective-projects a camera-space point. The camera
// looks down -Z; points with z ≥ 0 are behind the camera and report ok=false
// without projecting.
func ProjectToScreen(p mathutil.Vec3, vp Viewport) (ScreenPoint, bool) {
	if p.Z >= 0 {
		return ScreenPoint{}, false
	}

	f := vp.focalLength()
	depth := -p.Z

	return ScreenPoint{
		X:     vp.Width/2 + p.X*f/depth,
		Y:     vp.Height/2 - p.Y*f/depth,
		Depth: depth,
	}, true
}

// UnprojectFromScreen is the exact inverse of ProjectToScreen for a given
// depth: projecting the result reproduces the screen point within floating
// point tolerance.
func UnprojectFromScreen(sp ScreenPoint, vp Viewport) mathutil.Vec3 {
	f := vp.focalLength()

	return mathutil.Vec3{
		X: (sp.X - vp.Width/2) * sp.Depth / f,
		Y: (vp.Height/2 - sp.Y) * sp.Depth / f,
		Z: -sp.Depth,
	}
}

// InFrustum is the rectangular (true perspective) visibility test: the point
// is in front of the camera and its projection lands on the viewport.
func InFrustum(p mathutil.Vec3, vp Viewport) bool {
	sp, ok := ProjectToScreen(p, vp)
	if !ok {
		return false
	}
	return sp.X >= 0 && sp.X <= vp.Width && sp.Y >= 0 && sp.Y <= vp.Height
}

// InAngularField is the circular visibility test used for simplified
// heading-based filtering in non-AR map views: the angle between the view
// direction and the target direction is at most radiusDeg.
func InAngularField(viewDir, target mathutil.Vec3, radiusDeg float64) bool {
	if viewDir.Norm() == 0 || target.Norm() == 0 {
		return false
	}
	return mathutil.RadToDeg(mathutil.AngleBetween(viewDir, target)) <= radiusDeg
}
