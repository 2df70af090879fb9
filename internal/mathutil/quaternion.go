package mathutil

import "math"

// UnitTolerance is the maximum deviation from unit magnitude a quaternion may
// carry before consumers treat it as invalid.
const UnitTolerance = 1e-4

// Quat represents a rotation quaternion (x, y, z, w).
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a quaternion rotating by angle (radians) around
// axis. The axis is normalized internally; a zero axis yields identity.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normalized()
	if a == (Vec3{}) {
		return IdentityQuat()
	}
	half := angle / 2
	s := math.Sin(half)
	return Quat{
		X: a.X * s,
		Y: a.Y * s,
		Z: a.Z * s,
		W: math.Cos(half),
	}
}

// Norm returns the quaternion magnitude.
func (q Quat) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalized returns a unit quaternion in the same orientation.
// A zero quaternion normalizes to identity.
func (q Quat) Normalized() Quat {
	n := q.Norm()
	if n == 0 {
		return IdentityQuat()
	}
	return Quat{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}
}

// IsUnit reports whether the quaternion magnitude is 1 within UnitTolerance.
func (q Quat) IsUnit() bool {
	return math.Abs(q.Norm()-1) <= UnitTolerance
}

// IsFinite reports whether all components are finite numbers.
func (q Quat) IsFinite() bool {
	for _, c := range [4]float64{q.X, q.Y, q.Z, q.W} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Conjugate returns the conjugate (inverse rotation for unit quaternions).
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul returns the Hamilton product q * r, the rotation r followed by q.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Dot returns the four-component dot product.
func (q Quat) Dot(r Quat) float64 {
	return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = q * (v,0) * q⁻¹ expanded to avoid the intermediate products.
	qv := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// AngleTo returns the rotation angle in radians between two unit quaternions.
func (q Quat) AngleTo(r Quat) float64 {
	d := math.Abs(q.Dot(r))
	if d > 1 {
		d = 1
	}
	return 2 * math.Acos(d)
}

// Slerp spherically interpolates from q to r by t in [0,1].
// The shorter arc is taken; nearly-parallel inputs fall back to a
// normalized linear blend to avoid division by a vanishing sine.
func Slerp(q, r Quat, t float64) Quat {
	d := q.Dot(r)
	if d < 0 {
		r = Quat{X: -r.X, Y: -r.Y, Z: -r.Z, W: -r.W}
		d = -d
	}

	const parallelThreshold = 0.9995
	if d > parallelThreshold {
		return Lerp(q, r, t)
	}

	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wq := math.Sin((1-t)*theta) / sinTheta
	wr := math.Sin(t*theta) / sinTheta

	return Quat{
		X: q.X*wq + r.X*wr,
		Y: q.Y*wq + r.Y*wr,
		Z: q.Z*wq + r.Z*wr,
		W: q.W*wq + r.W*wr,
	}.Normalized()
}

// Lerp blends quaternion components linearly by t and re-normalizes.
func Lerp(q, r Quat, t float64) Quat {
	if q.Dot(r) < 0 {
		r = Quat{X: -r.X, Y: -r.Y, Z: -r.Z, W: -r.W}
	}
	return Quat{
		X: q.X + (r.X-q.X)*t,
		Y: q.Y + (r.Y-q.Y)*t,
		Z: q.Z + (r.Z-q.Z)*t,
		W: q.W + (r.W-q.W)*t,
	}.Normalized()
}
