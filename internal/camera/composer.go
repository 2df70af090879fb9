// Package camera composes the sky's world rotation with the live device
// orientation into the per-frame camera quaternion.
package camera

import (
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Composer accumulates device rotation and multiplies it with the sky
// orientation each frame. One Composer per render session.
type Composer struct {
	device mathutil.Quat
}

// NewComposer starts from the identity device orientation.
func NewComposer() *Composer {
	return &Composer{device: mathutil.IdentityQuat()}
}

// Device returns the accumulated device quaternion.
func (c *Composer) Device() mathutil.Quat {
	return c.device
}

// SetDevice replaces the accumulated device orientation with an absolute
// sample, for platforms that deliver fused orientation directly.
func (c *Composer) SetDevice(q mathutil.Quat) {
	c.device = q.Normalized()
}

// IntegrateRate folds one gyroscope reading into the accumulated device
// quaternion: axis = the normalized angular velocity, angle = |velocity|·Δt.
// A non-positive Δt (clock skew between samples) or zero velocity vector is
// skipped entirely.
func (c *Composer) IntegrateRate(velocity mathutil.Vec3, dt float64) {
	if dt <= 0 {
		return
	}
	speed := velocity.Norm()
	if speed == 0 {
		return
	}

	delta := mathutil.QuatFromAxisAngle(velocity, speed*dt)
	c.device = c.device.Mul(delta).Normalized()
}

// Compose returns the final camera quaternion for the frame: the accumulated
// device rotation applied after the sky's world rotation. The product is
// re-normalized so drift cannot accumulate across frames.
func (c *Composer) Compose(worldRotation mathutil.Quat) mathutil.Quat {
	return c.device.Mul(worldRotation).Normalized()
}

// Reset returns the accumulated device orientation to identity.
func (c *Composer) Reset() {
	c.device = mathutil.IdentityQuat()
}
