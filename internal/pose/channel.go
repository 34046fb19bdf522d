package pose

import (
	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/mathutil"
)

// Channel is one interpolated value. Arm captures the current value as the
// start point, so re-arming mid-flight continues from where the value is.
type Channel[T any] struct {
	Current T
	Start   T
	Target  T

	lerp func(a, b T, t float64) T
}

func newScalar(v float64) Channel[float64] {
	return Channel[float64]{Current: v, Start: v, Target: v, lerp: mathutil.Lerp}
}

func newVec3(v mgl64.Vec3) Channel[mgl64.Vec3] {
	return Channel[mgl64.Vec3]{Current: v, Start: v, Target: v, lerp: mathutil.LerpVec3}
}

// Reset places the channel at rest on v.
func (c *Channel[T]) Reset(v T) {
	c.Current, c.Start, c.Target = v, v, v
}

// Arm starts a new leg from the current value towards target.
func (c *Channel[T]) Arm(target T) {
	c.Start = c.Current
	c.Target = target
}

// Sample writes the eased progress t (0..1) into Current.
func (c *Channel[T]) Sample(t float64) {
	c.Current = c.lerp(c.Start, c.Target, t)
}

// Pin snaps Current exactly to Target.
func (c *Channel[T]) Pin() {
	c.Current = c.Target
}
