package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the smallest extent treated as non-degenerate geometry.
const Epsilon = 1e-4

// Axes used throughout the scene graph (Y-up, right-handed).
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// ModelFlip converts Z-up (DirectX/BMD) to Y-up: Rx(-90°).
var ModelFlip = mgl64.QuatRotate(-math.Pi/2, AxisX)

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec3 interpolates component-wise between a and b by t.
func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// Finite reports whether v is neither NaN nor ±Inf.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
