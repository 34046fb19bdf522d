// Package framing fits an orthographic frustum around a subject's bounding
// volume and keeps it aspect-correct across viewport resizes.
package framing

import (
	"math"

	"posecam/internal/mathutil"
)

// Frustum is an orthographic projection volume. Left = -Right and
// Bottom = -Top always hold.
type Frustum struct {
	Left, Right float64
	Top, Bottom float64
	Near, Far   float64
}

// HalfWidth returns the horizontal half-extent.
func (f Frustum) HalfWidth() float64 { return f.Right }

// HalfHeight returns the vertical half-extent.
func (f Frustum) HalfHeight() float64 { return f.Top }

// Aspect returns the frustum's width/height ratio.
func (f Frustum) Aspect() float64 {
	if f.Top <= 0 {
		return 1
	}
	return f.Right / f.Top
}

func symmetric(halfWidth, halfHeight, near, far float64) Frustum {
	halfWidth = math.Max(halfWidth, mathutil.Epsilon)
	halfHeight = math.Max(halfHeight, mathutil.Epsilon)
	return Frustum{
		Left: -halfWidth, Right: halfWidth,
		Top: halfHeight, Bottom: -halfHeight,
		Near: near, Far: far,
	}
}

// ViewportAspect returns width/height, falling back to 1 for empty or
// invalid viewports.
func ViewportAspect(width, height int) float64 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return SanitizeAspect(float64(width) / float64(height))
}

// SanitizeAspect maps non-positive or non-finite ratios to 1.
func SanitizeAspect(a float64) float64 {
	if !mathutil.Finite(a) || a <= 0 {
		return 1
	}
	return a
}
