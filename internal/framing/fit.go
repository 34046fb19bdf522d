package framing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/mathutil"
	"posecam/internal/scene"
)

const (
	// DefaultPadding leaves a quarter of the subject height as margin.
	DefaultPadding = 1.25

	Near   = 0.1
	MinFar = 2000.0

	// cameraDistance places the camera this many max-extents from the focus,
	// but never closer than minCameraDistance.
	cameraDistance    = 2.0
	minCameraDistance = 1.0
	farExtents     = 10.0
)

// DefaultViewDir looks at the subject from +Z (front view).
var DefaultViewDir = mathutil.AxisZ

// Fit is the result of framing a subject: the frustum plus the values the
// pose controller needs later.
type Fit struct {
	Frustum Frustum
	Focus   mgl64.Vec3 // volume centre
	Camera  mgl64.Vec3 // camera position along the view axis

	SubjectHeight   float64
	HalfWidthNeeded float64 // horizontal floor that avoids clipping the subject
	Volume          mathutil.Box
}

// HalfHeight returns the vertical half-extent the fit was computed with.
func (f Fit) HalfHeight() float64 { return f.Frustum.Top }

// FitSubtree computes the world bounds of root and fits a front-view frustum.
func FitSubtree(root *scene.Node, aspect, padding float64) Fit {
	return FitBox(scene.Bounds(root), aspect, padding, DefaultViewDir)
}

// FitBox derives an aspect-correct orthographic frustum that contains box.
// The vertical extent sets halfHeight; the horizontal extent only widens
// the frame when the viewport is too narrow to hold the subject.
func FitBox(box mathutil.Box, aspect, padding float64, viewDir mgl64.Vec3) Fit {
	aspect = SanitizeAspect(aspect)
	if !mathutil.Finite(padding) || padding <= 0 {
		padding = DefaultPadding
	}
	if viewDir.Len() < mathutil.Epsilon {
		viewDir = DefaultViewDir
	}

	size := box.Size()
	focus := box.Center()

	halfHeight := math.Max(0.5*size[1]*padding, mathutil.Epsilon)
	halfWidthNeeded := math.Max(0.5*size[0]*padding, mathutil.Epsilon)
	halfWidth := math.Max(halfHeight*aspect, halfWidthNeeded)

	maxExtent := box.MaxExtent()
	far := math.Max(MinFar, maxExtent*farExtents)
	dist := math.Max(maxExtent*cameraDistance, minCameraDistance)

	return Fit{
		Frustum:         symmetric(halfWidth, halfHeight, Near, far),
		Focus:           focus,
		Camera:          focus.Add(viewDir.Normalize().Mul(dist)),
		SubjectHeight:   size[1],
		HalfWidthNeeded: halfWidthNeeded,
		Volume:          box,
	}
}

// Resize recomputes the horizontal extent for a new viewport aspect. The
// vertical frame (halfHeight) is preserved and the subject is not refit,
// so a rotated or zoomed pose keeps its framing.
func (f *Fit) Resize(aspect float64) {
	aspect = SanitizeAspect(aspect)
	halfHeight := f.Frustum.Top
	halfWidth := math.Max(halfHeight*aspect, f.HalfWidthNeeded)
	f.Frustum = symmetric(halfWidth, halfHeight, f.Frustum.Near, f.Frustum.Far)
}
