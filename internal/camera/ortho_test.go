package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/framing"
)

func TestProjectCentresTarget(t *testing.T) {
	c := NewOrtho()
	c.SetFrustum(framing.Frustum{Left: -2, Right: 2, Top: 1, Bottom: -1, Near: 0.1, Far: 100})
	c.SetPosition(mgl64.Vec3{0, 1, 4})
	c.LookAt(mgl64.Vec3{0, 1, 0})

	x, y, _ := c.Project(mgl64.Vec3{0, 1, 0}, 200, 100)
	if math.Abs(x-100) > 1e-9 || math.Abs(y-50) > 1e-9 {
		t.Errorf("expected target at (100,50), got (%v,%v)", x, y)
	}

	// Top-right corner of the frustum maps to the top-right pixel.
	x, y, _ = c.Project(mgl64.Vec3{2, 2, 0}, 200, 100)
	if math.Abs(x-200) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("expected corner at (200,0), got (%v,%v)", x, y)
	}
}

func TestZoomShrinksVisibleExtent(t *testing.T) {
	c := NewOrtho()
	c.SetFrustum(framing.Frustum{Left: -1, Right: 1, Top: 1, Bottom: -1, Near: 0.1, Far: 100})
	c.SetPosition(mgl64.Vec3{0, 0, 5})
	c.LookAt(mgl64.Vec3{})
	c.SetZoom(2)

	x, _, _ := c.Project(mgl64.Vec3{0.5, 0, 0}, 100, 100)
	if math.Abs(x-100) > 1e-9 {
		t.Errorf("expected x=0.5 at the right edge with zoom 2, got %v", x)
	}
}

func TestDepthGrowsTowardCamera(t *testing.T) {
	c := NewOrtho()
	c.SetPosition(mgl64.Vec3{0, 0, 10})
	c.LookAt(mgl64.Vec3{})

	_, _, near := c.Project(mgl64.Vec3{0, 0, 1}, 10, 10)
	_, _, far := c.Project(mgl64.Vec3{0, 0, -1}, 10, 10)
	if near <= far {
		t.Errorf("expected closer point to have larger depth, got near=%v far=%v", near, far)
	}
}

func TestSetZoomClampsNonPositive(t *testing.T) {
	c := NewOrtho()
	c.SetZoom(0)
	if c.Zoom <= 0 {
		t.Errorf("expected positive zoom, got %v", c.Zoom)
	}
	c.SetZoom(math.NaN())
	if math.IsNaN(c.Zoom) {
		t.Error("expected NaN zoom to be clamped")
	}
}

func TestLookStraightDownDoesNotDegenerate(t *testing.T) {
	c := NewOrtho()
	c.SetPosition(mgl64.Vec3{0, 10, 0})
	c.LookAt(mgl64.Vec3{})

	x, y, _ := c.Project(mgl64.Vec3{}, 10, 10)
	if math.IsNaN(x) || math.IsNaN(y) {
		t.Error("expected finite projection when looking along the up axis")
	}
}
