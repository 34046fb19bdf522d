// Package camera provides the orthographic camera the host renders through.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/framing"
	"posecam/internal/mathutil"
)

// Ortho is an orthographic camera looking at Target. Zoom divides the
// frustum extents, so zoom 2 shows half the width and height.
type Ortho struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3
	Zoom     float64
	Frustum  framing.Frustum

	view  mgl64.Mat4
	proj  mgl64.Mat4
	dirty bool
}

// NewOrtho returns a camera at +Z looking at the origin with a unit frustum.
func NewOrtho() *Ortho {
	c := &Ortho{
		Position: mgl64.Vec3{0, 0, 10},
		Up:       mathutil.AxisY,
		Zoom:     1,
		Frustum: framing.Frustum{
			Left: -1, Right: 1, Top: 1, Bottom: -1,
			Near: framing.Near, Far: framing.MinFar,
		},
		dirty: true,
	}
	c.updateMatrices()
	return c
}

// SetFrustum replaces the projection volume.
func (c *Ortho) SetFrustum(f framing.Frustum) {
	c.Frustum = f
	c.dirty = true
}

// SetPosition moves the camera.
func (c *Ortho) SetPosition(p mgl64.Vec3) {
	c.Position = p
	c.dirty = true
}

// LookAt aims the camera at target.
func (c *Ortho) LookAt(target mgl64.Vec3) {
	c.Target = target
	c.dirty = true
}

// SetZoom changes the ortho zoom. Non-positive values are clamped.
func (c *Ortho) SetZoom(z float64) {
	if z < mathutil.Epsilon || !mathutil.Finite(z) {
		z = mathutil.Epsilon
	}
	c.Zoom = z
	c.dirty = true
}

// View returns the world → camera matrix.
func (c *Ortho) View() mgl64.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.view
}

// Projection returns the camera → clip matrix.
func (c *Ortho) Projection() mgl64.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.proj
}

// ViewProjection returns Projection × View.
func (c *Ortho) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

func (c *Ortho) updateMatrices() {
	up := c.Up
	dir := c.Target.Sub(c.Position)
	if dir.Len() < mathutil.Epsilon {
		dir = mathutil.AxisZ.Mul(-1)
	}
	if dir.Normalize().Cross(up.Normalize()).Len() < mathutil.Epsilon {
		up = mathutil.AxisZ
	}
	c.view = mgl64.LookAtV(c.Position, c.Position.Add(dir), up)

	z := c.Zoom
	if z < mathutil.Epsilon {
		z = mathutil.Epsilon
	}
	f := c.Frustum
	c.proj = mgl64.Ortho(f.Left/z, f.Right/z, f.Bottom/z, f.Top/z, f.Near, f.Far)
	c.dirty = false
}

// Project maps a world point to pixel coordinates on a width×height
// viewport. Depth grows towards the camera (near plane = 1, far = -1).
func (c *Ortho) Project(p mgl64.Vec3, width, height int) (x, y, depth float64) {
	ndc := c.ViewProjection().Mul4x1(p.Vec4(1)).Vec3()
	x = (ndc[0] + 1) * 0.5 * float64(width)
	y = (1 - ndc[1]) * 0.5 * float64(height)
	return x, y, -ndc[2]
}
