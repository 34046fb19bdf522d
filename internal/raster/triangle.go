package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a projected corner: pixel position, depth (larger is closer)
// and texture coordinate.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Surface is what a triangle is painted with: a texture when present,
// otherwise a flat colour, scaled by a per-face linear light.
type Surface struct {
	Texture  *image.NRGBA
	R, G, B  uint8
	Shade    mgl64.Vec3
	Exposure float64
}

// RasterizeTriangle fills one triangle with z-buffering. Shading is flat
// (per face); texels are decoded from sRGB, lit, tone-mapped and encoded.
// Fragments outside the depth range [-1, 1] (beyond the near or far plane)
// are clipped. The inner loop does not allocate.
func RasterizeTriangle(fb *FrameBuffer, a, b, c Vertex, s *Surface) {
	w, h := fb.Width, fb.Height

	if (a.Z > 1 && b.Z > 1 && c.Z > 1) || (a.Z < -1 && b.Z < -1 && c.Z < -1) {
		return
	}

	minX := int(math.Floor(math.Min(math.Min(a.X, b.X), c.X)))
	maxX := int(math.Ceil(math.Max(math.Max(a.X, b.X), c.X)))
	minY := int(math.Floor(math.Min(math.Min(a.Y, b.Y), c.Y)))
	maxY := int(math.Ceil(math.Max(math.Max(a.Y, b.Y), c.Y)))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, w-1), min(maxY, h-1)
	if minX > maxX || minY > maxY {
		return
	}

	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := b.Y - c.Y
	dx21 := c.X - b.X
	dy20 := c.Y - a.Y
	dx02 := a.X - c.X

	sr, sg, sb := s.Shade[0]*s.Exposure, s.Shade[1]*s.Exposure, s.Shade[2]*s.Exposure
	flatR := encode(srgbToLinear[s.R], sr, 1)
	flatG := encode(srgbToLinear[s.G], sg, 1)
	flatB := encode(srgbToLinear[s.B], sb, 1)
	tex := s.Texture

	for py := minY; py <= maxY; py++ {
		dsy := float64(py) + 0.5 - c.Y
		row := py * w
		for px := minX; px <= maxX; px++ {
			dsx := float64(px) + 0.5 - c.X
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.Z + w1*b.Z + w2*c.Z
			if z > 1 || z < -1 {
				continue
			}
			zi := row + px
			if z <= fb.ZBuf[zi] {
				continue
			}

			pi := zi * 4
			if tex == nil {
				fb.ZBuf[zi] = z
				fb.Color[pi], fb.Color[pi+1], fb.Color[pi+2], fb.Color[pi+3] = flatR, flatG, flatB, 255
				continue
			}

			u := w0*a.U + w1*b.U + w2*c.U
			v := w0*a.V + w1*b.V + w2*c.V
			cr, cg, cb, ca := SampleTexture(tex, u, v)
			if ca < 8 {
				continue
			}
			fb.ZBuf[zi] = z
			fb.Color[pi] = encode(srgbToLinear[cr], sr, 1)
			fb.Color[pi+1] = encode(srgbToLinear[cg], sg, 1)
			fb.Color[pi+2] = encode(srgbToLinear[cb], sb, 1)
			fb.Color[pi+3] = 255
		}
	}
}
