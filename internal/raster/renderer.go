// Package raster is a CPU rasterizer: z-buffered, flat-shaded triangles
// drawn through an orthographic camera, supersampled and filtered down.
package raster

import (
	"image"

	"posecam/internal/camera"
	"posecam/internal/lighting"
	"posecam/internal/postprocess"
	"posecam/internal/scene"
)

// Renderer owns the supersampled frame buffer. Not safe for concurrent use.
type Renderer struct {
	width, height int
	supersample   int
	fb            *FrameBuffer
	verts         []Vertex
}

// New returns a renderer for a width×height output. supersample < 1 is
// treated as 1.
func New(width, height, supersample int) *Renderer {
	r := &Renderer{supersample: max(supersample, 1)}
	r.width, r.height = max(width, 1), max(height, 1)
	r.fb = NewFrameBuffer(r.width*r.supersample, r.height*r.supersample)
	return r
}

// Resize changes the output size.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = max(width, 1), max(height, 1)
	r.fb.Resize(r.width*r.supersample, r.height*r.supersample)
}

// Size returns the output size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Aspect returns width / height of the output.
func (r *Renderer) Aspect() float64 {
	return float64(r.width) / float64(r.height)
}

// Render draws every mesh under root through cam and returns the
// filtered output image.
func (r *Renderer) Render(root *scene.Node, cam *camera.Ortho, rig *lighting.Rig) *image.NRGBA {
	fb := r.fb
	bg := rig.Background.Clamped()
	br, bgc, bb := bg.RGB255()
	fb.Clear(br, bgc, bb)

	if root != nil {
		root.UpdateWorld()
		root.Traverse(func(n *scene.Node) {
			if n.Mesh != nil {
				r.drawMesh(n.Mesh, cam, rig)
			}
		})
	}

	img := fb.Image()
	if r.supersample > 1 {
		img = postprocess.Downsample(img, r.width, r.height)
	}
	return img
}

func (r *Renderer) drawMesh(m *scene.Mesh, cam *camera.Ortho, rig *lighting.Rig) {
	world := m.WorldPositions()
	if len(world) == 0 {
		return
	}
	if cap(r.verts) < len(world) {
		r.verts = make([]Vertex, len(world))
	}
	verts := r.verts[:len(world)]
	hasUV := m.Texture != nil && len(m.UVs) == len(world)
	for i, p := range world {
		x, y, z := cam.Project(p, r.fb.Width, r.fb.Height)
		verts[i] = Vertex{X: x, Y: y, Z: z}
		if hasUV {
			verts[i].U, verts[i].V = float64(m.UVs[i][0]), float64(m.UVs[i][1])
		}
	}

	s := Surface{R: m.Color.R, G: m.Color.G, B: m.Color.B, Exposure: rig.Exposure}
	if hasUV {
		s.Texture = m.Texture
	}
	if s.Exposure <= 0 {
		s.Exposure = 1
	}

	idx := m.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		i0, i1, i2 := int(idx[t]), int(idx[t+1]), int(idx[t+2])
		if i0 >= len(world) || i1 >= len(world) || i2 >= len(world) {
			continue
		}
		p0, p1, p2 := world[i0], world[i1], world[i2]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		} else {
			continue
		}
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
		s.Shade = FaceShade(rig, n, centroid)
		RasterizeTriangle(r.fb, verts[i0], verts[i1], verts[i2], &s)
	}
}
