package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// NewPlaneMesh returns a size×size quad on the XZ plane centred at the origin.
func NewPlaneMesh(size float64, c color.NRGBA) *Mesh {
	h := size / 2
	return &Mesh{
		Positions: []mgl64.Vec3{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 2, 1, 0, 3, 2},
		Color:     c,
	}
}

// NewBoxMesh returns a closed box spanning min..max.
func NewBoxMesh(min, max mgl64.Vec3, c color.NRGBA) *Mesh {
	p := []mgl64.Vec3{
		{min[0], min[1], min[2]}, {max[0], min[1], min[2]},
		{max[0], max[1], min[2]}, {min[0], max[1], min[2]},
		{min[0], min[1], max[2]}, {max[0], min[1], max[2]},
		{max[0], max[1], max[2]}, {min[0], max[1], max[2]},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		3, 7, 6, 3, 6, 2, // top
		0, 1, 5, 0, 5, 4, // bottom
	}
	return &Mesh{Positions: p, Indices: idx, Color: c}
}
