package scene

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh holds triangle geometry in its owner's local (bind) space.
type Mesh struct {
	Positions []mgl64.Vec3
	UVs       [][2]float32 // parallel to Positions; may be empty
	Indices   []uint32     // triangle list
	Texture   *image.NRGBA
	Color     color.NRGBA // used when Texture or UVs are missing
	Skin      *Skin

	Node *Node

	deformed []mgl64.Vec3
}

// Skin binds vertices to joints. Up to four influences per vertex.
type Skin struct {
	Joints      []*Node
	InverseBind []mgl64.Mat4 // parallel to Joints
	Influences  [][4]int     // joint slots per vertex
	Weights     [][4]float64 // parallel to Influences
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// WorldPositions returns the mesh vertices in world space, applying skinning
// when a skin is present. The returned slice is reused between calls.
//
// World matrices must be current (see Node.UpdateWorld).
func (m *Mesh) WorldPositions() []mgl64.Vec3 {
	if cap(m.deformed) < len(m.Positions) {
		m.deformed = make([]mgl64.Vec3, len(m.Positions))
	}
	out := m.deformed[:len(m.Positions)]

	if m.Skin == nil || len(m.Skin.Joints) == 0 {
		w := mgl64.Ident4()
		if m.Node != nil {
			w = m.Node.World()
		}
		for i, p := range m.Positions {
			out[i] = w.Mul4x1(p.Vec4(1)).Vec3()
		}
		return out
	}

	skin := m.Skin
	joint := make([]mgl64.Mat4, len(skin.Joints))
	for j, n := range skin.Joints {
		inv := mgl64.Ident4()
		if j < len(skin.InverseBind) {
			inv = skin.InverseBind[j]
		}
		joint[j] = n.World().Mul4(inv)
	}

	for i, p := range m.Positions {
		if i >= len(skin.Influences) {
			out[i] = p
			continue
		}
		var acc mgl64.Vec3
		var total float64
		for k := 0; k < 4; k++ {
			wt := skin.Weights[i][k]
			slot := skin.Influences[i][k]
			if wt == 0 || slot < 0 || slot >= len(joint) {
				continue
			}
			acc = acc.Add(joint[slot].Mul4x1(p.Vec4(1)).Vec3().Mul(wt))
			total += wt
		}
		if total > 0 && total != 1 {
			acc = acc.Mul(1 / total)
		}
		if total == 0 {
			acc = p
		}
		out[i] = acc
	}
	return out
}
