// Package scene holds the transform hierarchy rendered by the host: nodes
// with TRS transforms, optional meshes, and joint flags for skeletons.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Node is one transform in the scene graph. World matrices are cached and
// refreshed by UpdateWorld; callers mutate TRS fields directly and then
// update from the highest changed ancestor.
type Node struct {
	Name        string
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3

	// Matrix, when set, replaces the TRS fields as the local transform.
	Matrix *mgl64.Mat4

	Joint bool
	Mesh  *Mesh

	Parent   *Node
	Children []*Node

	world mgl64.Mat4
}

// NewNode returns a node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
		world:    mgl64.Ident4(),
	}
}

// Add attaches child under n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// SetMesh attaches m to n.
func (n *Node) SetMesh(m *Mesh) {
	n.Mesh = m
	if m != nil {
		m.Node = n
	}
}

// Local returns the node's local transform: T × R × S.
func (n *Node) Local() mgl64.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	t := mgl64.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// UpdateWorld recomputes the world matrices of n and its whole subtree
// from the parent's cached world matrix.
func (n *Node) UpdateWorld() {
	parent := mgl64.Ident4()
	if n.Parent != nil {
		parent = n.Parent.world
	}
	n.updateWorld(parent)
}

func (n *Node) updateWorld(parent mgl64.Mat4) {
	n.world = parent.Mul4(n.Local())
	for _, c := range n.Children {
		c.updateWorld(n.world)
	}
}

// World returns the cached world matrix.
func (n *Node) World() mgl64.Mat4 {
	return n.world
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.world.Col(3).Vec3()
}

// Traverse visits n and its descendants depth-first, parents before children.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// Joints returns every joint in the subtree in traversal order.
func (n *Node) Joints() []*Node {
	var out []*Node
	n.Traverse(func(c *Node) {
		if c.Joint {
			out = append(out, c)
		}
	})
	return out
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) {
		if found == nil && c.Name == name {
			found = c
		}
	})
	return found
}
