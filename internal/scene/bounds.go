package scene

import "posecam/internal/mathutil"

// Bounds refreshes world matrices under root and returns the world-space
// AABB of every mesh vertex in the subtree. The result is a fresh value.
func Bounds(root *Node) mathutil.Box {
	root.UpdateWorld()
	box := mathutil.EmptyBox()
	root.Traverse(func(n *Node) {
		if n.Mesh == nil {
			return
		}
		for _, p := range n.Mesh.WorldPositions() {
			box = box.Extend(p)
		}
	})
	return box
}
