// Package focus resolves the head focus point of a loaded model.
//
// Joints are indexed once at load time. The head joint is the first joint
// whose name contains "head" but not "end" (helper tips such as "Head_end"
// are skipped); an "end" joint is used only when nothing else matches.
// Skeleton-less models fall back to a point above the bounds centre.
package focus

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/scene"
)

// HeadLift is the fraction of the model height added to the bounds centre
// when no head joint exists (roughly eye/forehead height).
const HeadLift = 0.35

// Index holds the head candidates found once per loaded model.
type Index struct {
	joints int
	heads  []*scene.Node // "head" matches without "end", traversal order
	ends   []*scene.Node // "head" matches that also contain "end"
}

// BuildIndex indexes every joint under root.
func BuildIndex(root *scene.Node) *Index {
	idx := &Index{}
	if root == nil {
		return idx
	}
	for _, j := range root.Joints() {
		idx.joints++
		name := strings.ToLower(j.Name)
		if !strings.Contains(name, "head") {
			continue
		}
		if strings.Contains(name, "end") {
			idx.ends = append(idx.ends, j)
		} else {
			idx.heads = append(idx.heads, j)
		}
	}
	return idx
}

// Len returns the number of indexed joints.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.joints
}

// HeadJoint returns the preferred head joint, or nil.
func (idx *Index) HeadJoint() *scene.Node {
	if idx == nil {
		return nil
	}
	if len(idx.heads) > 0 {
		return idx.heads[0]
	}
	if len(idx.ends) > 0 {
		return idx.ends[0]
	}
	return nil
}

// ResolveHeadFocus returns the world position of the head joint, or the
// geometric fallback computed from modelRoot's bounds.
func ResolveHeadFocus(idx *Index, modelRoot *scene.Node) mgl64.Vec3 {
	if modelRoot == nil {
		return mgl64.Vec3{}
	}
	if head := idx.HeadJoint(); head != nil {
		modelRoot.UpdateWorld()
		return head.WorldPosition()
	}
	box := scene.Bounds(modelRoot)
	return box.Center().Add(mgl64.Vec3{0, box.Size()[1] * HeadLift, 0})
}
