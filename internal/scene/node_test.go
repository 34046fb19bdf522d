package scene

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldPositionChainsParents(t *testing.T) {
	root := NewNode("root")
	root.Translation = mgl64.Vec3{0, 1, 0}

	pivot := NewNode("pivot")
	pivot.Rotation = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 1, 0})
	root.Add(pivot)

	head := NewNode("head")
	head.Translation = mgl64.Vec3{1, 0, 0}
	pivot.Add(head)

	root.UpdateWorld()

	got := head.WorldPosition()
	want := mgl64.Vec3{0, 1, 1}
	if !nearVec3(got, want, 1e-9) {
		t.Errorf("expected head at %v, got %v", want, got)
	}
}

func TestAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	a.Add(c)
	b.Add(c)

	if len(a.Children) != 0 {
		t.Errorf("expected c to be detached from a, still has %d children", len(a.Children))
	}
	if c.Parent != b {
		t.Errorf("expected parent b, got %v", c.Parent)
	}
}

func TestJointsTraversalOrder(t *testing.T) {
	root := NewNode("root")
	hips := NewNode("Hips")
	hips.Joint = true
	spine := NewNode("Spine")
	spine.Joint = true
	head := NewNode("Head")
	head.Joint = true
	root.Add(hips)
	hips.Add(spine)
	spine.Add(head)
	root.Add(NewNode("mesh"))

	joints := root.Joints()
	names := make([]string, len(joints))
	for i, j := range joints {
		names[i] = j.Name
	}
	want := []string{"Hips", "Spine", "Head"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
			break
		}
	}
}

func TestBoundsFollowsTransforms(t *testing.T) {
	root := NewNode("root")
	box := NewNode("box")
	box.SetMesh(NewBoxMesh(mgl64.Vec3{-1, 0, -1}, mgl64.Vec3{1, 2, 1}, color.NRGBA{A: 255}))
	box.Translation = mgl64.Vec3{5, 0, 0}
	box.Scale = mgl64.Vec3{2, 2, 2}
	root.Add(box)

	b := Bounds(root)
	if !nearVec3(b.Min, mgl64.Vec3{3, 0, -2}, 1e-9) {
		t.Errorf("expected min (3,0,-2), got %v", b.Min)
	}
	if !nearVec3(b.Max, mgl64.Vec3{7, 4, 2}, 1e-9) {
		t.Errorf("expected max (7,4,2), got %v", b.Max)
	}
}

func TestRigidSkinFollowsJoint(t *testing.T) {
	root := NewNode("root")
	bone := NewNode("bone")
	bone.Joint = true
	bone.Translation = mgl64.Vec3{0, 3, 0}
	root.Add(bone)

	holder := NewNode("skinned")
	holder.SetMesh(&Mesh{
		Positions: []mgl64.Vec3{{1, 0, 0}},
		Skin: &Skin{
			Joints:     []*Node{bone},
			Influences: [][4]int{{0, 0, 0, 0}},
			Weights:    [][4]float64{{1, 0, 0, 0}},
		},
	})
	root.Add(holder)
	root.UpdateWorld()

	got := holder.Mesh.WorldPositions()[0]
	if !nearVec3(got, mgl64.Vec3{1, 3, 0}, 1e-9) {
		t.Errorf("expected vertex to follow bone to (1,3,0), got %v", got)
	}
}

// nearVec3 compares component-wise against an absolute tolerance.
func nearVec3(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
