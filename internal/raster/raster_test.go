package raster

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/camera"
	"posecam/internal/framing"
	"posecam/internal/lighting"
	"posecam/internal/scene"
)

func frontCamera() *camera.Ortho {
	cam := camera.NewOrtho()
	cam.SetFrustum(framing.Frustum{Left: -2, Right: 2, Top: 2, Bottom: -2, Near: 0.1, Far: 100})
	cam.SetPosition(mgl64.Vec3{0, 0, 10})
	cam.LookAt(mgl64.Vec3{})
	return cam
}

func quad(z float64, size float64, c color.NRGBA) *scene.Node {
	h := size / 2
	n := scene.NewNode("quad")
	n.SetMesh(&scene.Mesh{
		Positions: []mgl64.Vec3{{-h, -h, z}, {h, -h, z}, {h, h, z}, {-h, h, z}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
		Color:     c,
	})
	return n
}

func near(a, b color.NRGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 1 && int(y)-int(x) <= 1 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestRenderBackgroundOnly(t *testing.T) {
	rig := lighting.Default()
	r := New(8, 6, 1)
	img := r.Render(nil, frontCamera(), &rig)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("expected 8x6, got %v", img.Bounds())
	}
	want := color.NRGBA{0x0b, 0x0b, 0x0b, 0xff}
	if got := img.NRGBAAt(3, 3); got != want {
		t.Errorf("expected background %v, got %v", want, got)
	}
}

func TestRenderDrawsSubject(t *testing.T) {
	rig := lighting.Default()
	root := scene.NewNode("root")
	root.Add(quad(0, 2, color.NRGBA{200, 200, 200, 255}))

	img := New(40, 40, 2).Render(root, frontCamera(), &rig)
	bg := color.NRGBA{0x0b, 0x0b, 0x0b, 0xff}
	if got := img.NRGBAAt(20, 20); near(got, bg) {
		t.Error("expected subject at the centre")
	}
	if got := img.NRGBAAt(1, 1); !near(got, bg) {
		t.Errorf("expected background in the corner, got %v", got)
	}
}

func TestDepthKeepsNearest(t *testing.T) {
	rig := lighting.Default()
	rig.Point.Intensity = 0
	root := scene.NewNode("root")
	// the far quad is added last and must not overwrite the near one
	root.Add(quad(1, 2, color.NRGBA{255, 0, 0, 255}))
	root.Add(quad(-1, 3, color.NRGBA{0, 0, 255, 255}))

	img := New(40, 40, 1).Render(root, frontCamera(), &rig)
	got := img.NRGBAAt(20, 20)
	if got.R <= got.B {
		t.Errorf("expected red (near) at the centre, got %v", got)
	}
	edge := img.NRGBAAt(20, 6)
	if edge.B <= edge.R {
		t.Errorf("expected blue (far, larger) outside the near quad, got %v", edge)
	}
}

func TestDepthClipsOutsideNearAndFar(t *testing.T) {
	rig := lighting.Default()
	bg := color.NRGBA{0x0b, 0x0b, 0x0b, 0xff}
	// camera at z=10, near 0.1, far 100
	for _, z := range []float64{-95, 9.95, 20} {
		root := scene.NewNode("root")
		root.Add(quad(z, 2, color.NRGBA{255, 255, 255, 255}))
		img := New(20, 20, 1).Render(root, frontCamera(), &rig)
		if got := img.NRGBAAt(10, 10); !near(got, bg) {
			t.Errorf("quad at z=%v: expected clipped, got %v", z, got)
		}
	}

	root := scene.NewNode("root")
	root.Add(quad(-85, 2, color.NRGBA{255, 255, 255, 255}))
	img := New(20, 20, 1).Render(root, frontCamera(), &rig)
	if got := img.NRGBAAt(10, 10); near(got, bg) {
		t.Error("expected quad inside the far plane to be drawn")
	}
}

func TestDirectTriangleClipsPerFragment(t *testing.T) {
	fb := NewFrameBuffer(10, 10)
	fb.Clear(0, 0, 0)
	s := &Surface{R: 255, G: 255, B: 255, Shade: mgl64.Vec3{1, 1, 1}, Exposure: 1}
	// depth runs from 3 on the left (in front of near) to -1 on the right
	RasterizeTriangle(fb,
		Vertex{X: 0, Y: 0, Z: 3}, Vertex{X: 10, Y: 0, Z: -1}, Vertex{X: 10, Y: 10, Z: -1}, s)

	if fb.ZBuf[1*10+1] != math.Inf(-1) {
		t.Errorf("expected pixel in front of near plane to be clipped, depth %v", fb.ZBuf[1*10+1])
	}
	if z := fb.ZBuf[1*10+8]; z > 1 || z < -1 {
		t.Errorf("expected pixel inside the depth range to be drawn, depth %v", z)
	}
}

func TestResizeChangesOutput(t *testing.T) {
	rig := lighting.Default()
	r := New(10, 10, 2)
	r.Resize(16, 9)
	if w, h := r.Size(); w != 16 || h != 9 {
		t.Errorf("expected 16x9, got %dx%d", w, h)
	}
	if r.Aspect() != 16.0/9.0 {
		t.Errorf("expected aspect 16/9, got %v", r.Aspect())
	}
	img := r.Render(nil, frontCamera(), &rig)
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 9 {
		t.Errorf("expected 16x9 image, got %v", img.Bounds())
	}
}

func TestFaceShadeFacesLight(t *testing.T) {
	rig := lighting.Default()
	rig.AmbientIntensity = 0
	rig.Hemi = 0
	toward := FaceShade(&rig, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{2, 0, 2})
	edgeOn := FaceShade(&rig, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2, 0, 2})
	if toward.Len() <= edgeOn.Len() {
		t.Errorf("expected a face toward the light to be brighter: %v vs %v", toward, edgeOn)
	}
	if edgeOn.Len() > 1e-9 {
		t.Errorf("expected no light on an edge-on face, got %v", edgeOn)
	}
}
