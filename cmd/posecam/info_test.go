package main

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"posecam/internal/anim"
	"posecam/internal/asset"
	"posecam/internal/host"
	"posecam/internal/scene"
)

func TestWriteInfo(t *testing.T) {
	root := scene.NewNode("statue")
	head := scene.NewNode("mixamorig:Head")
	head.Joint = true
	head.Translation = mgl64.Vec3{0, 1.7, 0}
	root.Add(head)
	body := scene.NewNode("body")
	body.SetMesh(scene.NewBoxMesh(mgl64.Vec3{-0.5, 0, -0.5}, mgl64.Vec3{0.5, 2, 0.5}, color.NRGBA{A: 255}))
	root.Add(body)
	m := &asset.Model{Name: "statue", Format: asset.FormatGLTF, Root: root, Clips: []*anim.Clip{{Name: "Wave", Duration: 2}}}

	cfg := host.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Supersample = 16, 16, 1
	cfg.Logger = host.Discard()
	h := host.New(cfg, nil)
	if err := h.OnLoad(m, nil); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	writeInfo(&buf, h)
	out := buf.String()
	for _, want := range []string{"statue (gltf)", "Triangles: 12", "Joints:    1", "mixamorig:Head", "* Wave"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}
