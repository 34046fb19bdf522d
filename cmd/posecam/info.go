package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"posecam/internal/asset"
	"posecam/internal/config"
	"posecam/internal/host"
	"posecam/internal/mathutil"
)

func runInfo(ctx context.Context, w io.Writer, cfg config.Config, logger *log.Logger) error {
	hc, err := cfg.HostConfig(logger)
	if err != nil {
		return err
	}
	m, err := asset.Load(ctx, cfg.Model, cfg.AssetOptions(logger))
	if err != nil {
		return err
	}
	hc.Logger = host.Discard()
	h := host.New(hc, nil)
	if err := h.OnLoad(m, nil); err != nil {
		return err
	}
	writeInfo(w, h)
	return nil
}

func writeInfo(w io.Writer, h *host.Host) {
	m := h.Model()
	fit, _ := h.Fit()
	v := fit.Volume

	fmt.Fprintf(w, "Model:     %s (%s)\n", m.Name, m.Format)
	fmt.Fprintf(w, "Triangles: %d\n", m.Triangles())
	fmt.Fprintf(w, "Bounds:    (%.3f, %.3f, %.3f) .. (%.3f, %.3f, %.3f)\n",
		v.Min[0], v.Min[1], v.Min[2], v.Max[0], v.Max[1], v.Max[2])
	fmt.Fprintf(w, "Height:    %.3f\n", fit.SubjectHeight)

	fmt.Fprintf(w, "Joints:    %d\n", h.JointCount())
	head := "none (geometric fallback)"
	if j := h.HeadJoint(); j != nil {
		head = j.Name
	}
	f := h.HeadFocus()
	fmt.Fprintf(w, "Head:      %s at (%.3f, %.3f, %.3f)\n", head, f[0], f[1], f[2])

	fr := fit.Frustum
	fmt.Fprintf(w, "Frustum:   half %.3f x %.3f, near %.2f, far %.0f\n", fr.HalfWidth(), fr.HalfHeight(), fr.Near, fr.Far)
	fmt.Fprintf(w, "Camera:    (%.3f, %.3f, %.3f)\n", fit.Camera[0], fit.Camera[1], fit.Camera[2])

	selected := ""
	if c := h.Clip(); c != nil {
		selected = c.Name
	}
	fmt.Fprintf(w, "Clips:     %d\n", len(m.Clips))
	for _, c := range m.Clips {
		mark := " "
		if c.Name == selected {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s %-40s %6.2fs %3d tracks\n", mark, c.Name, c.Duration, len(c.Tracks))
	}

	targets := h.Pose().TargetsFor(h.Pose().State().Opposite())
	fmt.Fprintf(w, "Profile:   turn %.0f°, zoom %.3f, scale %.2f\n",
		mathutil.Rad2Deg(targets.RotationY), targets.Zoom, targets.Scale)
}
