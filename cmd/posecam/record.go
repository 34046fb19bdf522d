package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"posecam/internal/asset"
	"posecam/internal/config"
	"posecam/internal/host"
	"posecam/internal/record"
)

func runRecord(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	script := record.DefaultScript()
	script.FPS = cfg.FPS
	if cfg.Script != "" {
		var err error
		script, err = record.LoadScript(cfg.Script)
		if err != nil {
			return err
		}
	}

	hc, err := cfg.HostConfig(logger)
	if err != nil {
		return err
	}

	m, err := asset.Load(ctx, cfg.Model, cfg.AssetOptions(logger))
	if err != nil {
		logger.Printf("load %s: %v", cfg.Model, err)
		return err
	}

	rec, err := record.NewRecorder(ctx, record.Options{
		Dir:      cfg.OutputDir,
		Workers:  cfg.Workers,
		Progress: os.Stdout,
	})
	if err != nil {
		return err
	}

	h := host.New(hc, rec)
	if err := h.OnLoad(m, nil); err != nil {
		rec.Close()
		return err
	}

	fmt.Printf("posecam record: %s (%s, %d triangles)\n", m.Name, m.Format, m.Triangles())
	fmt.Printf("Frames: %d at %d fps, Workers: %d\n", script.Frames(), script.FPS, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	n, playErr := record.Play(ctx, h, script)
	results, encErr := rec.Close()

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
	fmt.Printf("Rendered: %d/%d\n", n, script.Frames())

	failed := 0
	for _, r := range results {
		if r.Error == "" {
			continue
		}
		failed++
		if failed <= 20 {
			fmt.Printf("  %s: %s\n", r.Image, r.Error)
		}
	}

	width, height := h.Size()
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	manifest := record.NewManifest(m.Name, width, height, script.FPS, results)
	if err := record.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if playErr != nil {
		return playErr
	}
	if encErr != nil {
		return fmt.Errorf("%d frames failed: %w", failed, encErr)
	}
	return nil
}
