package record

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry describes one recorded frame.
type ManifestEntry struct {
	Frame     int64      `json:"frame"`
	Time      float64    `json:"time"`
	Image     string     `json:"image"`
	State     string     `json:"state"`
	Animating bool       `json:"animating"`
	Progress  float64    `json:"progress"`
	Zoom      float64    `json:"zoom"`
	RotationY float64    `json:"rotation_y"`
	Focus     [3]float64 `json:"focus"`
	Clip      string     `json:"clip,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Manifest is the index written next to the frames.
type Manifest struct {
	Model  string          `json:"model"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	FPS    int             `json:"fps"`
	Frames []ManifestEntry `json:"frames"`
}

// NewManifest builds a manifest from recorder results.
func NewManifest(model string, width, height, fps int, results []Result) Manifest {
	m := Manifest{Model: model, Width: width, Height: height, FPS: fps}
	m.Frames = make([]ManifestEntry, len(results))
	for i, r := range results {
		v := r.Info.Values
		m.Frames[i] = ManifestEntry{
			Frame:     r.Info.Frame,
			Time:      r.Info.Time,
			Image:     r.Image,
			State:     r.Info.State.String(),
			Animating: r.Info.Animating,
			Progress:  r.Info.Progress,
			Zoom:      v.Zoom,
			RotationY: v.RotationY,
			Focus:     [3]float64{v.Focus[0], v.Focus[1], v.Focus[2]},
			Clip:      r.Info.Clip,
			Error:     r.Error,
		}
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("record: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
