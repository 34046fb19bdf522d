// Package record plays a scripted session through the scene host and
// writes every frame as a WebP image plus a JSON manifest.
package record

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"posecam/internal/event"
)

// Script actions.
const (
	ActionToggle = "toggle"
	ActionResize = "resize"
	ActionLight  = "light"
	ActionQuit   = "quit"
)

const (
	DefaultDuration = 4.0
	DefaultFPS      = 24
	maxFrames       = 100000
)

// Step is one scripted input, fired on the first frame whose time is at
// or after At.
type Step struct {
	At     float64 `json:"at"`
	Action string  `json:"action"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Name  string  `json:"name,omitempty"`
	Value float64 `json:"value,omitempty"`
	Delta int     `json:"delta,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Script is a timed list of inputs.
type Script struct {
	Duration float64 `json:"duration"`
	FPS      int     `json:"fps"`
	Steps    []Step  `json:"steps"`
}

// DefaultScript turns to Profile after half a second and back after 2.5 s,
// leaving time for both transitions to settle.
func DefaultScript() Script {
	return Script{
		Duration: DefaultDuration,
		FPS:      DefaultFPS,
		Steps: []Step{
			{At: 0.5, Action: ActionToggle},
			{At: 2.5, Action: ActionToggle},
		},
	}
}

// LoadScript reads a JSON script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("record: read script %s: %w", path, err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("record: script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a JSON script. Missing duration or fps
// take the defaults; steps are ordered by time.
func ParseScript(data []byte) (Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("parse: %w", err)
	}
	if err := s.normalize(); err != nil {
		return Script{}, err
	}
	return s, nil
}

func (s *Script) normalize() error {
	if s.Duration <= 0 || math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) {
		s.Duration = DefaultDuration
	}
	if s.FPS <= 0 {
		s.FPS = DefaultFPS
	}
	if s.Frames() > maxFrames {
		return fmt.Errorf("%d frames exceeds the limit of %d", s.Frames(), maxFrames)
	}
	for i, st := range s.Steps {
		if _, err := st.Event(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return nil
}

// Frames returns how many frames the script renders.
func (s Script) Frames() int {
	return int(math.Ceil(s.Duration*float64(s.FPS))) + 1
}

// Event converts the step into a host event.
func (st Step) Event() (event.Event, error) {
	switch st.Action {
	case ActionToggle:
		return event.Event{Type: event.Toggle}, nil
	case ActionQuit:
		return event.Event{Type: event.Quit}, nil
	case ActionResize:
		if st.Width <= 0 || st.Height <= 0 {
			return event.Event{}, fmt.Errorf("resize needs a positive size, got %dx%d", st.Width, st.Height)
		}
		return event.Event{Type: event.Resize, Payload: event.ResizePayload{Width: st.Width, Height: st.Height}}, nil
	case ActionLight:
		if st.Name == "" && st.Color == "" {
			return event.Event{}, fmt.Errorf("light needs a name or a color")
		}
		return event.Event{Type: event.Light, Payload: event.LightPayload{
			Name: st.Name, Value: st.Value, Delta: st.Delta, Color: st.Color,
		}}, nil
	default:
		return event.Event{}, fmt.Errorf("unknown action %q", st.Action)
	}
}
