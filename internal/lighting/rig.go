// Package lighting holds the scene's light rig and the named, range-checked
// parameters the light panel edits.
package lighting

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"posecam/internal/mathutil"
)

// ErrUnknownParam is returned for a parameter name the panel does not expose.
var ErrUnknownParam = errors.New("lighting: unknown parameter")

// PointLight is an omni light with three.js style range falloff.
type PointLight struct {
	Position  mgl64.Vec3
	Color     colorful.Color
	Intensity float64
	Distance  float64 // 0 means no cutoff
	Decay     float64
}

// Attenuation returns the falloff at distance d: 1/d^decay, smoothly
// windowed to zero at Distance.
func (p PointLight) Attenuation(d float64) float64 {
	f := 1 / math.Max(math.Pow(d, p.Decay), 0.01)
	if p.Distance > 0 {
		r := d / p.Distance
		w := mathutil.Clamp(1-r*r*r*r, 0, 1)
		f *= w * w
	}
	return f
}

// Rig is every light in the scene plus the clear colour.
type Rig struct {
	Background colorful.Color

	AmbientColor     colorful.Color
	AmbientIntensity float64

	Point PointLight

	// Hemi is a sky/ground fill keyed on how vertical a face is.
	Hemi     float64
	Exposure float64
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the stock scene: dark backdrop, dim white ambient and a
// violet point light up and to the right of the subject.
func Default() Rig {
	return Rig{
		Background:       mustHex("#0b0b0b"),
		AmbientColor:     mustHex("#ffffff"),
		AmbientIntensity: 0.25,
		Point: PointLight{
			Position:  mgl64.Vec3{2, 3, 2},
			Color:     mustHex("#8338ec"),
			Intensity: 5,
			Distance:  20,
			Decay:     2,
		},
		Hemi:     0.5,
		Exposure: 1.05,
	}
}

// Param describes one slider of the light panel.
type Param struct {
	Name string
	Min  float64
	Max  float64
	Step float64
}

var params = []Param{
	{Name: "x", Min: -10, Max: 10, Step: 0.5},
	{Name: "y", Min: -10, Max: 10, Step: 0.5},
	{Name: "z", Min: -10, Max: 10, Step: 0.5},
	{Name: "intensity", Min: 0, Max: 10, Step: 0.5},
	{Name: "distance", Min: 0, Max: 100, Step: 1},
	{Name: "decay", Min: 0, Max: 3, Step: 0.1},
	{Name: "ambient", Min: 0, Max: 1, Step: 0.05},
}

// Params lists the numeric panel parameters in display order. The point
// light colour is set separately with SetColor.
func Params() []Param {
	return append([]Param(nil), params...)
}

func lookup(name string) (Param, bool) {
	name = strings.ToLower(name)
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (r *Rig) field(name string) *float64 {
	switch strings.ToLower(name) {
	case "x":
		return &r.Point.Position[0]
	case "y":
		return &r.Point.Position[1]
	case "z":
		return &r.Point.Position[2]
	case "intensity":
		return &r.Point.Intensity
	case "distance":
		return &r.Point.Distance
	case "decay":
		return &r.Point.Decay
	case "ambient":
		return &r.AmbientIntensity
	}
	return nil
}

// Get returns a parameter's current value.
func (r *Rig) Get(name string) (float64, error) {
	f := r.field(name)
	if f == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return *f, nil
}

// Set assigns a parameter, clamping it into range. It returns the stored
// value. Non-finite values leave the parameter unchanged.
func (r *Rig) Set(name string, v float64) (float64, error) {
	p, ok := lookup(name)
	f := r.field(name)
	if !ok || f == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if mathutil.Finite(v) {
		*f = mathutil.Clamp(v, p.Min, p.Max)
	}
	return *f, nil
}

// Nudge moves a parameter by steps increments of its step size.
func (r *Rig) Nudge(name string, steps int) (float64, error) {
	p, ok := lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	cur, _ := r.Get(name)
	return r.Set(name, cur+float64(steps)*p.Step)
}

// SetColor sets the point light colour from a "#rrggbb" string.
func (r *Rig) SetColor(hex string) error {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fmt.Errorf("lighting: colour %q: %w", hex, err)
	}
	r.Point.Color = c
	return nil
}

// Apply sets parameters from strings, as read from config or the
// environment. "color" takes a hex colour; everything else is numeric.
// Keys are applied in sorted order and the first error stops.
func (r *Rig) Apply(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.TrimSpace(values[k])
		if strings.EqualFold(k, "color") {
			if err := r.SetColor(v); err != nil {
				return err
			}
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("lighting: %s=%q: %w", k, v, err)
		}
		if _, err := r.Set(k, f); err != nil {
			return err
		}
	}
	return nil
}

// Summary renders the panel state on one line.
func (r *Rig) Summary() string {
	p := r.Point
	return fmt.Sprintf("light %s pos(%.1f,%.1f,%.1f) int %.1f dist %.0f decay %.1f amb %.2f",
		p.Color.Hex(), p.Position[0], p.Position[1], p.Position[2],
		p.Intensity, p.Distance, p.Decay, r.AmbientIntensity)
}
