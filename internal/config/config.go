package config

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"

	"posecam/internal/asset"
	"posecam/internal/framing"
	"posecam/internal/host"
	"posecam/internal/mathutil"
	"posecam/internal/pose"
)

// Config holds all configurable paths, render settings and scene tuning.
type Config struct {
	// Paths
	Model      string `json:"model"`
	TextureDir string `json:"texture_dir"`
	OutputDir  string `json:"output_dir"`
	Script     string `json:"script"`

	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Supersample int     `json:"supersample"`
	Workers     int     `json:"workers"`
	FPS         int     `json:"fps"`
	Padding     float64 `json:"padding"`

	// Scene
	Background     string            `json:"background"`
	NoGround       bool              `json:"no_ground"`
	KeepEffects    bool              `json:"keep_effects"`
	PreferredClips []string          `json:"preferred_clips"`
	Lights         map[string]string `json:"lights"`
	Pose           Pose              `json:"pose"`
}

// Pose tunes the Front/Profile composition. Zero values keep the stock
// constants.
type Pose struct {
	Duration         float64  `json:"duration"`
	ProfileAngleDeg  *float64 `json:"profile_angle_deg"`
	ProfileScale     float64  `json:"profile_scale"`
	HeadHeightFactor float64  `json:"head_height_factor"`
	ZoomMin          float64  `json:"zoom_min"`
	ZoomMax          float64  `json:"zoom_max"`
	Curve            string   `json:"curve"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file and environment
// settings.
type Flags struct {
	TextureDir  string
	OutputDir   string
	Script      string
	Width       int
	Height      int
	Supersample int
	Workers     int
	FPS         int
	Curve       string
	NoGround    bool
	KeepEffects bool
}

// Resolve applies flags and fills any empty fields with defaults. Relative
// texture and output directories are resolved against the model's
// directory.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Script != "" {
		c.Script = flags.Script
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Curve != "" {
		c.Pose.Curve = flags.Curve
	}
	if flags.NoGround {
		c.NoGround = true
	}
	if flags.KeepEffects {
		c.KeepEffects = true
	}

	if c.Model != "" {
		base := filepath.Dir(c.Model)
		if c.TextureDir != "" && !filepath.IsAbs(c.TextureDir) {
			c.TextureDir = filepath.Join(base, c.TextureDir)
		}
		if c.OutputDir == "" {
			stem := filepath.Base(c.Model)
			stem = stem[:len(stem)-len(filepath.Ext(stem))]
			c.OutputDir = stem + "-frames"
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "posecam-frames"
	}

	// Defaults for render settings
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Padding <= 0 || math.IsNaN(c.Padding) {
		c.Padding = framing.DefaultPadding
	}
}

// PoseParams merges the pose tuning over the stock constants.
func (c Config) PoseParams() (pose.Params, error) {
	p := pose.DefaultParams()
	tp := c.Pose
	if tp.Duration > 0 {
		p.Duration = tp.Duration
	}
	if tp.ProfileAngleDeg != nil {
		p.ProfileRotationY = mathutil.Deg2Rad(*tp.ProfileAngleDeg)
	}
	if tp.ProfileScale > 0 {
		p.ProfileScale = tp.ProfileScale
	}
	if tp.HeadHeightFactor > 0 {
		p.HeadHeightFactor = tp.HeadHeightFactor
	}
	if tp.ZoomMin > 0 {
		p.ZoomMin = tp.ZoomMin
	}
	if tp.ZoomMax > 0 {
		p.ZoomMax = tp.ZoomMax
	}
	if p.ZoomMax < p.ZoomMin {
		return pose.Params{}, fmt.Errorf("config: zoom_max %g below zoom_min %g", p.ZoomMax, p.ZoomMin)
	}
	if tp.Curve != "" {
		fn, ok := pose.Curve(tp.Curve)
		if !ok {
			return pose.Params{}, fmt.Errorf("config: unknown ease curve %q", tp.Curve)
		}
		p.Ease = fn
	}
	return p, nil
}

// HostConfig builds the scene host setup.
func (c Config) HostConfig(logger *log.Logger) (host.Config, error) {
	hc := host.DefaultConfig()
	hc.Width, hc.Height = c.Width, c.Height
	hc.Supersample = c.Supersample
	hc.Padding = c.Padding
	hc.Ground = !c.NoGround
	hc.Logger = logger

	p, err := c.PoseParams()
	if err != nil {
		return host.Config{}, err
	}
	hc.Pose = p

	if len(c.PreferredClips) > 0 {
		hc.PreferredClips = c.PreferredClips
	}
	if c.Background != "" {
		bg, err := colorful.Hex(c.Background)
		if err != nil {
			return host.Config{}, fmt.Errorf("config: background %q: %w", c.Background, err)
		}
		hc.Rig.Background = bg
	}
	if err := hc.Rig.Apply(c.Lights); err != nil {
		return host.Config{}, fmt.Errorf("config: lights: %w", err)
	}
	return hc, nil
}

// AssetOptions returns loader options for the configured texture directory.
func (c Config) AssetOptions(logger *log.Logger) asset.Options {
	opts := asset.Options{Logger: logger, KeepEffects: c.KeepEffects}
	if c.TextureDir != "" {
		opts.TextureDirs = []string{c.TextureDir}
	}
	return opts
}
