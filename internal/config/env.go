package config

import (
	"fmt"
	"maps"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// rawEnv holds raw POSECAM_* values before they are merged.
type rawEnv struct {
	Model       string            `env:"POSECAM_MODEL"`
	TextureDir  string            `env:"POSECAM_TEXTURE_DIR"`
	OutputDir   string            `env:"POSECAM_OUTPUT_DIR"`
	Script      string            `env:"POSECAM_SCRIPT"`
	Width       int               `env:"POSECAM_WIDTH"`
	Height      int               `env:"POSECAM_HEIGHT"`
	Supersample int               `env:"POSECAM_SUPERSAMPLE"`
	Workers     int               `env:"POSECAM_WORKERS"`
	FPS         int               `env:"POSECAM_FPS"`
	Padding     float64           `env:"POSECAM_PADDING"`
	Background  string            `env:"POSECAM_BACKGROUND"`
	NoGround    bool              `env:"POSECAM_NO_GROUND"`
	KeepEffects bool              `env:"POSECAM_KEEP_EFFECTS"`
	Clips       []string          `env:"POSECAM_CLIPS"  envSeparator:","`
	Lights      map[string]string `env:"POSECAM_LIGHTS" envSeparator:"," envKeyValSeparator:"="`

	PoseDuration float64 `env:"POSECAM_POSE_DURATION"`
	ProfileAngle string  `env:"POSECAM_PROFILE_ANGLE"`
	ProfileScale float64 `env:"POSECAM_PROFILE_SCALE"`
	HeadFactor   float64 `env:"POSECAM_HEAD_FACTOR"`
	ZoomMin      float64 `env:"POSECAM_ZOOM_MIN"`
	ZoomMax      float64 `env:"POSECAM_ZOOM_MAX"`
	Curve        string  `env:"POSECAM_EASE"`
}

// ApplyEnv overlays POSECAM_* environment variables on c. Set variables
// win over the file; light entries merge key by key.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(env.Options{})
}

func (c *Config) applyEnv(opts env.Options) error {
	var raw rawEnv
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}

	setString(&c.Model, raw.Model)
	setString(&c.TextureDir, raw.TextureDir)
	setString(&c.OutputDir, raw.OutputDir)
	setString(&c.Script, raw.Script)
	setString(&c.Background, raw.Background)
	setString(&c.Pose.Curve, raw.Curve)

	setInt(&c.Width, raw.Width)
	setInt(&c.Height, raw.Height)
	setInt(&c.Supersample, raw.Supersample)
	setInt(&c.Workers, raw.Workers)
	setInt(&c.FPS, raw.FPS)

	setFloat(&c.Padding, raw.Padding)
	setFloat(&c.Pose.Duration, raw.PoseDuration)
	setFloat(&c.Pose.ProfileScale, raw.ProfileScale)
	setFloat(&c.Pose.HeadHeightFactor, raw.HeadFactor)
	setFloat(&c.Pose.ZoomMin, raw.ZoomMin)
	setFloat(&c.Pose.ZoomMax, raw.ZoomMax)

	if raw.NoGround {
		c.NoGround = true
	}
	if raw.KeepEffects {
		c.KeepEffects = true
	}
	if len(raw.Clips) > 0 {
		c.PreferredClips = raw.Clips
	}
	if raw.ProfileAngle != "" {
		deg, err := strconv.ParseFloat(raw.ProfileAngle, 64)
		if err != nil {
			return fmt.Errorf("config: POSECAM_PROFILE_ANGLE: %w", err)
		}
		c.Pose.ProfileAngleDeg = &deg
	}
	if len(raw.Lights) > 0 {
		if c.Lights == nil {
			c.Lights = make(map[string]string, len(raw.Lights))
		}
		maps.Copy(c.Lights, raw.Lights)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
