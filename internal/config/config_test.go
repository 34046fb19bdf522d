package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/caarlos0/env/v11"

	"posecam/internal/host"
	"posecam/internal/pose"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posecam.json")
	data := `{
		"model": "models/hero.glb",
		"width": 320,
		"lights": {"intensity": "7", "color": "#ff0000"},
		"pose": {"duration": 0.8, "profile_angle_deg": 90, "curve": "power3.inOut"}
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "models/hero.glb" || cfg.Width != 320 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Pose.ProfileAngleDeg == nil || *cfg.Pose.ProfileAngleDeg != 90 {
		t.Errorf("expected profile angle 90, got %v", cfg.Pose.ProfileAngleDeg)
	}
	if cfg.Lights["intensity"] != "7" {
		t.Errorf("expected intensity 7, got %q", cfg.Lights["intensity"])
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for bad JSON")
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg := Config{Model: filepath.Join("assets", "hero.bmd"), TextureDir: "tex"}
	cfg.Resolve(Flags{})

	if cfg.Width != 640 || cfg.Height != 480 || cfg.Supersample != 2 || cfg.FPS != 30 {
		t.Errorf("unexpected render defaults %+v", cfg)
	}
	if cfg.Workers <= 0 {
		t.Errorf("expected a positive worker count, got %d", cfg.Workers)
	}
	if cfg.Padding != 1.25 {
		t.Errorf("expected padding 1.25, got %v", cfg.Padding)
	}
	if want := filepath.Join("assets", "tex"); cfg.TextureDir != want {
		t.Errorf("expected texture dir %s, got %s", want, cfg.TextureDir)
	}
	if cfg.OutputDir != "hero-frames" {
		t.Errorf("expected output dir hero-frames, got %s", cfg.OutputDir)
	}
}

func TestResolveFlagsWin(t *testing.T) {
	cfg := Config{Width: 100, OutputDir: "file-out"}
	cfg.Resolve(Flags{Width: 200, OutputDir: "flag-out", Curve: "linear", NoGround: true})
	if cfg.Width != 200 || cfg.OutputDir != "flag-out" || cfg.Pose.Curve != "linear" || !cfg.NoGround {
		t.Errorf("expected flags to override, got %+v", cfg)
	}
}

func TestPoseParams(t *testing.T) {
	angle := 45.0
	cfg := Config{Pose: Pose{Duration: 2, ProfileAngleDeg: &angle, ZoomMax: 4, Curve: "linear"}}
	p, err := cfg.PoseParams()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Duration != 2 || p.ZoomMax != 4 {
		t.Errorf("unexpected params %+v", p)
	}
	if math.Abs(p.ProfileRotationY-math.Pi/4) > 1e-12 {
		t.Errorf("expected pi/4, got %v", p.ProfileRotationY)
	}
	if p.Ease(0.25) != 0.25 {
		t.Errorf("expected linear curve, got %v", p.Ease(0.25))
	}
	if p.ProfileScale != pose.DefaultParams().ProfileScale {
		t.Errorf("expected stock profile scale, got %v", p.ProfileScale)
	}
}

func TestPoseParamsZeroAngle(t *testing.T) {
	zero := 0.0
	p, err := Config{Pose: Pose{ProfileAngleDeg: &zero}}.PoseParams()
	if err != nil {
		t.Fatal(err)
	}
	if p.ProfileRotationY != 0 {
		t.Errorf("expected an explicit zero angle to be kept, got %v", p.ProfileRotationY)
	}
}

func TestPoseParamsRejects(t *testing.T) {
	if _, err := (Config{Pose: Pose{Curve: "bounce"}}).PoseParams(); err == nil {
		t.Error("expected an error for an unknown curve")
	}
	if _, err := (Config{Pose: Pose{ZoomMin: 5, ZoomMax: 2}}).PoseParams(); err == nil {
		t.Error("expected an error for an inverted zoom clamp")
	}
}

func TestHostConfig(t *testing.T) {
	cfg := Config{
		Background: "#102030",
		NoGround:   true,
		Lights:     map[string]string{"intensity": "3", "color": "#00ff00"},
	}
	cfg.Resolve(Flags{})
	hc, err := cfg.HostConfig(host.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hc.Ground {
		t.Error("expected the ground to be disabled")
	}
	if hc.Rig.Background.Hex() != "#102030" {
		t.Errorf("expected background #102030, got %s", hc.Rig.Background.Hex())
	}
	if hc.Rig.Point.Intensity != 3 || hc.Rig.Point.Color.Hex() != "#00ff00" {
		t.Errorf("unexpected point light %+v", hc.Rig.Point)
	}
	if len(hc.PreferredClips) == 0 {
		t.Error("expected the default clip preference")
	}

	cfg.Lights = map[string]string{"intensity": "bright"}
	if _, err := cfg.HostConfig(host.Discard()); err == nil {
		t.Error("expected an error for a non-numeric light value")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Config{Width: 100, Lights: map[string]string{"decay": "1"}}
	err := cfg.applyEnv(env.Options{Environment: map[string]string{
		"POSECAM_WIDTH":         "800",
		"POSECAM_CLIPS":         "Walk,Run",
		"POSECAM_LIGHTS":        "x=4,color=#ffffff",
		"POSECAM_PROFILE_ANGLE": "0",
		"POSECAM_EASE":          "inOutSine",
		"POSECAM_NO_GROUND":     "true",
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Width)
	}
	if len(cfg.PreferredClips) != 2 || cfg.PreferredClips[1] != "Run" {
		t.Errorf("expected clips [Walk Run], got %v", cfg.PreferredClips)
	}
	if cfg.Lights["x"] != "4" || cfg.Lights["color"] != "#ffffff" || cfg.Lights["decay"] != "1" {
		t.Errorf("expected merged lights, got %v", cfg.Lights)
	}
	if cfg.Pose.ProfileAngleDeg == nil || *cfg.Pose.ProfileAngleDeg != 0 {
		t.Errorf("expected explicit zero angle, got %v", cfg.Pose.ProfileAngleDeg)
	}
	if cfg.Pose.Curve != "inOutSine" || !cfg.NoGround {
		t.Errorf("unexpected pose/ground %+v", cfg)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	var cfg Config
	if err := cfg.applyEnv(env.Options{Environment: map[string]string{"POSECAM_WIDTH": "wide"}}); err == nil {
		t.Error("expected an error for a non-numeric width")
	}
	if err := cfg.applyEnv(env.Options{Environment: map[string]string{"POSECAM_PROFILE_ANGLE": "left"}}); err == nil {
		t.Error("expected an error for a bad angle")
	}
}

func TestApplyEnvEmpty(t *testing.T) {
	cfg := Config{Width: 100}
	if err := cfg.applyEnv(env.Options{Environment: map[string]string{}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 100 || cfg.Lights != nil {
		t.Errorf("expected config unchanged, got %+v", cfg)
	}
}
