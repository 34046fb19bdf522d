package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"posecam/internal/config"
)

type options struct {
	configFile string
	logFile    string
	flags      config.Flags
}

func main() {
	var opts options

	root := &cobra.Command{
		Use:   "posecam",
		Short: "Camera framing for articulated models",
		Long: `posecam - orthographic framing and Front/Profile pose transitions

Loads BMD or glTF/GLB models, fits an orthographic camera to them and
animates between a full-body front view and a head-focused profile.

Settings come from --config (JSON), then POSECAM_* environment variables,
then flags.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config JSON file")
	root.PersistentFlags().StringVar(&opts.flags.TextureDir, "textures", "", "Extra texture directory for BMD models")
	root.PersistentFlags().IntVar(&opts.flags.Width, "width", 0, "Viewport width in pixels (default: 640)")
	root.PersistentFlags().IntVar(&opts.flags.Height, "height", 0, "Viewport height in pixels (default: 480)")
	root.PersistentFlags().IntVar(&opts.flags.Supersample, "supersample", 0, "Supersampling factor (default: 2)")
	root.PersistentFlags().StringVar(&opts.flags.Curve, "ease", "", "Transition curve: inOutQuad, inOutCubic, inOutSine, linear")
	root.PersistentFlags().BoolVar(&opts.flags.NoGround, "no-ground", false, "Hide the ground plane")
	root.PersistentFlags().BoolVar(&opts.flags.KeepEffects, "keep-effects", false, "Keep BMD glow and particle meshes")

	viewCmd := &cobra.Command{
		Use:   "view <model.bmd|model.glb|model.gltf>",
		Short: "Interactive terminal viewer",
		Long: `Interactive terminal viewer.

Controls:
  Space/T/Enter - Toggle Front/Profile
  x/X y/Y z/Z   - Move the point light
  i/I           - Light intensity
  d/D           - Light distance
  k/K           - Light decay
  a/A           - Ambient intensity
  C             - Cycle light colour
  Q/Esc         - Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(args[0])
			if err != nil {
				return err
			}
			logger, closeLog, err := opts.viewLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			return runView(cmd.Context(), cfg, logger)
		},
	}
	viewCmd.Flags().IntVar(&opts.flags.FPS, "fps", 0, "Target frame rate (default: 30)")
	viewCmd.Flags().StringVar(&opts.logFile, "log", "", "Write logs to this file")

	recordCmd := &cobra.Command{
		Use:   "record <model.bmd|model.glb|model.gltf>",
		Short: "Play a scripted session and write WebP frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(args[0])
			if err != nil {
				return err
			}
			return runRecord(cmd.Context(), cfg, newLogger(os.Stderr))
		},
	}
	recordCmd.Flags().StringVar(&opts.flags.OutputDir, "output", "", "Output directory (default: <model>-frames)")
	recordCmd.Flags().StringVar(&opts.flags.Script, "script", "", "Session script JSON (default: toggle at 0.5s and 2.5s)")
	recordCmd.Flags().IntVar(&opts.flags.FPS, "fps", 0, "Frame rate of the default script")
	recordCmd.Flags().IntVar(&opts.flags.Workers, "workers", 0, "Number of encoder goroutines (default: NumCPU)")

	infoCmd := &cobra.Command{
		Use:   "info <model.bmd|model.glb|model.gltf>",
		Short: "Show bounds, skeleton, clips and the fitted frustum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(args[0])
			if err != nil {
				return err
			}
			return runInfo(cmd.Context(), cmd.OutOrStdout(), cfg, newLogger(os.Stderr))
		},
	}

	root.AddCommand(viewCmd, recordCmd, infoCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "posecam: ", log.LstdFlags)
}

// resolve layers the config file, the environment and the flags.
func (o *options) resolve(model string) (config.Config, error) {
	var cfg config.Config
	if o.configFile != "" {
		var err error
		cfg, err = config.Load(o.configFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}
	cfg.Model = model
	cfg.Resolve(o.flags)
	return cfg, nil
}

// viewLogger keeps log lines off the terminal the viewer draws on.
func (o *options) viewLogger() (*log.Logger, func(), error) {
	if o.logFile == "" {
		return newLogger(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return newLogger(f), func() { f.Close() }, nil
}
