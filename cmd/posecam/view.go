package main

import (
	"context"
	"errors"
	"log"

	"posecam/internal/config"
	"posecam/internal/host"
	"posecam/internal/terminal"
)

func runView(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	hc, err := cfg.HostConfig(logger)
	if err != nil {
		return err
	}

	display, err := terminal.Open()
	if err != nil {
		return err
	}
	defer display.Close()

	hc.Width, hc.Height = display.Viewport()
	h := host.New(hc, display)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go display.Listen(ctx, h.Queue())
	h.LoadAsync(ctx, cfg.Model, cfg.AssetOptions(logger))

	err = h.Run(ctx, cfg.FPS)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
