package runtimeinit

import (
	"fmt"
	"log"

	"screen-region-capture/src/clipboard"
	"screen-region-capture/src/config"
)

type Options struct {
	SetupLogging func(bool)
}

// Bootstrap loads configuration and initializes the process-wide services
// (logging, clipboard) shared by the resident and trigger-only modes.
func Bootstrap(opts Options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.SetupLogging != nil {
		opts.SetupLogging(cfg.EnableFileLogging)
	}

	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	log.Printf("INIT: output dir %s, format %s", cfg.OutputDir, cfg.ImageFormat)
	return cfg, nil
}
