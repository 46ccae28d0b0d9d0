package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"screen-region-capture/src/storage"
)

// EnvPathVar names an alternate .env location when none sits next to the
// executable.
const EnvPathVar = "SCREEN_REGION_ENV"

type Config struct {
	// OutputDir is the root under which W{w}H{h}/ directories are created.
	OutputDir string
	// ImageFormat is "webp" (default, lossless) or "png".
	ImageFormat string
	EnableFileLogging bool
}

// Load reads configuration from sources in priority order:
//  1. .env in the application (executable) directory
//  2. If not found, SCREEN_REGION_ENV as a path to a config file
//
// Environment variables win over file values. Loading the .env early also
// makes TRIGGER_PORT_* visible to the trigger package before any port scan.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		OutputDir:         resolveOutputDir(),
		ImageFormat:       resolveImageFormat(),
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true" || os.Getenv("ENABLE_FILE_LOGGING") == "1",
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveOutputDir() string {
	if dir := strings.TrimSpace(os.Getenv("OUTPUT_DIR")); dir != "" {
		return dir
	}
	if execPath, err := os.Executable(); err == nil {
		return filepath.Dir(execPath)
	}
	return "."
}

func resolveImageFormat() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("IMAGE_FORMAT"))) {
	case storage.FormatPNG:
		return storage.FormatPNG
	default:
		return storage.FormatWebP
	}
}
