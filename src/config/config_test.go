package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "")
	t.Setenv("IMAGE_FORMAT", "")
	t.Setenv("ENABLE_FILE_LOGGING", "")
	t.Setenv(EnvPathVar, "")
	os.Unsetenv("OUTPUT_DIR")
	os.Unsetenv("IMAGE_FORMAT")
	os.Unsetenv("ENABLE_FILE_LOGGING")
	os.Unsetenv(EnvPathVar)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ImageFormat != "webp" {
		t.Errorf("ImageFormat = %q, want %q", cfg.ImageFormat, "webp")
	}
	if cfg.EnableFileLogging {
		t.Error("EnableFileLogging = true, want false by default")
	}
	if cfg.OutputDir == "" {
		t.Error("OutputDir is empty, want executable directory fallback")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_DIR", "/tmp/captures")
	t.Setenv("IMAGE_FORMAT", "png")
	t.Setenv("ENABLE_FILE_LOGGING", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/tmp/captures" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/tmp/captures")
	}
	if cfg.ImageFormat != "png" {
		t.Errorf("ImageFormat = %q, want %q", cfg.ImageFormat, "png")
	}
	if !cfg.EnableFileLogging {
		t.Error("EnableFileLogging = false, want true")
	}
}

func TestLoadUnknownFormatFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMAGE_FORMAT", "jpeg")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ImageFormat != "webp" {
		t.Errorf("ImageFormat = %q, want fallback %q", cfg.ImageFormat, "webp")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "capture.env")
	content := "OUTPUT_DIR=/srv/shots\nIMAGE_FORMAT=png\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatalf("writing env file: %v", err)
	}
	t.Setenv(EnvPathVar, envFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.OutputDir != "/srv/shots" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/srv/shots")
	}
	if cfg.ImageFormat != "png" {
		t.Errorf("ImageFormat = %q, want %q", cfg.ImageFormat, "png")
	}
}
