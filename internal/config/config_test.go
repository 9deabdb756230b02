package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rewind.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != "stdio" {
		t.Errorf("Transport = %q, want stdio", cfg.Transport)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
transport = "socket"
listen = "127.0.0.1:9000"
log_level = "debug"
fixture_dir = "/var/lib/rewind"
skip_frames = ["node_modules/**"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != "socket" || cfg.Listen != "127.0.0.1:9000" {
		t.Errorf("transport/listen = %q/%q", cfg.Transport, cfg.Listen)
	}
	if cfg.FixtureDir != "/var/lib/rewind" {
		t.Errorf("FixtureDir = %q", cfg.FixtureDir)
	}
	if len(cfg.SkipFrames) != 1 || cfg.SkipFrames[0] != "node_modules/**" {
		t.Errorf("SkipFrames = %v", cfg.SkipFrames)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Transport != "stdio" {
		t.Errorf("Transport = %q, want default stdio", cfg.Transport)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "transport = [not toml")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *ParseError", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `log_level = "warn"`)
	t.Setenv("REWIND_LOG_LEVEL", "error")
	t.Setenv("REWIND_SKIP_FRAMES", "vendor/**, node_modules/** ,")
	t.Setenv("REWIND_DEEMPHASIZE_FRAMES", "runtime/**")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, env should win over file", cfg.LogLevel)
	}
	if len(cfg.SkipFrames) != 2 {
		t.Errorf("SkipFrames = %v, want 2 trimmed patterns", cfg.SkipFrames)
	}
	if len(cfg.DeemphasizeFrames) != 1 || cfg.DeemphasizeFrames[0] != "runtime/**" {
		t.Errorf("DeemphasizeFrames = %v, want [runtime/**]", cfg.DeemphasizeFrames)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("REWIND_TRANSPORT", "carrier-pigeon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for invalid transport")
	}
}
