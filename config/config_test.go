package config

import (
	"os"
	"path/filepath"
	"testing"

	"sticker-canvas/sticker"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ListenAddr != ":3000" {
		t.Errorf("expected ListenAddr :3000, got %q", cfg.ListenAddr)
	}
	if cfg.MaxSessions != 5 {
		t.Errorf("expected MaxSessions 5, got %d", cfg.MaxSessions)
	}
	if cfg.MaxClientsPerSession != 10 {
		t.Errorf("expected MaxClientsPerSession 10, got %d", cfg.MaxClientsPerSession)
	}
	if cfg.ExportPixelRatio != 2 {
		t.Errorf("expected ExportPixelRatio 2, got %f", cfg.ExportPixelRatio)
	}
	if cfg.Geometry() != sticker.DefaultGeometry() {
		t.Errorf("expected default geometry, got %+v", cfg.Geometry())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

func TestLoadValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := `{
		"listenAddr": ":8080",
		"maxSessions": 20,
		"maxClientsPerSession": 50,
		"canvasWidth": 800,
		"canvasHeight": 600,
		"exportPixelRatio": 3,
		"exportDir": "/tmp/exports",
		"logLevel": "debug"
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected ListenAddr :8080, got %q", cfg.ListenAddr)
	}
	if cfg.MaxSessions != 20 {
		t.Errorf("expected MaxSessions 20, got %d", cfg.MaxSessions)
	}
	if cfg.MaxClientsPerSession != 50 {
		t.Errorf("expected MaxClientsPerSession 50, got %d", cfg.MaxClientsPerSession)
	}
	if cfg.CanvasWidth != 800 || cfg.CanvasHeight != 600 {
		t.Errorf("expected canvas 800x600, got %dx%d", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if cfg.ExportPixelRatio != 3 {
		t.Errorf("expected ExportPixelRatio 3, got %f", cfg.ExportPixelRatio)
	}
	if cfg.ExportDir != "/tmp/exports" {
		t.Errorf("unexpected ExportDir: %q", cfg.ExportDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("unexpected LogLevel: %q", cfg.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := Load("/nonexistent/path/config.json")
	defaults := DefaultConfig()

	if cfg != defaults {
		t.Errorf("expected defaults on missing file, got %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json!!!"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)
	defaults := DefaultConfig()

	if cfg != defaults {
		t.Errorf("expected defaults on invalid JSON, got %+v", cfg)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Sticker bigger than the canvas
	if err := os.WriteFile(path, []byte(`{"stickerSize": 900}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg != DefaultConfig() {
		t.Errorf("expected defaults on invalid values, got %+v", cfg)
	}
}

func TestLoadPartialJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Only override maxSessions; everything else should keep defaults
	data := `{"maxSessions": 42}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Load(path)

	if cfg.MaxSessions != 42 {
		t.Errorf("expected MaxSessions 42, got %d", cfg.MaxSessions)
	}
	// Remaining fields should be defaults
	if cfg.MaxClientsPerSession != 10 {
		t.Errorf("expected default MaxClientsPerSession 10, got %d", cfg.MaxClientsPerSession)
	}
	if cfg.Geometry() != sticker.DefaultGeometry() {
		t.Errorf("expected default geometry, got %+v", cfg.Geometry())
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExportPixelRatio = 0
	cfg.GridCell = -1

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}
