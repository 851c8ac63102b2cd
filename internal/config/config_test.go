package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Speed != 1.0 || cfg.FPS != 60 {
		t.Errorf("defaults: %+v", cfg)
	}
	if cfg.Colormap != "" {
		t.Errorf("default colormap override should be empty, got %q", cfg.Colormap)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neuroviz.yaml")

	cfg := DefaultConfig()
	cfg.Colormap = "viridis"
	cfg.Speed = 0.5
	cfg.Focus = "soma"
	cfg.Audio = true

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "neuroviz.yaml")
	if err := os.WriteFile(path, []byte("speed: -2\nfps: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Speed != DefaultSpeed || cfg.FPS != DefaultFPS {
		t.Errorf("bad values not normalized: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/neuroviz.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
