package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS         = 60
	DefaultSpeed       = 1.0
	DefaultTheme       = "dark"
	DefaultSpikeLevel  = -20.0
	DefaultExportWidth = 900
	DefaultExportRowPx = 14
)

// Config holds player settings that live outside any one dataset. Dataset
// material settings win unless an override here is non-empty.
type Config struct {
	Colormap    string  `yaml:"colormap"`     // override; empty = use dataset's
	Speed       float64 `yaml:"speed"`        // initial playback speed
	FPS         int     `yaml:"fps"`          // display tick rate for the TUI
	Focus       string  `yaml:"focus"`        // section name to chart/sonify
	Theme       string  `yaml:"theme"`        // tui theme name
	Audio       bool    `yaml:"audio"`        // sonify the focus section
	SpikeLevel  float64 `yaml:"spike_level"`  // threshold for spike counting (mV)
	ExportWidth int     `yaml:"export_width"` // svg timeline width in px
	ExportRowPx int     `yaml:"export_row"`   // svg row height in px
}

func DefaultConfig() *Config {
	return &Config{
		Speed:       DefaultSpeed,
		FPS:         DefaultFPS,
		Theme:       DefaultTheme,
		SpikeLevel:  DefaultSpikeLevel,
		ExportWidth: DefaultExportWidth,
		ExportRowPx: DefaultExportRowPx,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) normalize() {
	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.ExportWidth <= 0 {
		c.ExportWidth = DefaultExportWidth
	}
	if c.ExportRowPx <= 0 {
		c.ExportRowPx = DefaultExportRowPx
	}
}
