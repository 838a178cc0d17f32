package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the application shell configuration. Engine constants (snap
// radius, LOD thresholds, node box size) are code, not configuration.
type Config struct {
	Window Window `toml:"window"`
	Log    Log    `toml:"log"`
	Canvas Canvas `toml:"canvas"`
}

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type Log struct {
	Level string `toml:"level"`
}

type Canvas struct {
	GridStep float64 `toml:"grid_step"`
	ShowGrid bool    `toml:"show_grid"`
}

func Default() Config {
	return Config{
		Window: Window{Width: 1280, Height: 720, Title: "nodeloom"},
		Log:    Log{Level: "info"},
		Canvas: Canvas{GridStep: 60, ShowGrid: true},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Canvas.GridStep <= 0 {
		return fmt.Errorf("grid step must be positive, got %f", c.Canvas.GridStep)
	}
	return nil
}
