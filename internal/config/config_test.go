package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, 1280, cfg.Window.Width)
	require.Equal(t, 720, cfg.Window.Height)
	require.Equal(t, "nodeloom", cfg.Window.Title)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 60.0, cfg.Canvas.GridStep)
	require.True(t, cfg.Canvas.ShowGrid)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodeloom.toml")
	body := `
[window]
width = 1920
height = 1080

[log]
level = "debug"

[canvas]
grid_step = 40
show_grid = false
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1920, cfg.Window.Width)
	require.Equal(t, 1080, cfg.Window.Height)
	// untouched keys keep their defaults
	require.Equal(t, "nodeloom", cfg.Window.Title)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 40.0, cfg.Canvas.GridStep)
	require.False(t, cfg.Canvas.ShowGrid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\nwidth = -5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "window size")
}

func TestValidateGridStep(t *testing.T) {
	cfg := Default()
	cfg.Canvas.GridStep = 0
	require.Error(t, cfg.Validate())
}
