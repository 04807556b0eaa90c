package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1.0, cfg.Style.Density)
	assert.Equal(t, 15, cfg.Style.TextSizeSP)
	assert.Equal(t, 10, cfg.Style.ArrowSideDP)
	assert.Equal(t, 4, cfg.Style.CornerRadiusDP)
	assert.Equal(t, 7, cfg.Style.PaddingVerticalDP)
	assert.Equal(t, 14, cfg.Style.PaddingHorizontalDP)
	assert.True(t, cfg.Style.Bold)
	assert.True(t, cfg.Behavior.DismissOnTap)
	assert.True(t, cfg.Behavior.TrackTargets)
	assert.Zero(t, cfg.TimeoutDuration())
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, "system", cfg.Theme.ColorScheme)
	assert.Equal(t, 8, cfg.Daemon.MaxActive)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/anchortip.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anchortip.toml")

	content := `
[style]
density = 2.0
arrow_side_dp = 12
color = "#1e1e2e"
text_color = "#cdd6f4"
bold = false

[behavior]
dismiss_on_tap = false
timeout = "5s"

[theme]
name = "catppuccin"
color_scheme = "dark"

[daemon]
max_active = 3
monitor = 1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Style.Density)
	assert.Equal(t, 12, cfg.Style.ArrowSideDP)
	assert.Equal(t, "#1e1e2e", cfg.Style.Color)
	assert.False(t, cfg.Style.Bold)
	assert.False(t, cfg.Behavior.DismissOnTap)
	assert.Equal(t, 5*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, "catppuccin", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.ColorScheme)
	assert.Equal(t, 3, cfg.Daemon.MaxActive)
	assert.Equal(t, 1, cfg.Daemon.Monitor)

	// Unset values keep their defaults.
	assert.Equal(t, 14, cfg.Style.PaddingHorizontalDP)
	assert.True(t, cfg.Behavior.TrackTargets)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anchortip.toml")
	require.NoError(t, os.WriteFile(path, []byte("[style\ndensity = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero density", func(c *Config) { c.Style.Density = 0 }, true},
		{"tiny text", func(c *Config) { c.Style.TextSizeSP = 2 }, true},
		{"zero arrow", func(c *Config) { c.Style.ArrowSideDP = 0 }, true},
		{"negative padding", func(c *Config) { c.Style.PaddingVerticalDP = -1 }, true},
		{"bad color", func(c *Config) { c.Style.Color = "#zzzzzz" }, true},
		{"empty color uses theme", func(c *Config) { c.Style.Color = "" }, false},
		{"color without hash", func(c *Config) { c.Style.TextColor = "ff8800" }, false},
		{"bad scheme", func(c *Config) { c.Theme.ColorScheme = "sepia" }, true},
		{"negative timeout", func(c *Config) { c.Behavior.Timeout = Duration(-time.Second) }, true},
		{"no active tooltips", func(c *Config) { c.Daemon.MaxActive = 0 }, true},
		{"negative monitor", func(c *Config) { c.Daemon.Monitor = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Save(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "anchortip.toml")

	cfg := DefaultConfig()
	cfg.Theme.Name = "dark"
	cfg.Behavior.Timeout = Duration(1500 * time.Millisecond)

	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Theme.Name)
	assert.Equal(t, 1500*time.Millisecond, loaded.TimeoutDuration())
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250", 250 * time.Millisecond, false},
		{"0", 0, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration())
		})
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", c.Hex())

	_, err = ParseColor("red")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/anchortip/anchortip.toml", ConfigPath())
	assert.Equal(t, "/tmp/xdg/anchortip", ConfigDir())
}
