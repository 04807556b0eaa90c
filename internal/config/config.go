// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// Default configuration values. Sizes are density-independent units.
const (
	DefaultDensity             = 1.0
	DefaultTextSizeSP          = 15
	DefaultArrowSideDP         = 10
	DefaultCornerRadiusDP      = 4
	DefaultPaddingVerticalDP   = 7
	DefaultPaddingHorizontalDP = 14
	DefaultMaxActive           = 8
)

// Config represents the anchortip configuration.
// Loaded from ~/.config/anchortip/anchortip.toml
type Config struct {
	Style    StyleConfig    `toml:"style"`
	Behavior BehaviorConfig `toml:"behavior"`
	Theme    ThemeConfig    `toml:"theme"`
	Daemon   DaemonConfig   `toml:"daemon"`
}

// StyleConfig holds the balloon and arrow appearance.
type StyleConfig struct {
	Density             float64 `toml:"density"`               // Pixels per dp
	TextSizeSP          int     `toml:"text_size_sp"`          // Balloon text size
	ArrowSideDP         int     `toml:"arrow_side_dp"`         // Short side of the arrow glyph
	CornerRadiusDP      int     `toml:"corner_radius_dp"`      // Balloon corner radius
	PaddingVerticalDP   int     `toml:"padding_vertical_dp"`   // Balloon top/bottom padding
	PaddingHorizontalDP int     `toml:"padding_horizontal_dp"` // Balloon left/right padding
	Color               string  `toml:"color"`                 // Balloon color, "#rrggbb" (empty = theme)
	TextColor           string  `toml:"text_color"`            // Text color, "#rrggbb" (empty = theme)
	Bold                bool    `toml:"bold"`
}

// BehaviorConfig holds interaction settings.
type BehaviorConfig struct {
	DismissOnTap bool     `toml:"dismiss_on_tap"` // Tap dismisses unless a click handler is set
	TrackTargets bool     `toml:"track_targets"`  // Follow live targets every frame
	Timeout      Duration `toml:"timeout"`        // Auto-dismiss, "0" = never
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name without extension
	ColorScheme string `toml:"color_scheme"` // "system", "light", or "dark"
}

// DaemonConfig holds anchortipd settings.
type DaemonConfig struct {
	MaxActive int `toml:"max_active"` // Oldest tooltip is closed beyond this
	Monitor   int `toml:"monitor"`    // 0 = primary, 1+ = specific monitor
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Style: StyleConfig{
			Density:             DefaultDensity,
			TextSizeSP:          DefaultTextSizeSP,
			ArrowSideDP:         DefaultArrowSideDP,
			CornerRadiusDP:      DefaultCornerRadiusDP,
			PaddingVerticalDP:   DefaultPaddingVerticalDP,
			PaddingHorizontalDP: DefaultPaddingHorizontalDP,
			Bold:                true,
		},
		Behavior: BehaviorConfig{
			DismissOnTap: true,
			TrackTargets: true,
			Timeout:      Duration(0),
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Daemon: DaemonConfig{
			MaxActive: DefaultMaxActive,
			Monitor:   0,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "anchortip", "anchortip.toml")
}

// ConfigDir returns the directory holding the config file and user themes.
func ConfigDir() string {
	path := ConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	// Start with defaults
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and writes atomically via a temp file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	s := c.Style
	if s.Density <= 0 || s.Density > 8 {
		return fmt.Errorf("density must be between 0 and 8, got %g", s.Density)
	}
	if s.TextSizeSP < 6 || s.TextSizeSP > 96 {
		return fmt.Errorf("text_size_sp must be between 6 and 96, got %d", s.TextSizeSP)
	}
	for name, v := range map[string]int{
		"arrow_side_dp":         s.ArrowSideDP,
		"corner_radius_dp":      s.CornerRadiusDP,
		"padding_vertical_dp":   s.PaddingVerticalDP,
		"padding_horizontal_dp": s.PaddingHorizontalDP,
	} {
		if v < 0 || v > 200 {
			return fmt.Errorf("%s must be between 0 and 200, got %d", name, v)
		}
	}
	if s.ArrowSideDP == 0 {
		return errors.New("arrow_side_dp must be greater than 0")
	}

	for name, v := range map[string]string{"color": s.Color, "text_color": s.TextColor} {
		if v == "" {
			continue
		}
		if _, err := ParseColor(v); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	validScheme := false
	for _, cs := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(cs) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	if c.Behavior.Timeout.Duration() < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Behavior.Timeout.Duration())
	}

	if c.Daemon.MaxActive < 1 || c.Daemon.MaxActive > 64 {
		return fmt.Errorf("max_active must be between 1 and 64, got %d", c.Daemon.MaxActive)
	}
	if c.Daemon.Monitor < 0 {
		return fmt.Errorf("monitor must not be negative, got %d", c.Daemon.Monitor)
	}

	return nil
}

// ParseColor parses a "#rrggbb" or "#rgb" color string.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return c, nil
}

// TimeoutDuration returns the auto-dismiss timeout (zero = never).
func (c *Config) TimeoutDuration() time.Duration {
	return c.Behavior.Timeout.Duration()
}
