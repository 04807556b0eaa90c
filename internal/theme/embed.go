package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
)

// EmbeddedThemes contains all bundled palettes and their optional CSS.
//
//go:embed themes/*.toml themes/*.css
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// BundledThemes lists all embedded theme names.
var BundledThemes = []string{"default", "dark", "catppuccin"}

// GetEmbeddedTheme retrieves a bundled palette file by name.
func GetEmbeddedTheme(name string) (string, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".toml")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedCSS retrieves the extra CSS shipped with a bundled theme.
func GetEmbeddedCSS(name string) (string, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + name + ".css")
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedPartial retrieves a bundled partial (files starting with _).
func GetEmbeddedPartial(name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, ".css") {
		name = name + ".css"
	}
	return GetEmbeddedCSS(strings.TrimSuffix(name, ".css"))
}

// ListEmbeddedThemes returns names of all embedded themes.
func ListEmbeddedThemes() []string {
	var themes []string

	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return BundledThemes
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext == ".toml" {
			themes = append(themes, strings.TrimSuffix(name, ext))
		}
	}

	return themes
}
