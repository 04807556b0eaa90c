package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/anchortip/internal/config"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Palette is the set of colors for one color scheme. Empty values fall
// back: text to a color contrasting the balloon, border to the balloon.
type Palette struct {
	Balloon string `toml:"balloon"`
	Text    string `toml:"text"`
	Border  string `toml:"border"`
}

// Theme is a named pair of palettes plus optional extra CSS.
type Theme struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Light       Palette `toml:"light"`
	Dark        Palette `toml:"dark"`

	Path      string    `toml:"-"` // Palette file, empty for bundled themes
	CSS       string    `toml:"-"` // Extra CSS with imports inlined
	ModTime   time.Time `toml:"-"`
	IsBundled bool      `toml:"-"`
}

// Parse decodes a palette file and validates its colors.
func Parse(name string, data []byte) (*Theme, error) {
	t := &Theme{}
	if err := toml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse theme %q: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme %q: %w", name, err)
	}
	return t, nil
}

// Validate checks that every set color parses. A palette needs a balloon color.
func (t *Theme) Validate() error {
	for scheme, p := range map[string]Palette{"light": t.Light, "dark": t.Dark} {
		if p.Balloon == "" {
			return fmt.Errorf("%s palette has no balloon color", scheme)
		}
		for field, v := range map[string]string{"balloon": p.Balloon, "text": p.Text, "border": p.Border} {
			if v == "" {
				continue
			}
			if _, err := config.ParseColor(v); err != nil {
				return fmt.Errorf("%s.%s: %w", scheme, field, err)
			}
		}
	}
	return nil
}

// NewTheme loads a user theme from its palette file. A sibling .css file
// with the same base name is appended with its @import statements inlined.
func NewTheme(name, path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	t.Path = path
	t.ModTime = info.ModTime()
	t.CSS = readExtraCSS(path)
	return t, nil
}

// NewBundledTheme loads an embedded theme.
func NewBundledTheme(name string) (*Theme, error) {
	data, found := GetEmbeddedTheme(name)
	if !found {
		return nil, fmt.Errorf("no bundled theme %q", name)
	}
	t, err := Parse(name, []byte(data))
	if err != nil {
		return nil, err
	}
	t.IsBundled = true
	if css, found := GetEmbeddedCSS(name); found {
		t.CSS = ProcessImports(css, "", nil)
	}
	return t, nil
}

// NewDefaultTheme returns the embedded default theme.
func NewDefaultTheme() *Theme {
	t, err := NewBundledTheme(DefaultThemeName)
	if err != nil {
		plain := Palette{Balloon: "#ffffff", Text: "#000000"}
		return &Theme{Name: DefaultThemeName, Light: plain, Dark: plain, IsBundled: true}
	}
	return t
}

func readExtraCSS(palettePath string) string {
	cssPath := strings.TrimSuffix(palettePath, filepath.Ext(palettePath)) + ".css"
	css, err := os.ReadFile(cssPath)
	if err != nil {
		return ""
	}
	return ProcessImports(string(css), filepath.Dir(cssPath), nil)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to embedded
// partials. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processedImport := ProcessImports(string(importedCSS), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processedImport
	})
}

// Reload rereads a user theme from disk.
// Returns true if the palette or the CSS changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsBundled {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	css := readExtraCSS(t.Path)
	if !info.ModTime().After(t.ModTime) && css == t.CSS {
		return false, nil
	}

	fresh, err := NewTheme(t.Name, t.Path)
	if err != nil {
		return false, err
	}

	changed := fresh.Light != t.Light || fresh.Dark != t.Dark || fresh.CSS != t.CSS
	t.Description = fresh.Description
	t.Light, t.Dark, t.CSS = fresh.Light, fresh.Dark, fresh.CSS
	t.ModTime = fresh.ModTime
	return changed, nil
}

// Palette returns the palette for the given scheme.
func (t *Theme) Palette(dark bool) Palette {
	if dark {
		return t.Dark
	}
	return t.Light
}

// Colors resolves the balloon and text colors for a tooltip. Colors set
// in the style override the theme.
func (t *Theme) Colors(style config.StyleConfig, dark bool) (balloon, text colorful.Color, err error) {
	p := t.Palette(dark)

	balloonHex := p.Balloon
	if style.Color != "" {
		balloonHex = style.Color
	}
	if balloon, err = config.ParseColor(balloonHex); err != nil {
		return balloon, text, err
	}

	textHex := p.Text
	if style.TextColor != "" {
		textHex = style.TextColor
	} else if style.Color != "" {
		// Custom balloon without a text color: pick a contrasting one.
		textHex = ""
	}
	if textHex == "" {
		return balloon, ContrastText(balloon), nil
	}
	text, err = config.ParseColor(textHex)
	return balloon, text, err
}

// ContrastText returns black or white, whichever reads better on bg.
func ContrastText(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return colorful.Color{R: 0, G: 0, B: 0}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	dir := config.ConfigDir()
	if dir == "" {
		return "", errors.New("cannot determine config directory")
	}
	return filepath.Join(dir, "themes"), nil
}

func listThemes(themesDir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, ThemeInfo{
				Name:      name,
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".toml" {
			themeName := strings.TrimSuffix(name, ".toml")
			if !seen[themeName] {
				seen[themeName] = true
				themes = append(themes, ThemeInfo{
					Name: themeName,
					Path: filepath.Join(themesDir, name),
				})
			}
		}
	}

	return themes, nil
}
