package theme

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchortip/internal/config"
)

const oceanTheme = `
name = "ocean"

[light]
balloon = "#0077be"
text = "#ffffff"

[dark]
balloon = "#003f5c"
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProcessImports_NoImports(t *testing.T) {
	css := `.anchortip-balloon { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_NestedImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "_grandchild.css"), `.grandchild { color: blue; }`)
	writeFile(t, filepath.Join(dir, "_child.css"), "@import \"_grandchild.css\";\n.child { color: green; }")

	result := ProcessImports("@import url('_child.css');\n.main { color: red; }", dir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "_a.css"), "@import \"_b.css\";\n.a { color: red; }")
	writeFile(t, filepath.Join(dir, "_b.css"), "@import \"_a.css\";\n.b { color: blue; }")

	result := ProcessImports(`@import "_a.css";`, dir, nil)

	assert.Contains(t, result, "circular import prevented")
	assert.Contains(t, result, ".a")
	assert.Contains(t, result, ".b")
}

func TestProcessImports_Missing(t *testing.T) {
	result := ProcessImports(`@import "nope.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nope.css")
}

func TestParse(t *testing.T) {
	theme, err := Parse("ocean", []byte(oceanTheme))
	require.NoError(t, err)
	assert.Equal(t, "#0077be", theme.Palette(false).Balloon)
	assert.Equal(t, "#003f5c", theme.Palette(true).Balloon)

	tests := []struct {
		name string
		data string
	}{
		{"not toml", "[light"},
		{"missing balloon", "[light]\ntext = \"#000000\"\n[dark]\nballoon = \"#000000\""},
		{"bad color", "[light]\nballoon = \"#12345g\"\n[dark]\nballoon = \"#000000\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("broken", []byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestTheme_Colors(t *testing.T) {
	theme, err := Parse("ocean", []byte(oceanTheme))
	require.NoError(t, err)

	tests := []struct {
		name        string
		style       config.StyleConfig
		dark        bool
		wantBalloon string
		wantText    string
	}{
		{"palette", config.StyleConfig{}, false, "#0077be", "#ffffff"},
		{"dark palette without text contrasts", config.StyleConfig{}, true, "#003f5c", "#ffffff"},
		{"style overrides both", config.StyleConfig{Color: "#ffff00", TextColor: "#ff0000"}, false, "#ffff00", "#ff0000"},
		{"custom balloon gets contrasting text", config.StyleConfig{Color: "#fafafa"}, false, "#fafafa", "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balloon, text, err := theme.Colors(tt.style, tt.dark)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalloon, balloon.Hex())
			assert.Equal(t, tt.wantText, text.Hex())
		})
	}
}

func TestContrastText(t *testing.T) {
	white, _ := colorful.Hex("#ffffff")
	navy, _ := colorful.Hex("#000080")
	assert.Equal(t, "#000000", ContrastText(white).Hex())
	assert.Equal(t, "#ffffff", ContrastText(navy).Hex())
}

func TestRenderCSS(t *testing.T) {
	theme := NewDefaultTheme()
	theme.CSS = ".extra { opacity: 0.9; }"

	balloon, _ := colorful.Hex("#1e1e2e")
	text, _ := colorful.Hex("#cdd6f4")
	css, err := theme.RenderCSS(CSSOptions{
		Balloon:           balloon,
		Text:              text,
		Border:            theme.Light.BorderColor(balloon),
		CornerRadius:      4,
		PaddingVertical:   7,
		PaddingHorizontal: 14,
		TextSize:          15,
		Bold:              true,
	})
	require.NoError(t, err)

	assert.Contains(t, css, "window.anchortip-overlay")
	assert.Contains(t, css, "background-color: #1e1e2e;")
	assert.Contains(t, css, "border: 1px solid #d0d0d0;")
	assert.Contains(t, css, "border-radius: 4px;")
	assert.Contains(t, css, "padding: 7px 14px;")
	assert.Contains(t, css, "color: #cdd6f4;")
	assert.Contains(t, css, "font-weight: bold;")
	assert.Contains(t, css, ".extra { opacity: 0.9; }")
}

func TestPalette_BorderColor(t *testing.T) {
	balloon, _ := colorful.Hex("#123456")
	assert.Equal(t, "#123456", Palette{}.BorderColor(balloon).Hex())
	assert.Equal(t, "#123456", Palette{Border: "nope"}.BorderColor(balloon).Hex())
	assert.Equal(t, "#abcdef", Palette{Border: "#abcdef"}.BorderColor(balloon).Hex())
}

func TestLoader_ResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ocean.toml"), oceanTheme)
	writeFile(t, filepath.Join(dir, "ocean.css"), `.anchortip-balloon { margin: 2px; }`)
	// A user file overrides the bundled theme of the same name.
	writeFile(t, filepath.Join(dir, "dark.toml"), "[light]\nballoon = \"#010101\"\n[dark]\nballoon = \"#020202\"")

	l := NewLoader(dir, nil)

	ocean := l.LoadTheme("ocean")
	assert.Equal(t, "ocean", ocean.Name)
	assert.False(t, ocean.IsBundled)
	assert.Contains(t, ocean.CSS, "margin: 2px")
	assert.Same(t, ocean, l.Theme())

	dark := l.LoadTheme("dark")
	assert.Equal(t, "#010101", dark.Light.Balloon)

	cat := l.LoadTheme("catppuccin")
	assert.True(t, cat.IsBundled)

	missing := l.LoadTheme("nope")
	assert.Equal(t, DefaultThemeName, missing.Name)

	assert.Equal(t, DefaultThemeName, l.LoadTheme("").Name)

	var names []string
	for _, info := range l.ListThemes() {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "ocean")
	assert.Contains(t, names, "catppuccin")
	assert.Len(t, names, 4)
}

func TestWatcher_ReloadsUserTheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ocean.toml")
	writeFile(t, path, oceanTheme)

	theme, err := NewTheme("ocean", path)
	require.NoError(t, err)

	w := NewWatcher(theme, nil)
	w.SetPollInterval(10 * time.Millisecond)

	var mu sync.Mutex
	var reloaded *Theme
	w.SetChangeCallback(func(th *Theme) {
		mu.Lock()
		defer mu.Unlock()
		reloaded = th
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsRunning())

	// Adding a sibling CSS file counts as a change even without touching the palette.
	writeFile(t, filepath.Join(dir, "ocean.css"), `.anchortip-arrow { opacity: 0.5; }`)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return reloaded != nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, theme.CSS, "opacity: 0.5")
}

func TestWatcher_IgnoresBundledTheme(t *testing.T) {
	w := NewWatcher(NewDefaultTheme(), nil)
	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
	w.Stop()
}
