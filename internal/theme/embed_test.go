package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme(t *testing.T) {
	for _, name := range BundledThemes {
		t.Run(name, func(t *testing.T) {
			data, found := GetEmbeddedTheme(name)
			require.True(t, found)
			assert.Contains(t, data, "[light]")
			assert.Contains(t, data, "[dark]")

			theme, err := NewBundledTheme(name)
			require.NoError(t, err)
			assert.Equal(t, name, theme.Name)
			assert.True(t, theme.IsBundled)
		})
	}
}

func TestGetEmbeddedTheme_NotFound(t *testing.T) {
	data, found := GetEmbeddedTheme("nonexistent")
	assert.False(t, found)
	assert.Empty(t, data)
}

func TestGetEmbeddedPartial(t *testing.T) {
	for _, name := range []string{"shadow", "_shadow", "_shadow.css"} {
		css, found := GetEmbeddedPartial(name)
		require.True(t, found, name)
		assert.Contains(t, css, ".anchortip-balloon")
	}
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.ElementsMatch(t, BundledThemes, themes)
}

func TestBundledCatppuccin_InlinesPartial(t *testing.T) {
	theme, err := NewBundledTheme("catppuccin")
	require.NoError(t, err)
	assert.Contains(t, theme.CSS, "/* imported (embedded): _shadow.css */")
	assert.Contains(t, theme.CSS, "box-shadow")
	assert.NotContains(t, theme.CSS, "@import")
}

func TestNewDefaultTheme(t *testing.T) {
	theme := NewDefaultTheme()
	assert.Equal(t, DefaultThemeName, theme.Name)
	assert.Equal(t, "#ffffff", theme.Light.Balloon)
	assert.Equal(t, "#000000", theme.Light.Text)
}
