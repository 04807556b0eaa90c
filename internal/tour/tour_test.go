package tour

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

type fakeScene struct {
	views map[string]tooltip.View
	menu  tooltip.Menu
}

func (s fakeScene) View(name string) (tooltip.View, bool) {
	v, ok := s.views[name]
	return v, ok
}

func (s fakeScene) Menu() tooltip.Menu { return s.menu }

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TargetSpec
		wantErr bool
	}{
		{"point", "point:10,20", TargetSpec{Kind: TargetPoint, X: 10, Y: 20}, false},
		{"point with size hint", "point: 10, 20, 4, 2", TargetSpec{Kind: TargetPoint, X: 10, Y: 20, Width: 4, Height: 2}, false},
		{"rect", "rect:1,2,30,4", TargetSpec{Kind: TargetRect, X: 1, Y: 2, Width: 30, Height: 4}, false},
		{"view", "view:save", TargetSpec{Kind: TargetView, Name: "save"}, false},
		{"menu upper case kind", "MENU:search", TargetSpec{Kind: TargetMenu, Name: "search"}, false},
		{"negative point", "point:-5,3", TargetSpec{Kind: TargetPoint, X: -5, Y: 3}, false},
		{"missing kind", "save", TargetSpec{}, true},
		{"unknown kind", "widget:save", TargetSpec{}, true},
		{"point with three numbers", "point:1,2,3", TargetSpec{}, true},
		{"rect with two numbers", "rect:1,2", TargetSpec{}, true},
		{"not a number", "rect:1,2,x,4", TargetSpec{}, true},
		{"view without name", "view:", TargetSpec{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTargetSpec_String(t *testing.T) {
	for _, s := range []string{"point:1,2", "point:1,2,3,4", "rect:1,2,3,4", "view:save", "menu:search"} {
		spec, err := ParseTarget(s)
		require.NoError(t, err)
		assert.Equal(t, s, spec.String())
	}
}

func TestTargetSpec_Resolve(t *testing.T) {
	scene := fakeScene{views: map[string]tooltip.View{"save": "save-button"}, menu: "toolbar"}

	tests := []struct {
		name    string
		spec    TargetSpec
		want    tooltip.Target
		wantErr bool
	}{
		{"point", TargetSpec{Kind: TargetPoint, X: 3, Y: 4}, tooltip.PointTarget{X: 3, Y: 4}, false},
		{"rect", TargetSpec{Kind: TargetRect, X: 1, Y: 2, Width: 10, Height: 3}, tooltip.RectTarget{Rect: geom.XYWH(1, 2, 10, 3)}, false},
		{"view", TargetSpec{Kind: TargetView, Name: "save"}, tooltip.ViewTarget{View: "save-button"}, false},
		{"menu", TargetSpec{Kind: TargetMenu, Name: "search"}, tooltip.MenuItemTarget{Menu: "toolbar", ItemID: "search"}, false},
		{"missing view", TargetSpec{Kind: TargetView, Name: "open"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Resolve(scene)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := TargetSpec{Kind: TargetMenu, Name: "search"}.Resolve(fakeScene{})
	assert.Error(t, err, "screen without a menu")
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantErr   bool
		checkTour func(t *testing.T, tour *Tour)
	}{
		{
			name: "steps with attributes",
			input: `<?xml version="1.0"?>
			<tour name="demo" title="Demo" screen="buttons">
				<step target="view:save" color="#ff0000" text-color="fff" bold="false" dismiss-on-tap="false">
					Save   your
					work
				</step>
				<step target="point:1,2">Here</step>
			</tour>`,
			checkTour: func(t *testing.T, tour *Tour) {
				assert.Equal(t, "demo", tour.Name)
				assert.Equal(t, "Demo", tour.Title)
				assert.Equal(t, "buttons", tour.Screen)
				require.Len(t, tour.Steps, 2)

				first := tour.Steps[0]
				assert.Equal(t, TargetSpec{Kind: TargetView, Name: "save"}, first.Target)
				assert.Equal(t, "Save your work", first.Text)
				assert.Equal(t, "#ff0000", first.Color)
				assert.Equal(t, "fff", first.TextColor)
				require.NotNil(t, first.Bold)
				assert.False(t, *first.Bold)
				require.NotNil(t, first.DismissOnTap)
				assert.False(t, *first.DismissOnTap)

				second := tour.Steps[1]
				assert.Nil(t, second.Bold)
				assert.Nil(t, second.DismissOnTap)
				assert.Empty(t, second.Color)
			},
		},
		{
			name:  "empty tour",
			input: `<tour name="empty"></tour>`,
			checkTour: func(t *testing.T, tour *Tour) {
				assert.Empty(t, tour.Steps)
			},
		},
		{name: "wrong root", input: `<popup></popup>`, wantErr: true},
		{name: "no root", input: ``, wantErr: true},
		{name: "unknown element", input: `<tour><hint target="view:a">x</hint></tour>`, wantErr: true},
		{name: "missing target", input: `<tour><step>x</step></tour>`, wantErr: true},
		{name: "bad target", input: `<tour><step target="rect:1">x</step></tour>`, wantErr: true},
		{name: "bad color", input: `<tour><step target="view:a" color="#zz0000">x</step></tour>`, wantErr: true},
		{name: "bad bool", input: `<tour><step target="view:a" bold="maybe">x</step></tour>`, wantErr: true},
		{name: "nested element in step", input: `<tour><step target="view:a"><b>x</b></step></tour>`, wantErr: true},
		{name: "truncated", input: `<tour><step target="view:a">x`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour, err := ParseString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkTour != nil {
				tt.checkTour(t, tour)
			}
		})
	}
}

func TestEmbeddedTours(t *testing.T) {
	names := ListEmbeddedTours()
	assert.ElementsMatch(t, []string{"buttons", "list", "welcome"}, names)

	screens := map[string]string{"buttons": "buttons", "list": "list", "welcome": "home"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			tour, ok := GetEmbeddedTour(name)
			require.True(t, ok)
			assert.Equal(t, name, tour.Name)
			assert.Equal(t, screens[name], tour.Screen)
			assert.NotEmpty(t, tour.Title)
			require.NotEmpty(t, tour.Steps)
			for _, step := range tour.Steps {
				assert.NotEmpty(t, step.Text)
			}
		})
	}

	_, ok := GetEmbeddedTour("missing")
	assert.False(t, ok)
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "list.xml"),
		[]byte(`<tour title="My list" screen="list"><step target="view:row-1">Mine</step></tour>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.xml"),
		[]byte(`<tour name="extra" title="Extra stuff" screen="home"><step target="point:1,1">Hi</step></tour>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"), []byte(`<popup/>`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0644))

	l := NewLoader(dir, nil)

	t.Run("user tour shadows embedded", func(t *testing.T) {
		tour, err := l.Load("list")
		require.NoError(t, err)
		assert.Equal(t, "list", tour.Name)
		assert.Equal(t, "My list", tour.Title)
		require.Len(t, tour.Steps, 1)
	})

	t.Run("embedded fallback", func(t *testing.T) {
		tour, err := l.Load("buttons")
		require.NoError(t, err)
		assert.Equal(t, "buttons", tour.Screen)
	})

	t.Run("invalid user tour", func(t *testing.T) {
		_, err := l.Load("broken")
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := l.Load("nope")
		assert.Error(t, err)
	})

	t.Run("list", func(t *testing.T) {
		infos := l.List()
		var names []string
		for _, info := range infos {
			names = append(names, info.Name)
		}
		assert.Equal(t, []string{"buttons", "extra", "list", "welcome"}, names)

		assert.True(t, infos[0].IsBundled)
		assert.False(t, infos[2].IsBundled)
		assert.Equal(t, filepath.Join(dir, "list.xml"), infos[2].Path)
		assert.Equal(t, 1, infos[2].Steps)
	})

	t.Run("search", func(t *testing.T) {
		assert.Len(t, l.Search(""), 4)

		results := l.Search("xtr")
		require.NotEmpty(t, results)
		assert.Equal(t, "extra", results[0].Name)

		results = l.Search("scrolling")
		assert.Empty(t, results, "user list tour shadows the embedded title")

		assert.Empty(t, l.Search("qqqq"))
	})
}

func TestLoader_EmbeddedOnly(t *testing.T) {
	l := NewLoader("", nil)
	assert.Len(t, l.List(), 3)

	results := l.Search("corner")
	require.NotEmpty(t, results)
	assert.Equal(t, "buttons", results[0].Name)
}

func TestStep_Apply(t *testing.T) {
	scene := fakeScene{views: map[string]tooltip.View{"save": "save-button"}}
	no := false

	step := Step{
		Target:       TargetSpec{Kind: TargetView, Name: "save"},
		Text:         "Save",
		Color:        "#336699",
		TextColor:    "#ffffff",
		Bold:         &no,
		DismissOnTap: &no,
	}

	tt := tooltip.New(nil, tooltip.DefaultMetrics(), nil)
	require.NoError(t, step.Apply(tt, scene))
	assert.Equal(t, tooltip.ViewTarget{View: "save-button"}, tt.Target())
	assert.Equal(t, "Save", tt.Text())

	missing := Step{Target: TargetSpec{Kind: TargetView, Name: "open"}}
	assert.Error(t, missing.Apply(tooltip.New(nil, tooltip.DefaultMetrics(), nil), scene))
}
