package tour

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jmylchreest/anchortip/internal/config"
)

// Info describes an available tour.
type Info struct {
	Name      string `json:"name" yaml:"name"`
	Title     string `json:"title" yaml:"title"`
	Screen    string `json:"screen" yaml:"screen"`
	Steps     int    `json:"steps" yaml:"steps"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	IsBundled bool   `json:"bundled" yaml:"bundled"`
}

// ToursDir returns the path to the user's tours directory.
func ToursDir() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "tours")
}

// Loader handles loading tours from the user directory and the embedded set.
type Loader struct {
	logger   *slog.Logger
	toursDir string
}

// NewLoader creates a new tour loader. An empty toursDir only serves
// embedded tours.
func NewLoader(toursDir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, toursDir: toursDir}
}

// Load loads a tour by name.
// Checks the user directory first, then falls back to the embedded tours.
func (l *Loader) Load(name string) (*Tour, error) {
	if l.toursDir != "" {
		path := filepath.Join(l.toursDir, name+".xml")
		if _, err := os.Stat(path); err == nil {
			t, err := LoadFile(path)
			if err != nil {
				return nil, fmt.Errorf("tour %s: %w", name, err)
			}
			if t.Name == "" {
				t.Name = name
			}
			l.logger.Debug("loaded user tour", "name", name, "path", path)
			return t, nil
		}
	}

	if t, ok := GetEmbeddedTour(name); ok {
		return t, nil
	}
	return nil, fmt.Errorf("tour not found: %s", name)
}

// List returns all available tours sorted by name. User tours shadow
// embedded tours of the same name. Tours that fail to parse are skipped.
func (l *Loader) List() []Info {
	byName := make(map[string]Info)

	for _, name := range ListEmbeddedTours() {
		if t, ok := GetEmbeddedTour(name); ok {
			byName[name] = infoFor(name, t, "", true)
		}
	}

	if l.toursDir != "" {
		entries, err := os.ReadDir(l.toursDir)
		if err != nil && !os.IsNotExist(err) {
			l.logger.Warn("failed to read tours directory", "path", l.toursDir, "error", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".xml" {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), ".xml")
			path := filepath.Join(l.toursDir, entry.Name())
			t, err := LoadFile(path)
			if err != nil {
				l.logger.Warn("skipping invalid tour", "path", path, "error", err)
				continue
			}
			byName[name] = infoFor(name, t, path, false)
		}
	}

	infos := make([]Info, 0, len(byName))
	for _, info := range byName {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func infoFor(name string, t *Tour, path string, bundled bool) Info {
	return Info{
		Name:      name,
		Title:     t.Title,
		Screen:    t.Screen,
		Steps:     len(t.Steps),
		Path:      path,
		IsBundled: bundled,
	}
}

// infoSource matches against "name title".
type infoSource []Info

func (s infoSource) String(i int) string { return s[i].Name + " " + s[i].Title }
func (s infoSource) Len() int            { return len(s) }

// Search returns the tours fuzzily matching query, best match first.
// An empty query returns every tour.
func (l *Loader) Search(query string) []Info {
	infos := l.List()
	if strings.TrimSpace(query) == "" {
		return infos
	}

	matches := fuzzy.FindFrom(query, infoSource(infos))
	result := make([]Info, len(matches))
	for i, match := range matches {
		result[i] = infos[match.Index]
	}
	return result
}
