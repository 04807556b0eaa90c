package tour

import (
	"embed"
	"strings"
)

//go:embed tours/*.xml
var EmbeddedTours embed.FS

// GetEmbeddedTour returns an embedded tour by name.
// The name should not include the .xml extension.
func GetEmbeddedTour(name string) (*Tour, bool) {
	data, err := EmbeddedTours.ReadFile("tours/" + name + ".xml")
	if err != nil {
		return nil, false
	}

	t, err := ParseString(string(data))
	if err != nil {
		return nil, false
	}
	if t.Name == "" {
		t.Name = name
	}
	return t, true
}

// ListEmbeddedTours returns the names of all embedded tours.
func ListEmbeddedTours() []string {
	entries, err := EmbeddedTours.ReadDir("tours")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".xml") {
			names = append(names, strings.TrimSuffix(entry.Name(), ".xml"))
		}
	}
	return names
}
