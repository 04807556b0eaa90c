package tui

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/anchortip/internal/geom"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// placement is what the copy key puts on the clipboard.
type placement struct {
	ID       string          `yaml:"id"`
	Text     string          `yaml:"text"`
	Target   geom.Rect       `yaml:"target"`
	Gravity  tooltip.Gravity `yaml:"gravity"`
	Position geom.Point      `yaml:"position"`
	Layout   tooltip.Layout  `yaml:"layout"`
}

func placementYAML(tip *tooltip.Tooltip) (string, error) {
	target, _ := tip.Resolved()
	data, err := yaml.Marshal(placement{
		ID:       tip.ID(),
		Text:     tip.Text(),
		Target:   target,
		Gravity:  tip.Gravity(),
		Position: tip.Position(),
		Layout:   tip.Layout(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal placement: %w", err)
	}
	return string(data), nil
}

// copyText copies text to the system clipboard.
func copyText(text string) error {
	cmd := detectClipboardCommand()
	if cmd == "" {
		return fmt.Errorf("no clipboard command available")
	}

	parts := strings.Fields(cmd)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := exec.CommandContext(ctx, parts[0], parts[1:]...)
	c.Stdin = strings.NewReader(text)

	return c.Run()
}

// detectClipboardCommand returns the clipboard command to use.
func detectClipboardCommand() string {
	// Check for Wayland
	if _, err := exec.LookPath("wl-copy"); err == nil {
		return "wl-copy"
	}

	// Check for X11
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip -selection clipboard"
	}

	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel --clipboard --input"
	}

	return ""
}
