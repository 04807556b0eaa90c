package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchortip/internal/theme"
	"github.com/jmylchreest/anchortip/internal/tour"
	"github.com/jmylchreest/anchortip/internal/tui"
)

var demoOpts struct {
	toursDir string
	theme    string
}

var demoCmd = &cobra.Command{
	Use:   "demo [home|buttons|list]",
	Short: "Launch the interactive terminal demo",
	Long: `Launch the terminal demo. Each screen runs a tour: a sequence of
tooltips anchored to buttons, a scrolling list row and a menu entry.

Key bindings:
  n, tab      Next tooltip
  p           Previous tooltip
  d           Dismiss the tooltip
  h/j/k/l     Move the selection (arrow keys work too)
  pgup/pgdn   Scroll the list
  enter       Open the selected screen
  c           Copy the tooltip placement as YAML
  esc         Back to the home screen
  ?           Show help
  q           Quit

Clicking a tooltip dismisses it unless dismiss_on_tap is off.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"home", "buttons", "list"},
	RunE:      runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.toursDir, "tours-dir", "",
		"Directory with user tours (default: ~/.config/anchortip/tours)")
	demoCmd.Flags().StringVar(&demoOpts.theme, "theme", "",
		"Theme name (default: from config)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	screen := tui.ScreenHome
	if len(args) > 0 {
		var err error
		if screen, err = tui.ParseScreen(args[0]); err != nil {
			return err
		}
	}

	themeName := demoOpts.theme
	if themeName == "" {
		themeName = cfg.Theme.Name
	}
	th := theme.NewLoader("", logger).LoadTheme(themeName)

	toursDir := demoOpts.toursDir
	if toursDir == "" {
		toursDir = tour.ToursDir()
	}

	return tui.Run(tui.RunOptions{
		Config: cfg,
		Theme:  th,
		Tours:  tour.NewLoader(toursDir, logger),
		Screen: screen,
		Logger: logger,
	})
}
