package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchortip/internal/tour"
)

var toursOpts struct {
	toursDir string
	format   string
}

var toursCmd = &cobra.Command{
	Use:   "tours [query]",
	Short: "List the available tours",
	Long: `List bundled tours and the ones in the user tours directory. A query
narrows the list to fuzzy matches on name and title, best match first.

A user tour with the same name as a bundled one replaces it.`,
	RunE: runTours,
}

func init() {
	rootCmd.AddCommand(toursCmd)

	toursCmd.Flags().StringVar(&toursOpts.toursDir, "tours-dir", "",
		"Directory with user tours (default: ~/.config/anchortip/tours)")
	toursCmd.Flags().StringVarP(&toursOpts.format, "format", "f", formatPlain,
		"Output format (plain, json, yaml)")
}

func runTours(cmd *cobra.Command, args []string) error {
	dir := toursOpts.toursDir
	if dir == "" {
		dir = tour.ToursDir()
	}
	loader := tour.NewLoader(dir, logger)
	infos := loader.Search(strings.Join(args, " "))

	return writeFormatted(os.Stdout, toursOpts.format, infos, func(w io.Writer) error {
		for _, info := range infos {
			source := "user"
			if info.IsBundled {
				source = "bundled"
			}
			if _, err := fmt.Fprintf(w, "%-12s %-8s %2d steps  %-8s %s\n",
				info.Name, info.Screen, info.Steps, source, info.Title); err != nil {
				return err
			}
		}
		return nil
	})
}
