package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Inspect anchortip's configuration.

Use 'anchortip config path' to print the config file location.
Use 'anchortip config defaults' to print the default configuration.
Use 'anchortip config validate [file]' to check a config file.
Use 'anchortip config themes' to list the available themes.`,
}

var configPathCmd = &cobra.Command{
	Annotations: map[string]string{skipConfigAnnotation: "true"},

	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		fmt.Println(path)
		return nil
	},
}

var configDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Annotations: map[string]string{skipConfigAnnotation: "true"},

	Use:   "validate [file]",
	Short: "Check a config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalOpts.configPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			path = config.ConfigPath()
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}
		if _, err := config.LoadConfig(path); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", path)
		return nil
	},
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, info := range theme.NewLoader("", logger).ListThemes() {
			marker := " "
			if info.Name == cfg.Theme.Name {
				marker = "*"
			}
			source := "bundled"
			if !info.IsBundled {
				source = info.Path
			}
			fmt.Printf("%s %-16s %s\n", marker, info.Name, source)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configDefaultsCmd, configValidateCmd, configThemesCmd)
	rootCmd.AddCommand(configCmd)
}
