// Package cmd builds the qlp command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mmatsuo0/qlp/cmd/directory"
	"github.com/mmatsuo0/qlp/cmd/file"
	"github.com/mmatsuo0/qlp/cmd/history"
	"github.com/mmatsuo0/qlp/internal/buildinfo"
	"github.com/mmatsuo0/qlp/internal/conf"
)

// RootCommand creates and returns the root command. settings is filled in
// before any subcommand runs, from defaults, --config and the flags.
func RootCommand(settings *conf.Settings, info *buildinfo.Context) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:          "qlp",
		Short:        "Quick-look reducer for radio telescope pointing logs",
		SilenceUsage: true,
		Version:      info.String(),
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, &configFile)

	rootCmd.AddCommand(
		file.Command(settings),
		directory.Command(settings),
		history.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		*settings = *loaded
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface.
// Flag defaults are zero values; the effective defaults live in conf.
func setupFlags(rootCmd *cobra.Command, configFile *string) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(configFile, "config", "", "Path to a YAML config file")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("band", "", "Observing band to accept: 22GHz, 43GHz or 86GHz")
	flags.String("log-level", "", "Console log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "Append JSON logs to this file")
	flags.String("table-dir", "", "Directory of the per-band params tables")
	flags.Bool("no-table", false, "Do not append to the params table")
	flags.String("product", "", "Write YAML data products below this directory")
	flags.String("figure", "", "Write quick-look figures below this directory")
	flags.String("db", "", "Store results in this SQLite database")
	flags.String("metrics", "", "Write a Prometheus textfile to this path")
}
