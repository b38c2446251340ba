package directory

import (
	"github.com/spf13/cobra"

	"github.com/mmatsuo0/qlp/internal/analysis"
	"github.com/mmatsuo0/qlp/internal/conf"
)

// Command creates a new cobra.Command for directory analysis.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory [path]",
		Short: "Reduce all *.txt pointing logs in a directory",
		Long:  "Provide a directory path to reduce every *.txt pointing log within it. Each log is reduced independently.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The directory to analyze is passed as the first argument
			settings.Input.Path = args[0]

			logs, err := analysis.NewLogger(settings)
			if err != nil {
				return err
			}
			defer logs.Close()

			return analysis.DirectoryAnalysis(cmd.Context(), settings, logs)
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags defines flags specific to the directory command.
func setupFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("recursive", "r", false, "Recursively analyze subdirectories")
	cmd.Flags().IntP("threads", "j", 0, "Concurrent reductions, 0 for one per CPU (max 8)")
}
