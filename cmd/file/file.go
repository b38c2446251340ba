package file

import (
	"github.com/spf13/cobra"

	"github.com/mmatsuo0/qlp/internal/analysis"
	"github.com/mmatsuo0/qlp/internal/conf"
)

// Command creates a new file command for reducing a single pointing log.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file [pointing.txt]",
		Short: "Reduce a pointing log",
		Long:  `Reduce a single pointing log and write the pointing correction to the enabled outputs.`,
		Args:  cobra.ExactArgs(1), // the command expects exactly one argument
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]

			logs, err := analysis.NewLogger(settings)
			if err != nil {
				return err
			}
			defer logs.Close()

			return analysis.FileAnalysis(cmd.Context(), settings, logs)
		},
	}

	return cmd
}
