package history

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmatsuo0/qlp/internal/conf"
	"github.com/mmatsuo0/qlp/internal/datastore"
	"github.com/mmatsuo0/qlp/internal/errors"
	"github.com/mmatsuo0/qlp/internal/observation"
)

const defaultLimit = 20

// Command creates the history command listing reductions kept in the
// results store.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored reductions",
		Long:  "List the newest reductions of the configured band from the results store, or the latest reduction of one log.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			fileBase, _ := cmd.Flags().GetString("log")

			store := datastore.New(settings, nil)
			if store == nil {
				return errors.Newf("no results store enabled, pass --db or enable output.sqlite").
					Component("history").
					Category(errors.CategoryConfiguration).
					Build()
			}
			if err := store.Open(); err != nil {
				return err
			}
			defer store.Close()

			var rows []datastore.Reduction
			if fileBase != "" {
				r, err := store.Latest(cmd.Context(), fileBase)
				if err != nil {
					return err
				}
				rows = append(rows, *r)
			} else {
				var err error
				rows, err = store.List(cmd.Context(), settings.Pointing.Band, limit)
				if err != nil {
					return err
				}
			}
			return writeHistory(cmd.OutOrStdout(), rows)
		},
	}

	setupFlags(cmd)

	return cmd
}

// setupFlags defines flags specific to the history command.
func setupFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", defaultLimit, "Number of reductions to list, 0 for all")
	cmd.Flags().String("log", "", "Show the latest reduction of this log (base name without extension)")
}

func writeHistory(w io.Writer, rows []datastore.Reduction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "created\tfile\tband\tarray\tdaz\tdel\tsn\tpeak_ta")
	for i := range rows {
		r := &rows[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.FileBase, r.Band, r.Array,
			cell(r.Daz), cell(r.Del), cell(r.SN), cell(r.PeakTa))
	}
	return tw.Flush()
}

// cell formats a nullable statistic the way the params table does
func cell(v *float64) string {
	if v == nil {
		return "nan"
	}
	return observation.FormatFloat(*v)
}
