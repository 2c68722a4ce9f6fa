package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/fenscore/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived scoring runs",
		Long: `List every scoring run recorded in the archive, newest first.

Runs are archived when the score command is given --db.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run archive (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(cmd *cobra.Command, opts *RunsOptions) error {
	archive, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open run archive", err)
	}
	defer archive.Close()

	runs, err := archive.ListRuns()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no archived runs")
		return nil
	}

	for _, r := range runs {
		state := "running"
		if r.Finished {
			state = fmt.Sprintf("%d positions", r.Positions)
		}
		fmt.Fprintf(out, "%s  %s  %s  limit %q  threads %d  %s\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			r.Engine,
			r.Limit,
			r.Threads,
			state,
		)
	}
	return nil
}
