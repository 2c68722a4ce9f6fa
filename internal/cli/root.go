package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the fenscore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fenscore",
		Short: "Batch-score chess positions with UCI engines",
		Long: `fenscore scores chess positions from a text dataset by driving one or
more UCI engine processes in parallel.

Input lines are "<FEN> <label>", label being the game result from White's
point of view (1 for a White win, 0 for a Black win, 0.5 for a draw).
Output lines are "<FEN> <label> <score>", score being the engine's search
evaluation from the side to move's point of view. Results are written in
completion order, not input order.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}
