package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/fenscore/internal/dataset"
	"github.com/roach88/fenscore/internal/queue"
	"github.com/roach88/fenscore/internal/store"
	"github.com/roach88/fenscore/internal/uci"
)

// ScoreOptions holds flags for the score command.
type ScoreOptions struct {
	*RootOptions
	Engine      string
	Options     []string
	Input       string
	Output      string
	Threads     int
	Depth       uint32
	Nodes       uint64
	ReportEvery int
	Config      string
	Database    string
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a dataset of positions with a UCI engine",
		Long: `Score every position in the input dataset using N parallel instances of
the given UCI engine, bounded by a search depth and/or node count.

Each input line is "<FEN> <label>"; each output line is
"<FEN> <label> <score>". The output file is overwritten. Results appear in
completion order across engine instances; re-sort externally if input order
matters.

Example:
  fenscore score --engine ./stash --input positions.txt --output scored.txt \
    --threads 8 --nodes 5000 --option Hash=128`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config != "" {
				cfg, err := LoadConfig(opts.Config)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to load config", err)
				}
				applyConfig(opts, cfg, cmd)
			}
			return runScore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", "", "path of the UCI engine binary")
	cmd.Flags().StringArrayVar(&opts.Options, "option", nil, "engine option as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "dataset file with positions to score")
	cmd.Flags().StringVar(&opts.Output, "output", "", "output file for scored positions (overwritten)")
	cmd.Flags().IntVar(&opts.Threads, "threads", 1, "number of parallel engine instances")
	cmd.Flags().Uint32Var(&opts.Depth, "depth", 0, "maximal search depth")
	cmd.Flags().Uint64Var(&opts.Nodes, "nodes", 0, "maximal search node count")
	cmd.Flags().IntVar(&opts.ReportEvery, "report-every", 1000, "progress report interval, in scored positions")
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML file with flag defaults")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite run archive (optional)")

	return cmd
}

// applyConfig fills in options from the config file wherever the
// corresponding flag was not set explicitly.
func applyConfig(opts *ScoreOptions, cfg FileConfig, cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("engine") && cfg.Engine != "" {
		opts.Engine = cfg.Engine
	}
	if !flags.Changed("option") && len(cfg.Options) > 0 {
		opts.Options = cfg.Options
	}
	if !flags.Changed("threads") && cfg.Threads > 0 {
		opts.Threads = cfg.Threads
	}
	if !flags.Changed("depth") && cfg.Depth > 0 {
		opts.Depth = cfg.Depth
	}
	if !flags.Changed("nodes") && cfg.Nodes > 0 {
		opts.Nodes = cfg.Nodes
	}
	if !flags.Changed("report-every") && cfg.ReportEvery > 0 {
		opts.ReportEvery = cfg.ReportEvery
	}
	if !flags.Changed("db") && cfg.Database != "" {
		opts.Database = cfg.Database
	}
}

func runScore(parent context.Context, opts *ScoreOptions) error {
	if opts.Engine == "" {
		return NewExitError(ExitCommandError, "an engine binary is required (--engine)")
	}
	if opts.Input == "" || opts.Output == "" {
		return NewExitError(ExitCommandError, "input and output files are required (--input, --output)")
	}
	if opts.Threads < 1 {
		return NewExitError(ExitCommandError, "at least one engine instance is required (--threads)")
	}
	limit := uci.SearchLimit{Depth: opts.Depth, Nodes: opts.Nodes}
	if err := limit.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid search limit (--depth, --nodes)", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	input, err := os.Open(opts.Input)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open input file", err)
	}
	defer input.Close()

	sink, err := dataset.CreateSink(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create output file", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			slog.Error("error closing output file", "error", closeErr)
		}
	}()

	var (
		archive *store.Store
		runID   string
	)
	if opts.Database != "" {
		archive, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open run archive", err)
		}
		defer func() {
			if closeErr := archive.Close(); closeErr != nil {
				slog.Error("error closing run archive", "error", closeErr)
			}
		}()
		if runID, err = archive.BeginRun(opts.Engine, limit.String(), opts.Threads); err != nil {
			return WrapExitError(ExitFailure, "failed to record run", err)
		}
		slog.Debug("run archived", "id", runID)
	}

	slog.Info("starting engines", "engine", opts.Engine, "threads", opts.Threads, "limit", limit.String())

	q := queue.New(queue.DefaultBuffer)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	group, gctx := errgroup.WithContext(runCtx)

	procs := make([]*uci.Process, 0, opts.Threads)
	defer func() {
		for _, p := range procs {
			if closeErr := p.Close(); closeErr != nil {
				slog.Debug("engine shutdown", "error", closeErr)
			}
		}
	}()

	for i := 0; i < opts.Threads; i++ {
		proc, err := uci.Start(gctx, opts.Engine)
		if err != nil {
			abandonWorkers(q, group)
			return WrapExitError(ExitCommandError, "failed to start engine", err)
		}
		procs = append(procs, proc)

		driver := uci.NewDriver(proc)
		if err := driver.Handshake(opts.Options); err != nil {
			abandonWorkers(q, group)
			return WrapExitError(ExitFailure, "engine handshake failed", err)
		}

		worker := queue.NewWorker(q, driver, limit)
		group.Go(func() error { return worker.Run(gctx) })
	}
	q.CloseWhenDone()

	dispatcher := queue.NewDispatcher(q)
	progress := dataset.NewProgress(opts.ReportEvery)

	scored, runErr := dispatcher.Run(gctx, dataset.NewReader(input), sink, progress)
	if runErr != nil {
		// Unblock any worker still trying to hand over a result.
		cancelRun()
	}

	waitErr := group.Wait()
	if runErr != nil {
		// The dispatcher failure is the root cause; the workers only saw
		// the cancellation that followed.
		return WrapExitError(ExitFailure, "scoring failed", runErr)
	}
	if waitErr != nil {
		return WrapExitError(ExitFailure, "scoring failed", waitErr)
	}
	if err := sink.Close(); err != nil {
		return WrapExitError(ExitFailure, "failed to flush output file", err)
	}
	progress.Done()

	if archive != nil {
		if err := archive.FinishRun(runID, scored); err != nil {
			return WrapExitError(ExitFailure, "failed to finish archived run", err)
		}
	}
	return nil
}

// abandonWorkers unwinds an aborted startup: no more input will come, and
// any workers already running must drain out before their processes are
// reaped.
func abandonWorkers(q *queue.Queue, group *errgroup.Group) {
	q.StopWorkload()
	q.CloseWhenDone()
	_ = group.Wait()
}
