package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/fightsim/internal/aggregator"
	"github.com/yourusername/fightsim/internal/export"
	"github.com/yourusername/fightsim/internal/model"
	"github.com/yourusername/fightsim/internal/session"
)

type runOptions struct {
	seed        int64
	simsPerTick int
	maxSims     int64
	exportDir   string
	noExport    bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless simulation to max_sims and export the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", -1, "Random seed (0 picks one from the clock; default from config)")
	cmd.Flags().IntVar(&opts.simsPerTick, "sims-per-tick", 0, "Trials per tick (default from config)")
	cmd.Flags().Int64Var(&opts.maxSims, "max-sims", 0, "Total trials to simulate (default from config)")
	cmd.Flags().StringVar(&opts.exportDir, "export-dir", "", "Directory for CSV output (default from config)")
	cmd.Flags().BoolVar(&opts.noExport, "no-export", false, "Skip CSV export")

	return cmd
}

func runSimulation(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.seed >= 0 {
		cfg.Simulation.Seed = opts.seed
	}
	if opts.simsPerTick > 0 {
		cfg.Simulation.SimsPerTick = opts.simsPerTick
	}
	if opts.maxSims > 0 {
		cfg.Simulation.MaxSims = opts.maxSims
	}
	if opts.exportDir != "" {
		cfg.Export.OutputDir = opts.exportDir
	}

	appLog := newLogger(cfg)
	sess, err := newSession(cfg, appLog)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// headless runs are not throttled
	runner := session.NewRunner(sess, session.RunnerConfig{
		SimsPerTick: cfg.Simulation.SimsPerTick,
		MaxSims:     cfg.Simulation.MaxSims,
	})
	summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	stats := sess.Snapshot()
	printSummary(cmd.OutOrStdout(), stats, sess.Model(), sess.Seed())
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d trials in %d ticks (%s, stopped: %s)\n",
		summary.TotalTrials, summary.Ticks, summary.Duration.Round(time.Millisecond), summary.Reason)

	if opts.noExport {
		return nil
	}

	var trials []model.Trial
	if cfg.Export.IncludeTrials && sess.RetainsTrials() {
		trials = sess.Trials()
	}
	paths, err := export.WriteDir(cfg.Export.OutputDir, stats, trials)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

func printSummary(out io.Writer, stats aggregator.RunningStats, m *model.OutcomeModel, seed int64) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "%s vs %s\tseed %d\n\n", stats.Participants[0].Name, stats.Participants[1].Name, seed)
	fmt.Fprintln(tw, "OUTCOME\tMODEL\tSIMULATED\tCOUNT")
	for _, who := range model.Participants {
		for _, method := range model.Methods {
			label := model.Trial{Winner: who, Method: method}.Label()
			count, rate := outcome(stats, label)
			fmt.Fprintf(tw, "%s %s\t%.4f\t%.4f\t%d\n", m.Name(who), method,
				m.OutcomeProbability(who, method), rate, count)
		}
	}
	if m.DrawEnabled() {
		count, rate := outcome(stats, model.Draw.String())
		fmt.Fprintf(tw, "Draw\t%.4f\t%.4f\t%d\n", m.WinProbability(model.Draw), rate, count)
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "FIGHTER\tWIN %\t95% CI")
	for _, p := range stats.Participants {
		fmt.Fprintf(tw, "%s\t%.2f\t[%.2f, %.2f]\n", p.Name, 100*p.WinRate, 100*p.Confidence.Low, 100*p.Confidence.High)
	}
}

func outcome(stats aggregator.RunningStats, label string) (int64, float64) {
	for _, o := range stats.Outcomes {
		if o.Label == label {
			return o.Count, o.Rate
		}
	}
	return 0, 0
}
