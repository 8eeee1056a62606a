package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ticksched/internal/job"
	"ticksched/internal/logging"
	"ticksched/internal/sched"
	"ticksched/internal/sim"
)

type runFlags struct {
	trace    string
	policy   string
	csv      string
	notify   string
	realtime bool
	maxTicks int
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a job trace and print per-job turnaround",
		Example: `  ticksched run --trace jobs.yml --policy mlfq
  ticksched run --trace jobs.yml --policy sjf --csv events-{run_id}.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return runTrace(cmd, cfg, f)
		},
	}

	cmd.Flags().StringVar(&f.trace, "trace", "", "Job trace YAML (required)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "Scheduling policy: rr, sjf or mlfq")
	cmd.Flags().StringVar(&f.csv, "csv", "", "Write scheduler events to this CSV file ({run_id} is expanded)")
	cmd.Flags().StringVar(&f.notify, "notify", "", "Notification delivery: sync or async")
	cmd.Flags().BoolVar(&f.realtime, "realtime", false, "Pace ticks with the wall clock")
	cmd.Flags().IntVar(&f.maxTicks, "max-ticks", 0, "Abort after this many ticks (0 = unlimited)")
	_ = cmd.MarkFlagRequired("trace")

	return cmd
}

// resolveConfig loads the config file and applies explicit flags on top.
func resolveConfig(cmd *cobra.Command, f runFlags) (sched.Config, error) {
	cfg, err := sched.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("policy") {
		cfg.Policy = strings.ToLower(f.policy)
	}
	if flags.Changed("csv") {
		cfg.CSVPath = f.csv
	}
	if flags.Changed("notify") {
		cfg.Notify.Mode = strings.ToLower(f.notify)
	}
	if flags.Changed("realtime") {
		cfg.Realtime = f.realtime
	}
	if flags.Changed("max-ticks") {
		cfg.MaxTicks = f.maxTicks
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}
	return cfg, cfg.Validate()
}

func runTrace(cmd *cobra.Command, cfg sched.Config, f runFlags) error {
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	tr, err := job.LoadTrace(f.trace)
	if err != nil {
		return err
	}

	s, err := sched.New(cfg, logger)
	if err != nil {
		return err
	}
	if cfg.CSVPath != "" {
		path := strings.ReplaceAll(cfg.CSVPath, "{run_id}", runID)
		if err := s.EnableCSVLogging(path); err != nil {
			s.Close()
			return err
		}
		logger.Info("csv event log enabled", zap.String("path", path))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	simulation := sim.New(s, tr, sim.Options{Realtime: cfg.Realtime, MaxTicks: cfg.MaxTicks}, logger)
	runErr := simulation.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		logger.Warn("simulation interrupted", zap.Int64("ticks", simulation.Ticks()))
	}
	closeErr := s.Close()

	if err := simulation.Report().WriteTable(cmd.OutOrStdout()); err != nil {
		return err
	}
	return errors.Join(runErr, closeErr)
}
