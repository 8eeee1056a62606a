package cli

import (
	"github.com/spf13/cobra"
)

var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

// NewRootCmd creates the root cobra command for the ticksched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ticksched",
		Short:        "ticksched: discrete-tick single-CPU scheduling simulator",
		Long:         "ticksched replays a job trace against a Round Robin, SJF or MLFQ policy on one virtual CPU.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "config.yml", "Path to the YAML config (defaults are used if missing)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (console, json); overrides config")

	root.AddCommand(
		newRunCmd(),
		newPoliciesCmd(),
	)

	return root
}
