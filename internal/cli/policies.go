package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ticksched/internal/sched"
)

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "List the available scheduling policies and their time slices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sched.Load(flagConfig)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range sched.PolicyNames() {
				switch name {
				case sched.PolicyRR:
					fmt.Fprintf(out, "%-5s round robin, quantum %dms\n", name, cfg.QuantumMS)
				case sched.PolicySJF:
					fmt.Fprintf(out, "%-5s shortest job first, non-preemptive\n", name)
				case sched.PolicyMLFQ:
					fmt.Fprintf(out, "%-5s multi-level feedback queue, slices %v ms\n", name, cfg.SlicesMS)
				}
			}
			return nil
		},
	}
}
