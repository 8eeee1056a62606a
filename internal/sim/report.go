package sim

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ticksched/internal/job"
)

// Result is the outcome of one job.
type Result struct {
	Spec         job.Spec
	Completed    bool
	CompletionMS uint32
	TurnaroundMS uint32 // completion - arrival
	WaitingMS    uint32 // turnaround - runtime
	Notices      int    // completion frames received; 1 for a finished job
}

// Report summarises a simulation, jobs in admission order.
type Report struct {
	Policy          string
	Ticks           int64
	EndMS           uint32
	MakespanMS      uint32
	Completed       int
	AvgTurnaroundMS float64
	AvgWaitingMS    float64
	Jobs            []Result
}

// WriteTable prints the report as an aligned table.
func (r Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "job\tarrival\truntime\tdone\tturnaround\twaiting\t")
	for _, j := range r.Jobs {
		done := "-"
		if j.Completed {
			done = fmt.Sprint(j.CompletionMS)
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\t%d\t\n",
			j.Spec.ID, j.Spec.ArrivalMS, j.Spec.RuntimeMS, done, j.TurnaroundMS, j.WaitingMS)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "policy=%s ticks=%d completed=%d/%d makespan=%dms avg_turnaround=%.1fms avg_waiting=%.1fms\n",
		r.Policy, r.Ticks, r.Completed, len(r.Jobs), r.MakespanMS, r.AvgTurnaroundMS, r.AvgWaitingMS)
	return err
}
