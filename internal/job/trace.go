// Package job describes the workload fed to the scheduler: a trace of jobs
// with arrival times and runtimes, and the client side that receives their
// completion notices.
package job

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

var ErrInvalidTrace = errors.New("invalid trace")

// Spec is one job in a trace.
type Spec struct {
	ID        uint32 `yaml:"id"`
	ArrivalMS uint32 `yaml:"arrival_ms"`
	RuntimeMS uint32 `yaml:"runtime_ms"`
}

// Trace mirrors a trace file:
//
//	jobs:
//	  - {id: 1, arrival_ms: 0, runtime_ms: 300}
type Trace struct {
	Jobs []Spec `yaml:"jobs"`
}

// LoadTrace reads and validates a trace file.
func LoadTrace(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("read trace %s: %w", path, err)
	}
	return ParseTrace(data)
}

// ParseTrace decodes and validates trace YAML.
func ParseTrace(data []byte) (Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return Trace{}, fmt.Errorf("parse trace: %w", err)
	}
	return tr, tr.Validate()
}

// Validate rejects jobs the scheduler would refuse at admission.
func (tr Trace) Validate() error {
	seen := make(map[uint32]bool, len(tr.Jobs))
	for i, j := range tr.Jobs {
		if j.RuntimeMS == 0 {
			return fmt.Errorf("%w: job %d (#%d) has zero runtime", ErrInvalidTrace, j.ID, i)
		}
		if seen[j.ID] {
			return fmt.Errorf("%w: duplicate job id %d", ErrInvalidTrace, j.ID)
		}
		seen[j.ID] = true
	}
	return nil
}
