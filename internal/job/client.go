package job

import (
	"bytes"
	"fmt"
	"sync"

	"ticksched/internal/msg"
)

// Client is the owner side of a job's notification channel. It accepts
// whole msg frames and remembers when the job was reported done.
type Client struct {
	Spec Spec

	mu       sync.Mutex
	buf      bytes.Buffer
	received []msg.Message
}

// NewClient creates the endpoint for spec.
func NewClient(spec Spec) *Client {
	return &Client{Spec: spec}
}

// Write implements io.Writer. Frames may arrive split across writes.
func (c *Client) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Write(p)
	for c.buf.Len() >= msg.Size {
		m, err := msg.Read(&c.buf)
		if err != nil {
			return len(p), fmt.Errorf("job %d: %w", c.Spec.ID, err)
		}
		if m.PID != c.Spec.ID {
			return len(p), fmt.Errorf("job %d: frame for pid %d", c.Spec.ID, m.PID)
		}
		c.received = append(c.received, m)
	}
	return len(p), nil
}

// Completion returns the DONE timestamp, if one arrived.
func (c *Client) Completion() (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.received) == 0 {
		return 0, false
	}
	return c.received[0].TimeMS, true
}

// Notices returns how many frames the job received.
func (c *Client) Notices() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.received)
}
