package sched

// CPU is the single execution slot. At most one task occupies it.
type CPU struct {
	h Handle
}

// Current returns the occupant's handle.
func (c *CPU) Current() (Handle, bool) { return c.h, c.h != 0 }

// Occupied reports whether a task holds the CPU.
func (c *CPU) Occupied() bool { return c.h != 0 }

func (c *CPU) assign(h Handle) { c.h = h }

func (c *CPU) vacate() Handle {
	h := c.h
	c.h = 0
	return h
}
