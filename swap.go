package garden

import "sync/atomic"

// Controller hands compiled programs from the control path to the
// render path through a single-slot mailbox. The last submitted program
// wins; programs replaced before the render path saw them are dropped.
type Controller struct {
	next    atomic.Pointer[Program]
	current *Program // owned by the render path
	swaps   atomic.Uint64
	dropped atomic.Uint64
}

func NewController() *Controller {
	return &Controller{current: &Program{}}
}

// Submit publishes p as the next program. It never blocks. p must not
// be submitted again or modified afterwards.
func (c *Controller) Submit(p *Program) {
	if p == nil {
		p = &Program{}
	}
	if old := c.next.Swap(p); old != nil {
		c.dropped.Add(1)
	}
}

// Current returns the program to render. If a new program is waiting
// it becomes current, taking over the state of unchanged instructions.
// Only the render path may call Current.
func (c *Controller) Current() *Program {
	if c.next.Load() == nil {
		return c.current
	}
	p := c.next.Swap(nil)
	if p == nil {
		return c.current
	}
	p.adopt(c.current)
	c.current = p
	c.swaps.Add(1)
	return p
}

// Pending reports whether a submitted program has not been picked up yet.
func (c *Controller) Pending() bool {
	return c.next.Load() != nil
}

// Swaps returns the number of programs that became current.
func (c *Controller) Swaps() uint64 {
	return c.swaps.Load()
}

// Dropped returns the number of programs replaced before being rendered.
func (c *Controller) Dropped() uint64 {
	return c.dropped.Load()
}
