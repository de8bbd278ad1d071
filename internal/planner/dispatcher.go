package planner

import "errors"

// dispatcher runs handlers one at a time. A handler started while another is running is
// queued and runs after the current one returns, so a reload triggered from inside a filter
// change never interleaves with the filter recomputation.
type dispatcher struct {
	running bool
	queue   []func() error
}

// run executes fn now, or queues it when called from inside another handler. The outermost
// call returns the joined errors of fn and of every handler queued while it ran.
func (d *dispatcher) run(fn func() error) error {
	if d.running {
		d.queue = append(d.queue, fn)
		return nil
	}
	d.running = true
	defer func() {
		d.running = false
	}()

	var errs []error
	if err := fn(); err != nil {
		errs = append(errs, err)
	}
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		if err := next(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// busy reports whether a handler is currently running.
func (d *dispatcher) busy() bool {
	return d.running
}
