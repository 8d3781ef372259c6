package srv

import "context"

// cleanup runs fn on shutdown; appended last it releases what the
// transports used.
type cleanup struct {
	fn func() error
}

func NewCleanup(fn func() error) Service {
	return cleanup{fn: fn}
}

func (cleanup) Start(context.Context) error { return nil }

func (c cleanup) Shutdown(context.Context) error {
	if c.fn == nil {
		return nil
	}
	return c.fn()
}
