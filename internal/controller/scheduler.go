package controller

import "context"

// Scheduler runs a remote call off the interaction loop and delivers its
// completion back onto the loop. done must run on the loop goroutine.
type Scheduler interface {
	Go(ctx context.Context, call func(context.Context) error, done func(error))
}

// Inline runs the call and its completion synchronously on the caller's
// goroutine. One-shot commands and tests use it.
type Inline struct{}

// Go implements Scheduler.
func (Inline) Go(ctx context.Context, call func(context.Context) error, done func(error)) {
	done(call(ctx))
}
