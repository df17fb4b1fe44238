// Package session runs the single interaction loop. User commands, layout
// ticks and network completions are all executed as tasks on one goroutine.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work run on the loop goroutine.
type Task func(ctx context.Context)

// Ticker is advanced on every tick interval while it reports Running.
type Ticker interface {
	Running() bool
	Tick() bool
}

// Source feeds tasks into the loop, typically from user input. The loop stops
// when any source returns. io.EOF counts as a clean stop.
type Source func(ctx context.Context, post func(Task)) error

// Loop serializes every state change onto one goroutine.
type Loop struct {
	tasks    chan Task
	done     chan struct{}
	ticker   Ticker
	interval time.Duration
	log      *slog.Logger
	stop     context.CancelFunc
}

// New creates a loop that advances ticker every interval. A nil ticker or a
// non-positive interval disables ticking.
func New(ticker Ticker, interval time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		tasks:    make(chan Task, 64),
		done:     make(chan struct{}),
		ticker:   ticker,
		interval: interval,
		log:      logger,
	}
}

// Post queues t for the loop. It drops t once the loop has stopped.
func (l *Loop) Post(t Task) {
	select {
	case l.tasks <- t:
	case <-l.done:
	}
}

// Go runs call on its own goroutine and posts done back onto the loop. It
// satisfies controller.Scheduler.
func (l *Loop) Go(ctx context.Context, call func(context.Context) error, done func(error)) {
	go func() {
		err := call(ctx)
		l.Post(func(context.Context) { done(err) })
	}()
}

// Stop ends Run. It is safe to call from a task.
func (l *Loop) Stop() {
	if l.stop != nil {
		l.stop()
	}
}

// Run processes tasks and ticks until ctx is cancelled, Stop is called or a
// source returns. Calls started through Go run under contexts the caller
// derives from the one passed to tasks, so they are cancelled on shutdown.
// Run may be called once.
func (l *Loop) Run(ctx context.Context, sources ...Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.stop = cancel
	defer close(l.done)

	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			defer cancel()
			err := src(gctx, l.Post)
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		l.drain(gctx)
		return nil
	})
	return g.Wait()
}

func (l *Loop) drain(ctx context.Context) {
	var tick <-chan time.Time
	if l.ticker != nil && l.interval > 0 {
		t := time.NewTicker(l.interval)
		defer t.Stop()
		tick = t.C
	}

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("interaction loop stopped", "reason", context.Cause(ctx))
			return
		case task := <-l.tasks:
			task(ctx)
		case <-tick:
			if l.ticker.Running() {
				l.ticker.Tick()
			}
		}
	}
}
