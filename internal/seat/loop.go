package seat

import (
	"context"
	"errors"

	"github.com/bnema/wayseat/internal/logger"
	"github.com/bnema/wayseat/internal/native"
)

// ErrLoopStopped is returned for work submitted after the loop exited.
var ErrLoopStopped = errors.New("seat: loop stopped")

// Loop owns a Device and runs every operation on it from one goroutine, in
// submission order.
type Loop struct {
	dev    *Device
	work   chan func(*Device)
	done   chan struct{}
	handle func(*Device, *native.Event)
}

// NewLoop creates a loop for d with room for queueSize pending operations.
func NewLoop(d *Device, queueSize int) *Loop {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Loop{
		dev:    d,
		work:   make(chan func(*Device), queueSize),
		done:   make(chan struct{}),
		handle: (*Device).HandleEvent,
	}
}

// HandleEvents replaces the handler Dispatch runs for each event. It must be
// called before Run.
func (l *Loop) HandleEvents(fn func(*Device, *native.Event)) {
	if fn == nil {
		fn = (*Device).HandleEvent
	}
	l.handle = fn
}

// Run processes submitted work until ctx is cancelled. It must be called
// once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	logger.Debug("Seat loop started")
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Seat loop stopped")
			return ctx.Err()
		case fn := <-l.work:
			fn(l.dev)
		}
	}
}

// Dispatch queues a native event for the device without waiting for it.
func (l *Loop) Dispatch(ctx context.Context, ev *native.Event) error {
	handle := l.handle
	return l.submit(ctx, func(d *Device) { handle(d, ev) })
}

// Do runs fn on the loop and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Device)) error {
	finished := make(chan struct{})
	if err := l.submit(ctx, func(d *Device) {
		defer close(finished)
		fn(d)
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// The loop may have run fn just before exiting
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	}
}

// Status snapshots the device from the loop.
func (l *Loop) Status(ctx context.Context) (Status, error) {
	var st Status
	err := l.Do(ctx, func(d *Device) { st = d.Status() })
	return st, err
}

func (l *Loop) submit(ctx context.Context, fn func(*Device)) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.work <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopStopped
	}
}
