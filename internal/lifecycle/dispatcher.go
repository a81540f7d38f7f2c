package lifecycle

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
)

// Observer is notified after each routed event. It runs while the dispatcher
// holds its lock and must not call Dispatch.
type Observer func(ev Event, out Outcome)

// Dispatcher delivers events to Route one at a time and executes the
// terminate effect. Tray callbacks and window hooks arrive on different
// goroutines; the dispatcher is the single point they are serialized through.
type Dispatcher struct {
	mu         sync.Mutex
	ctx        *Context
	logger     *slog.Logger
	exit       func(code int)
	observers  []Observer
	terminated bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithExit replaces os.Exit as the terminate effect executor.
func WithExit(exit func(code int)) DispatcherOption {
	return func(d *Dispatcher) {
		if exit != nil {
			d.exit = exit
		}
	}
}

// WithObserver registers an observer.
func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

func NewDispatcher(ctx *Context, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		ctx:    ctx,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		exit:   os.Exit,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes ev and carries out its effects. Once a terminate effect has
// run, later events are dropped.
func (d *Dispatcher) Dispatch(ev Event) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.terminated {
		return Outcome{}
	}

	eventID := uuid.NewString()
	out := Route(d.ctx, ev)

	for _, f := range out.Failures {
		d.logger.Debug("window operation failed",
			"event_id", eventID,
			"event", ev.Kind.String(),
			"window", f.Window,
			"op", f.Op,
			"error", f.Err)
	}
	if out.Transition != TransitionNone || out.CloseVetoed {
		d.logger.Debug("event routed",
			"event_id", eventID,
			"event", ev.Kind.String(),
			"menu_id", ev.MenuID,
			"transition", out.Transition.String(),
			"close_vetoed", out.CloseVetoed)
	}

	for _, o := range d.observers {
		o(ev, out)
	}

	if eff, ok := out.Terminate(); ok {
		d.terminated = true
		d.logger.Info("quit requested, exiting", "event_id", eventID, "code", eff.Code)
		d.exit(eff.Code)
	}
	return out
}

// Terminated reports whether a terminate effect has been executed.
func (d *Dispatcher) Terminated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminated
}
