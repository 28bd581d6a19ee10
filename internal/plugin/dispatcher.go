package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ayusman/mudra/internal/navigator"
)

// DefaultQueueSize is the number of pending plugin runs kept before new ones
// are dropped.
const DefaultQueueSize = 8

type job struct {
	binding Binding
	req     *Request
}

// Dispatcher runs the plugins bound to slide changes on a single background
// goroutine. Navigated never blocks: when the queue is full the run is dropped.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	bindings map[string][]Binding
	queue    chan job
	logger   *slog.Logger
}

// NewDispatcher returns a Dispatcher for the given bindings. Bindings naming
// an unknown plugin or an unsupported action are rejected.
func NewDispatcher(manager *Manager, executor *Executor, bindings []Binding, queueSize int, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	byDirection := make(map[string][]Binding)
	for _, b := range bindings {
		p, err := manager.Get(b.Plugin)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", b.On, err)
		}
		if !p.Manifest.Supports(b.Action) {
			return nil, fmt.Errorf("binding %s: plugin %s has no action %q", b.On, b.Plugin, b.Action)
		}
		byDirection[b.On] = append(byDirection[b.On], b)
	}

	return &Dispatcher{
		manager:  manager,
		executor: executor,
		bindings: byDirection,
		queue:    make(chan job, queueSize),
		logger:   logger,
	}, nil
}

// Navigated queues every binding for the navigation's direction.
func (d *Dispatcher) Navigated(n navigator.Navigation) {
	for _, b := range d.bindings[n.Direction()] {
		req, err := newRequest(b, n)
		if err != nil {
			d.logger.Warn("cannot build plugin request", slog.String("plugin", b.Plugin), slog.Any("error", err))
			continue
		}

		select {
		case d.queue <- job{binding: b, req: req}:
		default:
			d.logger.Warn("plugin queue full, dropping run",
				slog.String("plugin", b.Plugin),
				slog.String("action", b.Action))
		}
	}
}

func newRequest(b Binding, n navigator.Navigation) (*Request, error) {
	req := &Request{
		Action: b.Action,
		Event:  n.Direction(),
		Deck:   n.Deck,
		Slide:  n.To,
		Total:  n.Total,
	}
	if len(b.Params) > 0 {
		params, err := json.Marshal(b.Params)
		if err != nil {
			return nil, err
		}
		req.Params = params
	}
	return req, nil
}

// Run executes queued jobs until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-d.queue:
			d.run(ctx, j)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, j job) {
	logger := d.logger.With(
		slog.String("plugin", j.binding.Plugin),
		slog.String("action", j.binding.Action),
		slog.String("event", j.req.Event))

	p, err := d.manager.Get(j.binding.Plugin)
	if err != nil {
		logger.Warn("plugin disappeared", slog.Any("error", err))
		return
	}

	resp, err := d.executor.Execute(ctx, p, j.req)
	if err != nil {
		logger.Error("plugin run failed", slog.Any("error", err))
		return
	}
	if !resp.Success {
		logger.Warn("plugin reported failure", slog.String("error", resp.Error))
		return
	}
	logger.Debug("plugin run succeeded")
}
