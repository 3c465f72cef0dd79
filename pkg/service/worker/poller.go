package worker

import (
	"context"
	"sync"
	"time"

	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

// Task is one polling cycle. A returned error is logged and counted; the
// poller keeps running.
type Task func(ctx context.Context) error

// Poller runs a Task immediately and then on every interval until stopped
//
// Architecture assumptions:
// - One console process per supervisor profile, so no coordination between pollers
// - Polling is the transport today; a push subscription can replace it through usecase.MessagingUseCase.Apply
type Poller struct {
	name     string
	interval time.Duration
	task     Task
	metrics  *metrics.Metrics

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

type PollerOption func(*Poller)

func WithMetrics(m *metrics.Metrics) PollerOption {
	return func(p *Poller) {
		p.metrics = m
	}
}

// NewPoller creates a poller. It does nothing until Start is called.
func NewPoller(name string, interval time.Duration, task Task, opts ...PollerOption) *Poller {
	p := &Poller{
		name:     name,
		interval: interval,
		task:     task,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Poller) Name() string { return p.name }

// Start begins the loop in a background goroutine and returns at once
func (p *Poller) Start(ctx context.Context) error {
	logging.From(ctx).Info("poller starting", "poller", p.name, "interval", p.interval.String())

	go p.run(ctx)

	return nil
}

// Stop signals the loop to stop and waits for the running cycle to finish.
// It is safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh
	logging.Default().Info("poller stopped", "poller", p.name)
}

// Done is closed when the loop has exited
func (p *Poller) Done() <-chan struct{} {
	return p.doneCh
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.tick(ctx)

		case <-p.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Info("poller context cancelled", "poller", p.name)
			return
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	err := p.task(ctx)
	p.metrics.ObservePoll(p.name, err)

	if err != nil {
		// background failures stay out of the user's way
		logging.From(ctx).Warn("poll failed, will retry next interval",
			"poller", p.name, "error", err.Error())
	}
}

// Group starts and stops several pollers together
type Group struct {
	pollers []*Poller
}

func NewGroup(pollers ...*Poller) *Group {
	return &Group{pollers: pollers}
}

func (g *Group) Start(ctx context.Context) error {
	for _, p := range g.pollers {
		if err := p.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) Stop() {
	var wg sync.WaitGroup
	for _, p := range g.pollers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Stop()
		}()
	}
	wg.Wait()
}
