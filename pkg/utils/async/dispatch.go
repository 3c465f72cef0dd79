package async

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/utils/errutil"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

// Dispatcher runs fire-and-forget handlers in their own goroutines.
// Owners call Wait during shutdown so in-flight handlers can finish.
type Dispatcher struct {
	wg sync.WaitGroup
}

// Dispatch executes handler asynchronously with a background context that keeps the caller's logger.
// Errors and panics are logged, never propagated.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async handler", goerr.V("panic", r), goerr.V("handler", name)), "async handler panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async handler failed", goerr.V("handler", name)), "async handler failed")
		}
	}()
}

// Wait blocks until every dispatched handler has returned
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
