package worker

import (
	"context"
	"time"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/preceptor-dev/preceptor/pkg/utils/async"
)

// NewNotificationPoller refreshes notifications and hands each newly seen one
// to the notifier without blocking the next cycle. A nil notifier only refreshes.
func NewNotificationPoller(uc *usecase.NotificationUseCase, notifier interfaces.Notifier, dispatcher *async.Dispatcher, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultNotificationInterval
	}
	if dispatcher == nil {
		dispatcher = &async.Dispatcher{}
	}

	return NewPoller("notifications", interval, func(ctx context.Context) error {
		fresh, err := uc.Poll(ctx)
		if err != nil {
			return err
		}
		if notifier == nil {
			return nil
		}

		for _, n := range fresh {
			dispatcher.Dispatch(ctx, "notify", func(ctx context.Context) error {
				return notifier.Notify(ctx, n)
			})
		}
		return nil
	}, WithMetrics(m))
}
