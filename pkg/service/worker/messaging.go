package worker

import (
	"context"
	"time"

	"github.com/preceptor-dev/preceptor/pkg/service/metrics"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

const (
	DefaultThreadInterval       = 30 * time.Second
	DefaultOpenThreadInterval   = 10 * time.Second
	DefaultNotificationInterval = 30 * time.Second
)

// NewThreadPoller refreshes the thread list and publishes the unread total
func NewThreadPoller(uc *usecase.MessagingUseCase, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultThreadInterval
	}
	return NewPoller("threads", interval, func(ctx context.Context) error {
		err := uc.PollThreads(ctx)
		m.SetUnreadMessages(uc.TotalUnread())
		return err
	}, WithMetrics(m))
}

// NewOpenThreadPoller refreshes the messages of whichever thread is open
func NewOpenThreadPoller(uc *usecase.MessagingUseCase, interval time.Duration, m *metrics.Metrics) *Poller {
	if interval <= 0 {
		interval = DefaultOpenThreadInterval
	}
	return NewPoller("open_thread", interval, uc.PollOpenThread, WithMetrics(m))
}
