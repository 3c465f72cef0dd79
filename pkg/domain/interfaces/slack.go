package interfaces

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

// Notifier relays urgent notifications to an out-of-band channel
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// ReportSink stores an exported report and returns its location
type ReportSink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}
