package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
)

type NotificationUseCase struct {
	client        interfaces.NotificationClient
	notifications Store[*model.Notification]

	// seen holds every notification ID observed so far. It is nil until the
	// first successful load so that the backlog is not reported as new.
	seenMu sync.Mutex
	seen   map[model.ID]struct{}
}

func NewNotificationUseCase(client interfaces.NotificationClient) *NotificationUseCase {
	return &NotificationUseCase{client: client}
}

func (uc *NotificationUseCase) State() State[*model.Notification] {
	return uc.notifications.State()
}

// FetchNotifications is the explicit load; failures are returned and stored
func (uc *NotificationUseCase) FetchNotifications(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Notification, error) {
	items, err := fetchInto(ctx, &uc.notifications, "failed to list notifications", func(ctx context.Context) ([]*model.Notification, error) {
		return uc.client.ListNotifications(ctx, opts...)
	})
	if err != nil {
		return nil, err
	}
	uc.observe(items)
	return items, nil
}

// Poll refreshes the list in the background and returns the notifications
// not seen by any earlier load. A failure is returned to the poller but never
// stored in the state.
func (uc *NotificationUseCase) Poll(ctx context.Context) ([]*model.Notification, error) {
	items, err := uc.client.ListNotifications(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to poll notifications")
	}

	uc.notifications.replace(items)
	fresh := uc.observe(items)
	if len(fresh) > 0 {
		logging.From(ctx).Debug("new notifications", "count", len(fresh))
	}
	return fresh, nil
}

func (uc *NotificationUseCase) observe(items []*model.Notification) []*model.Notification {
	uc.seenMu.Lock()
	defer uc.seenMu.Unlock()

	priming := uc.seen == nil
	if priming {
		uc.seen = make(map[model.ID]struct{}, len(items))
	}

	var fresh []*model.Notification
	for _, n := range items {
		if _, ok := uc.seen[n.ID]; ok {
			continue
		}
		uc.seen[n.ID] = struct{}{}
		if !priming {
			fresh = append(fresh, n)
		}
	}
	return fresh
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, id model.ID) error {
	if err := uc.client.MarkNotificationRead(ctx, id); err != nil {
		err = goerr.Wrap(err, "failed to mark notification read", goerr.V(NotificationIDKey, id))
		uc.notifications.fail(err)
		return err
	}

	uc.notifications.mutate(id, markNotificationRead)
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) error {
	if err := uc.client.MarkAllNotificationsRead(ctx); err != nil {
		err = goerr.Wrap(err, "failed to mark all notifications read")
		uc.notifications.fail(err)
		return err
	}

	for _, n := range uc.notifications.Items() {
		if !n.IsRead {
			uc.notifications.mutate(n.ID, markNotificationRead)
		}
	}
	return nil
}

// UnreadCount counts unread notifications in the loaded list
func (uc *NotificationUseCase) UnreadCount() int {
	n := 0
	for _, item := range uc.notifications.Items() {
		if !item.IsRead {
			n++
		}
	}
	return n
}

func markNotificationRead(n *model.Notification) *model.Notification {
	next := *n
	next.IsRead = true
	return &next
}
