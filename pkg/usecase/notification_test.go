package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/mock"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
)

type notificationBackend struct {
	mu    sync.Mutex
	items []*model.Notification
	err   error
}

func (b *notificationBackend) set(items []*model.Notification, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items, b.err = items, err
}

func (b *notificationBackend) list(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Notification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	out := make([]*model.Notification, len(b.items))
	for i, n := range b.items {
		copied := *n
		out[i] = &copied
	}
	return out, nil
}

func TestNotificationPoll(t *testing.T) {
	ctx := context.Background()
	backend := &notificationBackend{}
	backend.set([]*model.Notification{{ID: "1", Priority: types.NotificationPriorityCritical}}, nil)

	client := &mock.PlatformMock{ListNotificationsFunc: backend.list}
	uc := usecase.New(client, memory.New())

	t.Run("first poll primes without reporting backlog", func(t *testing.T) {
		fresh, err := uc.Notification.Poll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, fresh).Length(0)
		gt.Number(t, uc.Notification.UnreadCount()).Equal(1)
	})

	t.Run("later polls report new notifications once", func(t *testing.T) {
		backend.set([]*model.Notification{
			{ID: "2", Priority: types.NotificationPriorityHigh},
			{ID: "1", Priority: types.NotificationPriorityCritical},
		}, nil)

		fresh, err := uc.Notification.Poll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, fresh).Length(1).Required()
		gt.Value(t, fresh[0].ID).Equal(model.ID("2"))

		fresh, err = uc.Notification.Poll(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, fresh).Length(0)
	})

	t.Run("poll errors keep state", func(t *testing.T) {
		backend.set(nil, errors.New("bad gateway"))

		fresh, err := uc.Notification.Poll(ctx)
		gt.Error(t, err)
		gt.Array(t, fresh).Length(0)
		gt.Array(t, uc.Notification.State().Items).Length(2)
		gt.NoError(t, uc.Notification.State().Err)
	})

	t.Run("explicit fetch surfaces errors", func(t *testing.T) {
		_, err := uc.Notification.FetchNotifications(ctx)
		gt.Error(t, err)
		gt.Error(t, uc.Notification.State().Err)
	})
}

func TestNotificationMarkRead(t *testing.T) {
	ctx := context.Background()
	backend := &notificationBackend{}
	backend.set([]*model.Notification{{ID: "1"}, {ID: "2"}, {ID: "3", IsRead: true}}, nil)

	client := &mock.PlatformMock{ListNotificationsFunc: backend.list}
	uc := usecase.New(client, memory.New())

	_, err := uc.Notification.FetchNotifications(ctx)
	gt.NoError(t, err).Required()
	gt.Number(t, uc.Notification.UnreadCount()).Equal(2)

	gt.NoError(t, uc.Notification.MarkRead(ctx, "1")).Required()
	gt.Number(t, uc.Notification.UnreadCount()).Equal(1)

	gt.NoError(t, uc.Notification.MarkAllRead(ctx)).Required()
	gt.Number(t, uc.Notification.UnreadCount()).Equal(0)
	gt.Number(t, client.Calls("MarkAllNotificationsRead")).Equal(1)
}
