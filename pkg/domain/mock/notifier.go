package mock

import (
	"context"
	"sync"

	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
)

// NotifierMock records every relayed notification
type NotifierMock struct {
	NotifyFunc func(ctx context.Context, n *model.Notification) error

	mu       sync.Mutex
	notified []*model.Notification
}

var _ interfaces.Notifier = &NotifierMock{}

func (m *NotifierMock) Notify(ctx context.Context, n *model.Notification) error {
	m.mu.Lock()
	m.notified = append(m.notified, n)
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, n)
	}
	return nil
}

func (m *NotifierMock) Notified() []*model.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Notification, len(m.notified))
	copy(out, m.notified)
	return out
}

// ReportSinkMock keeps exported documents in memory
type ReportSinkMock struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ interfaces.ReportSink = &ReportSinkMock{}

func (m *ReportSinkMock) Put(ctx context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[name] = append([]byte(nil), data...)
	return "mem://" + name, nil
}

func (m *ReportSinkMock) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[name]
	return data, ok
}
