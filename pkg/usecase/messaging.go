package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// ViewerFunc resolves the ID of the signed-in supervisor
type ViewerFunc func(ctx context.Context) (model.ID, error)

type EventType string

const (
	EventMessageCreated EventType = "message.created"
	EventMessageRead    EventType = "message.read"
	EventThreadClosed   EventType = "thread.closed"
)

// Event is an externally delivered messaging update. Polling and a push
// transport both end up here with the same merge and counter rules.
type Event struct {
	Type      EventType      `json:"type"`
	ThreadID  model.ID       `json:"thread_id,omitempty"`
	MessageID model.ID       `json:"message_id,omitempty"`
	Message   *model.Message `json:"message,omitempty"`
}

// MessagingState is a snapshot of the thread list
type MessagingState struct {
	Threads      []*model.Thread
	OpenThreadID model.ID
	TotalUnread  int
	Loading      bool
	Err          error
}

// threadView holds the loaded messages of one thread, ascending
type threadView struct {
	messages   []*model.Message
	cursor     string
	pagedBack  bool
	generation uint64
}

// maxTrackedEvents bounds the per-thread memory of applied push events
const maxTrackedEvents = 256

// recentIDs is a bounded insertion-ordered set; the oldest entry is evicted first
type recentIDs struct {
	order []model.ID
	set   map[model.ID]struct{}
}

func (r *recentIDs) has(id model.ID) bool {
	_, ok := r.set[id]
	return ok
}

func (r *recentIDs) add(id model.ID) {
	if r.has(id) {
		return
	}
	if r.set == nil {
		r.set = make(map[model.ID]struct{})
	}
	if len(r.order) >= maxTrackedEvents {
		delete(r.set, r.order[0])
		r.order = r.order[1:]
	}
	r.order = append(r.order, id)
	r.set[id] = struct{}{}
}

// threadEvents remembers which messages already moved a thread's unread
// counter, so redelivered events are applied once even when the thread's
// messages are not loaded
type threadEvents struct {
	counted recentIDs
	acked   recentIDs
}

type MessagingUseCase struct {
	client   interfaces.MessagingClient
	viewer   ViewerFunc
	pageSize int

	mu      sync.RWMutex
	threads []*model.Thread
	views   map[model.ID]*threadView
	events  map[model.ID]*threadEvents
	openID  model.ID
	loading bool
	err     error
}

func NewMessagingUseCase(client interfaces.MessagingClient, viewer ViewerFunc, pageSize int) *MessagingUseCase {
	if pageSize <= 0 {
		pageSize = DefaultMessagePageSize
	}
	if viewer == nil {
		viewer = func(context.Context) (model.ID, error) { return "", nil }
	}
	return &MessagingUseCase{
		client:   client,
		viewer:   viewer,
		pageSize: pageSize,
		views:    make(map[model.ID]*threadView),
		events:   make(map[model.ID]*threadEvents),
	}
}

// FetchThreads is the explicit load of the thread list; failures are surfaced
func (uc *MessagingUseCase) FetchThreads(ctx context.Context, opts ...interfaces.ListOption) ([]*model.Thread, error) {
	uc.mu.Lock()
	uc.loading = true
	uc.err = nil
	uc.mu.Unlock()

	threads, err := uc.client.ListThreads(ctx, opts...)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.loading = false
	if err != nil {
		uc.err = goerr.Wrap(err, "failed to list threads")
		return nil, uc.err
	}
	uc.threads = slices.Clone(threads)
	return threads, nil
}

// PollThreads refreshes the thread list in the background. A failure is
// returned to the poller but never stored in the state.
func (uc *MessagingUseCase) PollThreads(ctx context.Context) error {
	threads, err := uc.client.ListThreads(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to poll threads")
	}

	uc.mu.Lock()
	uc.threads = slices.Clone(threads)
	uc.mu.Unlock()
	return nil
}

// OpenThread marks the thread as the one being viewed, so the open-thread
// poller follows it
func (uc *MessagingUseCase) OpenThread(threadID model.ID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.openID != "" && uc.openID != threadID {
		uc.viewLocked(uc.openID).generation++
	}
	uc.viewLocked(threadID)
	uc.openID = threadID
}

// CloseThread stops following the thread. Responses for requests issued
// before the close are discarded.
func (uc *MessagingUseCase) CloseThread(threadID model.ID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.viewLocked(threadID).generation++
	if uc.openID == threadID {
		uc.openID = ""
	}
}

func (uc *MessagingUseCase) OpenThreadID() model.ID {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.openID
}

// FetchMessages loads the newest page without a cursor and merges it into the
// loaded messages, deduplicated by ID and sorted ascending
func (uc *MessagingUseCase) FetchMessages(ctx context.Context, threadID model.ID) ([]*model.Message, error) {
	gen := uc.generation(threadID)

	page, err := uc.client.ListMessages(ctx, threadID, "", uc.pageSize)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V(ThreadIDKey, threadID))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	view := uc.viewLocked(threadID)
	if view.generation != gen {
		return nil, goerr.Wrap(ErrStaleResponse, "discarded message page", goerr.V(ThreadIDKey, threadID))
	}

	view.messages = mergeMessages(view.messages, ascending(page.Results, threadID))
	if !view.pagedBack {
		view.cursor = page.NextCursor
	}
	return slices.Clone(view.messages), nil
}

// LoadMoreMessages fetches the page older than the loaded messages and puts
// it in front of them. It returns false when there is nothing more to load.
func (uc *MessagingUseCase) LoadMoreMessages(ctx context.Context, threadID model.ID) (bool, error) {
	uc.mu.Lock()
	view := uc.viewLocked(threadID)
	cursor, gen := view.cursor, view.generation
	uc.mu.Unlock()

	if cursor == "" {
		return false, nil
	}

	page, err := uc.client.ListMessages(ctx, threadID, cursor, uc.pageSize)
	if err != nil {
		return false, goerr.Wrap(err, "failed to load older messages", goerr.V(ThreadIDKey, threadID))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	view = uc.viewLocked(threadID)
	if view.generation != gen {
		return false, goerr.Wrap(ErrStaleResponse, "discarded older message page", goerr.V(ThreadIDKey, threadID))
	}

	view.messages = prependMessages(view.messages, ascending(page.Results, threadID))
	view.cursor = page.NextCursor
	view.pagedBack = true
	return view.cursor != "", nil
}

// PollOpenThread refreshes the messages of the open thread, if any. A page
// made stale by closing the thread is not an error.
func (uc *MessagingUseCase) PollOpenThread(ctx context.Context) error {
	threadID := uc.OpenThreadID()
	if threadID == "" {
		return nil
	}

	if _, err := uc.FetchMessages(ctx, threadID); err != nil {
		if errors.Is(err, ErrStaleResponse) {
			logging.From(ctx).Debug("open thread changed during poll", "thread_id", threadID)
			return nil
		}
		return err
	}
	return nil
}

// MarkVisibleRead acknowledges every loaded unread message the viewer did not
// send, one call per message. It returns how many were acknowledged.
func (uc *MessagingUseCase) MarkVisibleRead(ctx context.Context, threadID model.ID) (int, error) {
	viewerID, err := uc.viewer(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to resolve viewer")
	}
	if viewerID == "" {
		return 0, goerr.Wrap(ErrNotLoggedIn, "cannot mark messages read")
	}

	var targets []model.ID
	uc.mu.RLock()
	if view, ok := uc.views[threadID]; ok {
		for _, m := range view.messages {
			if !m.IsRead && m.Sender.ID != viewerID {
				targets = append(targets, m.ID)
			}
		}
	}
	uc.mu.RUnlock()

	var (
		eg     errgroup.Group
		marked int
		countM sync.Mutex
	)
	for _, id := range targets {
		eg.Go(func() error {
			if err := uc.client.MarkMessageRead(ctx, id); err != nil {
				return goerr.Wrap(err, "failed to mark message read",
					goerr.V(ThreadIDKey, threadID), goerr.V(MessageIDKey, id))
			}
			if uc.applyRead(threadID, id) {
				countM.Lock()
				marked++
				countM.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return marked, err
	}
	return marked, nil
}

// SendMessage posts to the thread and merges the returned message
func (uc *MessagingUseCase) SendMessage(ctx context.Context, threadID model.ID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "message content is required", goerr.V(ThreadIDKey, threadID))
	}
	if t := uc.Thread(threadID); t != nil && t.IsClosed {
		return nil, goerr.Wrap(ErrThreadClosed, "cannot send message", goerr.V(ThreadIDKey, threadID))
	}

	msg, err := uc.client.SendMessage(ctx, threadID, content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send message", goerr.V(ThreadIDKey, threadID))
	}
	if msg.ThreadID == "" {
		msg.ThreadID = threadID
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	view := uc.viewLocked(threadID)
	view.messages = mergeMessages(view.messages, []*model.Message{msg})
	uc.touchThreadLocked(threadID, msg)
	return msg, nil
}

// CreateThread starts a conversation and puts it at the head of the list
func (uc *MessagingUseCase) CreateThread(ctx context.Context, input *model.ThreadInput) (*model.Thread, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	thread, err := uc.client.CreateThread(ctx, input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create thread")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.threads = append([]*model.Thread{thread}, slices.DeleteFunc(uc.threads, func(t *model.Thread) bool {
		return t.ID == thread.ID
	})...)
	return thread, nil
}

// Apply reduces one external event into the messaging state
func (uc *MessagingUseCase) Apply(ctx context.Context, ev Event) error {
	switch ev.Type {
	case EventMessageCreated:
		if ev.Message == nil || ev.Message.ID == "" {
			return goerr.Wrap(ErrInvalidInput, "message.created requires a message")
		}
		msg := *ev.Message
		if msg.ThreadID == "" {
			msg.ThreadID = ev.ThreadID
		}
		if msg.ThreadID == "" {
			return goerr.Wrap(ErrInvalidInput, "message.created requires a thread id")
		}

		viewerID, err := uc.viewer(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve viewer")
		}
		uc.applyCreated(&msg, viewerID)
		return nil

	case EventMessageRead:
		if ev.MessageID == "" {
			return goerr.Wrap(ErrInvalidInput, "message.read requires a message id")
		}
		threadID := ev.ThreadID
		if threadID == "" {
			threadID = uc.threadOf(ev.MessageID)
		}
		if threadID == "" {
			logging.From(ctx).Debug("read event for unknown message", "message_id", ev.MessageID)
			return nil
		}
		uc.applyRead(threadID, ev.MessageID)
		return nil

	case EventThreadClosed:
		if ev.ThreadID == "" {
			return goerr.Wrap(ErrInvalidInput, "thread.closed requires a thread id")
		}
		uc.mu.Lock()
		defer uc.mu.Unlock()
		uc.updateThreadLocked(ev.ThreadID, func(t *model.Thread) {
			t.IsClosed = true
		})
		return nil

	default:
		return goerr.Wrap(ErrUnknownEvent, "cannot apply event", goerr.V("type", ev.Type))
	}
}

func (uc *MessagingUseCase) applyCreated(msg *model.Message, viewerID model.ID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	events := uc.eventsLocked(msg.ThreadID)
	isNew := !events.counted.has(msg.ID) && !events.acked.has(msg.ID)
	if view, ok := uc.views[msg.ThreadID]; ok {
		if slices.ContainsFunc(view.messages, func(m *model.Message) bool { return m.ID == msg.ID }) {
			isNew = false
		}
		view.messages = mergeMessages(view.messages, []*model.Message{msg})
	}
	events.counted.add(msg.ID)

	uc.touchThreadLocked(msg.ThreadID, msg)
	if isNew && !msg.IsRead && msg.Sender.ID != viewerID {
		uc.updateThreadLocked(msg.ThreadID, func(t *model.Thread) {
			t.UnreadCount++
		})
	}
}

// applyRead flips the message to read. The owning thread's counter drops by
// one, never below zero, and only when the flag actually changed.
func (uc *MessagingUseCase) applyRead(threadID, messageID model.ID) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	flipped, loaded := false, false
	if view, ok := uc.views[threadID]; ok {
		for i, m := range view.messages {
			if m.ID != messageID {
				continue
			}
			loaded = true
			if !m.IsRead {
				next := *m
				next.IsRead = true
				view.messages[i] = &next
				flipped = true
			}
		}
	}
	events := uc.eventsLocked(threadID)
	if !loaded {
		// the message is not loaded, trust the event once
		flipped = !events.acked.has(messageID)
	}

	if flipped {
		events.acked.add(messageID)
		uc.updateThreadLocked(threadID, func(t *model.Thread) {
			t.UnreadCount = max(t.UnreadCount-1, 0)
		})
	}
	return flipped
}

func (uc *MessagingUseCase) threadOf(messageID model.ID) model.ID {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for threadID, view := range uc.views {
		for _, m := range view.messages {
			if m.ID == messageID {
				return threadID
			}
		}
	}
	return ""
}

func (uc *MessagingUseCase) touchThreadLocked(threadID model.ID, msg *model.Message) {
	uc.updateThreadLocked(threadID, func(t *model.Thread) {
		if t.LastMessage == nil || !msg.Before(t.LastMessage) {
			t.LastMessage = msg
			if msg.CreatedAt.After(t.UpdatedAt) {
				t.UpdatedAt = msg.CreatedAt
			}
		}
	})
}

// updateThreadLocked replaces the thread with a modified copy so snapshots
// handed out earlier stay unchanged
func (uc *MessagingUseCase) updateThreadLocked(threadID model.ID, fn func(*model.Thread)) {
	for i, t := range uc.threads {
		if t.ID == threadID {
			next := *t
			fn(&next)
			uc.threads[i] = &next
			return
		}
	}
}

func (uc *MessagingUseCase) viewLocked(threadID model.ID) *threadView {
	view, ok := uc.views[threadID]
	if !ok {
		view = &threadView{}
		uc.views[threadID] = view
	}
	return view
}

func (uc *MessagingUseCase) eventsLocked(threadID model.ID) *threadEvents {
	events, ok := uc.events[threadID]
	if !ok {
		events = &threadEvents{}
		uc.events[threadID] = events
	}
	return events
}

func (uc *MessagingUseCase) generation(threadID model.ID) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.viewLocked(threadID).generation
}

// Messages returns the loaded messages of a thread, ascending
func (uc *MessagingUseCase) Messages(threadID model.ID) []*model.Message {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if view, ok := uc.views[threadID]; ok {
		return slices.Clone(view.messages)
	}
	return nil
}

// HasMore reports whether an older page can be loaded
func (uc *MessagingUseCase) HasMore(threadID model.ID) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	view, ok := uc.views[threadID]
	return ok && view.cursor != ""
}

func (uc *MessagingUseCase) Threads() []*model.Thread {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return slices.Clone(uc.threads)
}

func (uc *MessagingUseCase) Thread(threadID model.ID) *model.Thread {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, t := range uc.threads {
		if t.ID == threadID {
			return t
		}
	}
	return nil
}

// TotalUnread is always the sum of the per-thread counters
func (uc *MessagingUseCase) TotalUnread() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return totalUnread(uc.threads)
}

func (uc *MessagingUseCase) State() MessagingState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return MessagingState{
		Threads:      slices.Clone(uc.threads),
		OpenThreadID: uc.openID,
		TotalUnread:  totalUnread(uc.threads),
		Loading:      uc.loading,
		Err:          uc.err,
	}
}

func totalUnread(threads []*model.Thread) int {
	total := 0
	for _, t := range threads {
		total += t.UnreadCount
	}
	return total
}

// ascending turns a backend page, newest first, into ascending order
func ascending(page []*model.Message, threadID model.ID) []*model.Message {
	out := make([]*model.Message, 0, len(page))
	for i := len(page) - 1; i >= 0; i-- {
		m := page[i]
		if m == nil {
			continue
		}
		if m.ThreadID == "" {
			next := *m
			next.ThreadID = threadID
			m = &next
		}
		out = append(out, m)
	}
	return out
}

// mergeMessages merges newer messages into the loaded list
func mergeMessages(existing, incoming []*model.Message) []*model.Message {
	return normalize(append(slices.Clone(existing), incoming...))
}

// prependMessages puts an older page in front of the loaded list
func prependMessages(existing, older []*model.Message) []*model.Message {
	return normalize(append(slices.Clone(older), existing...))
}

// normalize drops duplicate IDs and sorts ascending by creation time. The read
// flag never goes back to unread: a message read in any copy stays read.
func normalize(messages []*model.Message) []*model.Message {
	index := make(map[model.ID]int, len(messages))
	out := make([]*model.Message, 0, len(messages))

	for _, m := range messages {
		i, dup := index[m.ID]
		if !dup {
			index[m.ID] = len(out)
			out = append(out, m)
			continue
		}
		if out[i].IsRead && !m.IsRead {
			next := *m
			next.IsRead = true
			m = &next
		}
		out[i] = m
	}

	slices.SortStableFunc(out, func(a, b *model.Message) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		default:
			return 0
		}
	})
	return out
}
