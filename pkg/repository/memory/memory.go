package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps credentials in process memory. Used by `serve` with
// --repository-backend=memory and by tests.
type Memory struct {
	session *sessionRepository
	lockout *lockoutRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		session: &sessionRepository{},
		lockout: &lockoutRepository{},
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Lockout() interfaces.LockoutRepository {
	return m.lockout
}

func (m *Memory) Close() error {
	return nil
}

type sessionRepository struct {
	mu      sync.RWMutex
	current *auth.Session
}

func (r *sessionRepository) Load(ctx context.Context) (*auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil, nil
	}
	return copySession(r.current), nil
}

func (r *sessionRepository) Save(ctx context.Context, session *auth.Session) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = copySession(session)
	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
	return nil
}

type lockoutRepository struct {
	mu      sync.RWMutex
	current *auth.Lockout
}

func (r *lockoutRepository) Get(ctx context.Context) (*auth.Lockout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil, nil
	}
	l := *r.current
	return &l, nil
}

func (r *lockoutRepository) Put(ctx context.Context, lockout *auth.Lockout) error {
	if lockout == nil {
		return goerr.New("lockout is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l := *lockout
	r.current = &l
	return nil
}

func (r *lockoutRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
	return nil
}

func copySession(s *auth.Session) *auth.Session {
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return &c
}
