package interfaces

import (
	"context"

	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

// Repository defines the local persistence of one profile's credentials
type Repository interface {
	Session() SessionRepository
	Lockout() LockoutRepository
	Close() error
}

// SessionRepository is the single owner of the stored credentials
type SessionRepository interface {
	// Load returns the stored session, or nil without error when none is stored
	Load(ctx context.Context) (*auth.Session, error)

	// Save replaces the stored session
	Save(ctx context.Context, session *auth.Session) error

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// LockoutRepository persists the failed-login counter
type LockoutRepository interface {
	// Get returns the stored lockout state, or nil without error when none is stored
	Get(ctx context.Context) (*auth.Lockout, error)
	Put(ctx context.Context, lockout *auth.Lockout) error
	Reset(ctx context.Context) error
}
