package auth

import "time"

const (
	DefaultMaxAttempts     = 5
	DefaultLockoutDuration = 60 * time.Second
)

// LockoutPolicy configures the client-side login lockout
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// DefaultLockoutPolicy returns five attempts and a sixty second lock
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: DefaultMaxAttempts, Duration: DefaultLockoutDuration}
}

// Lockout tracks consecutive failed logins for one profile
type Lockout struct {
	FailedAttempts int       `json:"failed_attempts" firestore:"failed_attempts"`
	LockedUntil    time.Time `json:"locked_until" firestore:"locked_until"`
	LastFailureAt  time.Time `json:"last_failure_at" firestore:"last_failure_at"`
}

// IsLocked reports whether login is refused at now
func (l *Lockout) IsLocked(now time.Time) bool {
	return l != nil && now.Before(l.LockedUntil)
}

// Remaining returns the time left until the lock expires, zero when unlocked
func (l *Lockout) Remaining(now time.Time) time.Duration {
	if !l.IsLocked(now) {
		return 0
	}
	return l.LockedUntil.Sub(now)
}

// RegisterFailure records a failed attempt. Reaching the policy limit sets the
// lock and resets the counter so counting restarts from zero after expiry.
func (l *Lockout) RegisterFailure(now time.Time, policy LockoutPolicy) *Lockout {
	next := Lockout{}
	if l != nil {
		next = *l
	}

	next.FailedAttempts++
	next.LastFailureAt = now
	if next.FailedAttempts >= policy.MaxAttempts {
		next.LockedUntil = now.Add(policy.Duration)
		next.FailedAttempts = 0
	}
	return &next
}
