package auth

import (
	"sync"
	"time"
)

// LoginAttemptTracker throttles authentication attempts per username. It
// counts failures over a sliding window and temporarily blocks a username
// once the window holds maxAttempts failures. State is keyed by the raw
// username string regardless of whether an account exists, so unknown and
// known usernames behave identically.
//
// The tracker is process-local and in-memory: state is lost on restart and
// is not shared between instances, so lockout is enforced per process.
// Deployments that need global lockout must replace this with an
// implementation backed by a shared store. Expired state is purged lazily
// on access, never by a background sweep, so memory grows with the number
// of distinct usernames that have ever failed.
type LoginAttemptTracker struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	blocked  map[string]time.Time

	maxAttempts int
	window      time.Duration
	blockFor    time.Duration
	now         func() time.Time
}

// NewLoginAttemptTracker creates a tracker that blocks a username for
// blockFor after maxAttempts failures within window.
func NewLoginAttemptTracker(maxAttempts int, window, blockFor time.Duration) *LoginAttemptTracker {
	return &LoginAttemptTracker{
		attempts:    make(map[string][]time.Time),
		blocked:     make(map[string]time.Time),
		maxAttempts: maxAttempts,
		window:      window,
		blockFor:    blockFor,
		now:         time.Now,
	}
}

// WithClock overrides the tracker's time source. Intended for tests.
func (t *LoginAttemptTracker) WithClock(now func() time.Time) *LoginAttemptTracker {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
	return t
}

// IsBlocked reports whether the username is currently blocked. An expired
// block entry found during the check is purged together with the username's
// failure history.
func (t *LoginAttemptTracker) IsBlocked(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.blocked[username]
	if !ok {
		return false
	}
	if t.now().Before(until) {
		return true
	}
	delete(t.blocked, username)
	delete(t.attempts, username)
	return false
}

// RecordFailedAttempt registers a failed login for the username. Failures
// older than the window are pruned first; if the pruned list plus this
// failure reaches the attempt limit, the username is blocked.
func (t *LoginAttemptTracker) RecordFailedAttempt(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := t.pruneLocked(username, now)
	recent = append(recent, now)
	t.attempts[username] = recent

	if len(recent) >= t.maxAttempts {
		t.blocked[username] = now.Add(t.blockFor)
	}
}

// RecordSuccessfulLogin clears the failure history and any block for the
// username. A successful authentication fully resets the throttle state.
func (t *LoginAttemptTracker) RecordSuccessfulLogin(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, username)
	delete(t.blocked, username)
}

// GetRemainingAttempts returns how many more failures the username can
// accumulate before being blocked. Unknown usernames get the full limit.
func (t *LoginAttemptTracker) GetRemainingAttempts(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	recent := t.pruneLocked(username, t.now())
	remaining := t.maxAttempts - len(recent)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetBlockTimeRemaining returns whole minutes until the username's block
// expires, or 0 if it is not blocked.
func (t *LoginAttemptTracker) GetBlockTimeRemaining(username string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	until, ok := t.blocked[username]
	if !ok {
		return 0
	}
	remaining := until.Sub(t.now())
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Minutes())
}

// pruneLocked drops failures outside the sliding window and stores the
// result. Callers must hold t.mu.
func (t *LoginAttemptTracker) pruneLocked(username string, now time.Time) []time.Time {
	history, ok := t.attempts[username]
	if !ok {
		return nil
	}
	recent := history[:0]
	for _, at := range history {
		if now.Sub(at) < t.window {
			recent = append(recent, at)
		}
	}
	if len(recent) == 0 {
		delete(t.attempts, username)
		return nil
	}
	t.attempts[username] = recent
	return recent
}
