package auth

import (
	"sync"
	"time"
)

// Revocations remembers the jti of every logged-out token until the token
// would have expired anyway.
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocations() *Revocations {
	return &Revocations{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke marks jti as unusable until expiresAt.
func (r *Revocations) Revoke(jti string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purge()
	r.revoked[jti] = expiresAt
}

// IsRevoked reports whether jti has been revoked and has not expired yet.
func (r *Revocations) IsRevoked(jti string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[jti]
	return ok && r.now().Before(exp)
}

// Len returns the number of tracked entries, expired ones included.
func (r *Revocations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.revoked)
}

// purge drops expired entries. Callers hold mu.
func (r *Revocations) purge() {
	now := r.now()
	for jti, exp := range r.revoked {
		if !now.Before(exp) {
			delete(r.revoked, jti)
		}
	}
}
