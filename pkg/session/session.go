// Package session tracks which OPC UA session ids are currently live, so
// the reserve allocator's liveness sweep (§4.5 step 1) can tell a
// reservation owned by a session that has since disconnected from one that
// is still around.
//
// Adapted from the teacher's TokenManager (pkg/manager/token.go):
// map + sync.RWMutex, generate/validate/revoke/list shape, repurposed from
// join-token issuance to admin-session-id plus active-session-id
// bookkeeping.
package session

import (
	"sync"
	"time"
)

// Registry tracks the host server's admin session and its currently active
// sessions. A ReserveId is considered live if its owning session is either
// the admin session or present here.
type Registry struct {
	mu             sync.RWMutex
	adminSessionID string
	active         map[string]time.Time
}

// NewRegistry returns an empty registry with no admin session set.
func NewRegistry() *Registry {
	return &Registry{active: make(map[string]time.Time)}
}

// SetAdminSession designates the session id that is always considered
// live, regardless of whether it appears in the active set.
func (r *Registry) SetAdminSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adminSessionID = sessionID
}

// AdminSessionID returns the current admin session id, or "" if unset.
func (r *Registry) AdminSessionID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adminSessionID
}

// Activate marks sessionID as live, recording the activation time.
func (r *Registry) Activate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[sessionID] = time.Now()
}

// Deactivate removes sessionID from the active set. Safe to call on a
// session that was never activated or already removed.
func (r *Registry) Deactivate(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, sessionID)
}

// IsLive reports whether sessionID is the admin session or currently
// active. An empty sessionID is never live.
func (r *Registry) IsLive(sessionID string) bool {
	if sessionID == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sessionID == r.adminSessionID {
		return true
	}
	_, ok := r.active[sessionID]
	return ok
}

// ActiveSessionIDs returns a snapshot of the currently active session ids,
// not including the admin session unless it was also separately activated.
func (r *Registry) ActiveSessionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.active))
	for id := range r.active {
		ids = append(ids, id)
	}
	return ids
}
