package pubsub

import "github.com/cuemby/pubsubcore/pkg/metrics"

// withLock is the manager's single mutating entry point (§5): acquire the
// write lock, run fn, release. Grounded on the teacher's Manager.Apply,
// generalized from submitting a command through Raft to a plain critical
// section, since this core carries no distributed-consensus requirement
// (see DESIGN.md for the dropped-raft justification).
func withLock[T any](m *Manager, operation string, fn func() (T, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ManagerOperationDuration, operation)
	return fn()
}

// withRLock is the read-only counterpart, used by the find*/list operations
// that only need to observe manager state.
func withRLock[T any](m *Manager, operation string, fn func() T) T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	timer := metrics.NewTimer()
	defer timer.ObserveDurationVec(metrics.ManagerOperationDuration, operation)
	return fn()
}
