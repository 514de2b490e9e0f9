package project

import "sync"

// lockRegistry serializes lifecycle commands per project. Rapid
// start/stop/delete clicks on the same project queue up instead of
// racing; different projects proceed independently.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for projectID and returns its unlock func
func (r *lockRegistry) acquire(projectID string) func() {
	r.mu.Lock()
	lock, ok := r.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[projectID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
