// internal/session/session.go
package session

import "sync"

// Phase is where a user currently is in the dialogue. A user has
// exactly one phase, so an open creation dialogue and a pending
// complete/delete action can never coexist.
type Phase int

const (
	Idle Phase = iota
	CollectingText
	CollectingPriority
	CollectingReminder
	AwaitingComplete
	AwaitingDelete
)

// Draft holds the partially built task while the creation dialogue is
// open. It lives and dies with the dialogue and is never persisted.
type Draft struct {
	Text     string
	Priority string
}

// State is one user's dialogue record.
type State struct {
	Phase Phase
	Draft Draft
}

// Manager keeps per-user dialogue state. Updates for different users
// may be handled concurrently, so access goes through a mutex.
type Manager struct {
	mu     sync.Mutex
	states map[int64]State
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

// Get returns the user's current state; unknown users are Idle.
func (m *Manager) Get(userID int64) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[userID]
}

// Set replaces the user's state wholesale. Starting a new dialogue goes
// through here too, which is what discards any previous draft.
func (m *Manager) Set(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
}

// Reset returns the user to Idle and drops the draft.
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}
