package memory

import (
	"sync"

	"github.com/Sanjoy-Chattopadhay/researchagent/core"
)

// Store persists per-session turn history.
//
// Contract:
//   - Append is O(1) amortized; a session is created on first append
//   - Context returns the most recent maxTurns turns in chronological order,
//     fewer when the history is shorter; never an error on short history
//   - Clear atomically empties one session's history
//   - An unknown session on Context/Clear behaves as an empty session
type Store interface {
	Append(sessionID string, turn core.Turn)
	Context(sessionID string, maxTurns int) []core.Turn
	History(sessionID string) []core.Turn
	Clear(sessionID string)
}

// InMemoryStore is a volatile Store keeping turn logs in a process-local map.
// Mutations on distinct sessions do not contend: the store-level lock is held
// only to resolve the per-session bucket, whose own mutex guards the slice.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionLog
}

type sessionLog struct {
	mu    sync.RWMutex
	turns []core.Turn
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*sessionLog)}
}

func (s *InMemoryStore) session(sessionID string, create bool) *sessionLog {
	s.mu.RLock()
	log, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok || !create {
		return log
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if log, ok = s.sessions[sessionID]; ok {
		return log
	}
	log = &sessionLog{}
	s.sessions[sessionID] = log
	return log
}

// Append adds a completed turn to the session's history, creating the
// session lazily. The stored turn is a deep copy so callers cannot mutate
// history after the fact.
func (s *InMemoryStore) Append(sessionID string, turn core.Turn) {
	log := s.session(sessionID, true)
	log.mu.Lock()
	defer log.mu.Unlock()
	log.turns = append(log.turns, turn.Clone())
}

// Context returns up to maxTurns most recent turns in chronological order.
func (s *InMemoryStore) Context(sessionID string, maxTurns int) []core.Turn {
	if maxTurns <= 0 {
		return nil
	}
	log := s.session(sessionID, false)
	if log == nil {
		return nil
	}

	log.mu.RLock()
	defer log.mu.RUnlock()
	start := 0
	if len(log.turns) > maxTurns {
		start = len(log.turns) - maxTurns
	}
	return cloneTurns(log.turns[start:])
}

// History returns the session's full turn history in chronological order.
func (s *InMemoryStore) History(sessionID string) []core.Turn {
	log := s.session(sessionID, false)
	if log == nil {
		return nil
	}
	log.mu.RLock()
	defer log.mu.RUnlock()
	return cloneTurns(log.turns)
}

// Clear atomically empties the session's history. Clearing an unknown
// session is a no-op.
func (s *InMemoryStore) Clear(sessionID string) {
	log := s.session(sessionID, false)
	if log == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	log.turns = nil
}

func cloneTurns(turns []core.Turn) []core.Turn {
	out := make([]core.Turn, len(turns))
	for i, t := range turns {
		out[i] = t.Clone()
	}
	return out
}
