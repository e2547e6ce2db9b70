package session

import (
	"sync"
	"time"

	"github.com/makialabs/makia-oracle/backend/internal/model/conversation"
)

// Store owns the process-wide sessionId -> session mapping. Sessions are
// explicitly ephemeral: the map starts empty on every process start and is
// pruned by the expiry sweep.
//
// A single mutex guards the whole map. Appends are short and allocation-light,
// so per-session locking buys nothing at this scale; whole-map granularity
// also makes append and sweep mutually exclusive, which the sum invariant
// relies on.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*conversation.Session
}

// NewStore bootstraps an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*conversation.Session)}
}

// GetOrCreate returns a snapshot of the session for sessionID, creating an
// empty one bound to profileID if absent. Idempotent.
func (s *Store) GetOrCreate(sessionID, profileID string) conversation.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &conversation.Session{
			ID:        sessionID,
			ProfileID: profileID,
			Turns:     make([]conversation.Turn, 0, 8),
			CreatedAt: time.Now().UTC(),
		}
		s.sessions[sessionID] = sess
	}
	return snapshot(sess)
}

// AppendTurn appends a completed turn and adds its points to the running
// total. Appending to an empty or unknown session identifier is a silent
// no-op: sessionless turns are valid and simply untracked.
func (s *Store) AppendTurn(sessionID string, turn conversation.Turn) {
	if sessionID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}

	sess.Turns = append(sess.Turns, turn)
	sess.TotalPoints += turn.Points
}

// Get returns a snapshot of the session if present.
func (s *Store) Get(sessionID string) (conversation.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return conversation.Session{}, false
	}
	return snapshot(sess), true
}

// SweepExpired removes every session whose most recent activity is older
// than now-ttl and reports how many were dropped.
func (s *Store) SweepExpired(now time.Time, ttl time.Duration) int {
	cutoff := now.Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// snapshot copies a session so callers never share the store's backing slice.
func snapshot(sess *conversation.Session) conversation.Session {
	copied := *sess
	copied.Turns = make([]conversation.Turn, len(sess.Turns))
	copy(copied.Turns, sess.Turns)
	return copied
}
