package store

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"axora/internal/logger"
	"axora/pkg/axoratypes"
)

// Named configuration defaults. Tests inject a short retention window
// through Options instead of patching these.
const (
	// DefaultSessionsKey is the key the session blob is stored under.
	DefaultSessionsKey = "axora_enigma_sessions"

	// DefaultRetention is how long a session survives without modification
	// before list operations purge it.
	DefaultRetention = 10 * 24 * time.Hour
)

// Options configure a SessionStore. Zero values fall back to the defaults
// above and to time.Now.
type Options struct {
	Key       string
	Retention time.Duration
	Now       func() time.Time
}

// SessionStore persists an ordered collection of chat sessions in a single
// key-value blob and enforces the retention window on every read. All
// operations are total: storage failures are logged to the diagnostic
// channel and degrade to empty results, never errors.
//
// Every mutation re-derives from a freshly loaded, retention-filtered list
// rather than trusting in-memory state, so expired sessions never
// resurrect. A mutex serializes operations within the process; the store
// remains last-writer-wins across processes.
type SessionStore struct {
	mu        sync.Mutex
	backend   Backend
	key       string
	retention time.Duration
	now       func() time.Time
}

// NewSessionStore creates a store over the given backend.
func NewSessionStore(backend Backend, opts Options) *SessionStore {
	key := opts.Key
	if key == "" {
		key = DefaultSessionsKey
	}
	retention := opts.Retention
	if retention <= 0 {
		retention = DefaultRetention
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionStore{
		backend:   backend,
		key:       key,
		retention: retention,
		now:       now,
	}
}

// List returns all live sessions sorted by LastModified descending, ties
// keeping their persisted relative order. Sessions past the retention
// window are dropped and the compacted list is written back immediately.
func (s *SessionStore) List() []axoratypes.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Save stamps LastModified on the incoming session, replaces the stored
// entry with the same ID in place or inserts the session at the front, and
// returns the persisted list.
func (s *SessionStore) Save(session axoratypes.ChatSession) []axoratypes.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.listLocked()
	session.LastModified = s.now().UnixMilli()

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append([]axoratypes.ChatSession{session}, sessions...)
	}

	s.persist(sessions)
	logger.StoreOperation("save", "session", session.ID, "replaced", replaced, "total", len(sessions))
	return sessions
}

// Delete removes the session with the given ID and returns the remaining
// list. Deleting an unknown ID is a no-op, not an error.
func (s *SessionStore) Delete(id string) []axoratypes.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.listLocked()
	kept := sessions[:0]
	for _, session := range sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}

	s.persist(kept)
	logger.StoreOperation("delete", "session", id, "total", len(kept))
	return kept
}

// Find returns the live session with the given ID, if any.
func (s *SessionStore) Find(id string) (axoratypes.ChatSession, bool) {
	for _, session := range s.List() {
		if session.ID == id {
			return session, true
		}
	}
	return axoratypes.ChatSession{}, false
}

// Close closes the underlying backend.
func (s *SessionStore) Close() error {
	return s.backend.Close()
}

// listLocked loads, filters, self-compacts, and sorts. Callers hold s.mu.
func (s *SessionStore) listLocked() []axoratypes.ChatSession {
	sessions, dropped := s.loadFiltered()
	if dropped > 0 {
		// Write the compacted set through so expired sessions are gone from
		// persisted state too, not just from this result.
		s.persist(sessions)
		logger.StoreOperation("compact", "dropped", dropped, "remaining", len(sessions))
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastModified > sessions[j].LastModified
	})
	return sessions
}

// loadFiltered reads the persisted blob and drops sessions past the
// retention window. Read and parse failures degrade to an empty list.
func (s *SessionStore) loadFiltered() ([]axoratypes.ChatSession, int) {
	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		logger.Error("Failed to read session history", "key", s.key, "error", err)
		return nil, 0
	}
	if !ok {
		return nil, 0
	}

	var sessions []axoratypes.ChatSession
	if err := json.Unmarshal(raw, &sessions); err != nil {
		logger.Error("Corrupt session history treated as empty", "key", s.key, "error", err)
		return nil, 0
	}

	cutoff := s.now().UnixMilli() - s.retention.Milliseconds()
	kept := sessions[:0]
	dropped := 0
	for _, session := range sessions {
		if session.LastModified <= cutoff {
			dropped++
			continue
		}
		kept = append(kept, session)
	}
	return kept, dropped
}

// persist writes the full list back as one JSON array.
func (s *SessionStore) persist(sessions []axoratypes.ChatSession) {
	if sessions == nil {
		sessions = []axoratypes.ChatSession{}
	}
	raw, err := json.Marshal(sessions)
	if err != nil {
		logger.Error("Failed to encode session history", "error", err)
		return
	}
	if err := s.backend.Set(s.key, raw); err != nil {
		logger.Error("Failed to write session history", "key", s.key, "error", err)
	}
}
