package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"pricing_services/internal/dispatch"
	"pricing_services/internal/sheets"
	"pricing_services/internal/view"
)

// session is one authenticated upload: its own gateway client and its own
// freshly fetched view. Views are never shared across sessions, and
// mutations never touch them; reload replaces the snapshot wholesale.
type session struct {
	id         string
	gw         sheets.Gateway
	dispatcher *dispatch.Dispatcher

	mu       sync.RWMutex
	entries  []view.Entry
	lastUsed time.Time
}

func (s *session) getEntries() []view.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

func (s *session) setEntries(entries []view.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

func (st *sessionStore) add(gw sheets.Gateway, d *dispatch.Dispatcher, entries []view.Entry) *session {
	sess := &session{
		id:         uuid.NewString(),
		gw:         gw,
		dispatcher: d,
		entries:    entries,
		lastUsed:   time.Now(),
	}
	st.mu.Lock()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

// get returns the session and refreshes its idle timer. Expired sessions are
// dropped lazily here; there is no background sweeper.
func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(sess.lastUsed) > st.ttl {
		delete(st.sessions, id)
		return nil, false
	}
	sess.lastUsed = time.Now()
	return sess, true
}
