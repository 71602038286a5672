// Package session keeps the per-chat state the bot consults while building replies.
// Sessions live in memory only and reset on restart.
package session

import (
	"sync"
	"sync/atomic"
)

// Session is the state of one conversation. It is safe for concurrent use.
type Session struct {
	screaming atomic.Bool
}

// Scream turns screaming mode on.
func (s *Session) Scream() { s.screaming.Store(true) }

// Whisper turns screaming mode off.
func (s *Session) Whisper() { s.screaming.Store(false) }

// Screaming reports whether replies should be upper-cased.
func (s *Session) Screaming() bool { return s.screaming.Load() }

// Store hands out sessions keyed by chat ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	shared   *Session
}

// Options configures a Store.
type Options struct {
	// Shared makes every chat use the same session.
	Shared bool
}

// NewStore returns an empty in-memory store.
func NewStore(opts Options) *Store {
	st := &Store{sessions: make(map[int64]*Session)}
	if opts.Shared {
		st.shared = &Session{}
	}
	return st
}

// Get returns the session for chatID, creating it on first use.
func (st *Store) Get(chatID int64) *Session {
	if st.shared != nil {
		return st.shared
	}

	st.mu.RLock()
	s, ok := st.sessions[chatID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[chatID]; ok {
		return s
	}
	s = &Session{}
	st.sessions[chatID] = s
	return s
}

// Len reports how many chat sessions exist.
func (st *Store) Len() int {
	if st.shared != nil {
		return 1
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
