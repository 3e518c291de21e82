package auth

import (
	"context"
	"sync"

	"marketplace-client/pkg/logger"
)

// State is the session lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateAnonymous     State = "anonymous"
	StateAuthenticated State = "authenticated"
)

// TokenPair is the credential pair returned by the remote login endpoint.
type TokenPair struct {
	Access  string
	Refresh string
}

// LoginFunc performs the remote credential exchange. The API client provides
// the real implementation; tests substitute their own.
type LoginFunc func(ctx context.Context, username, password string) (TokenPair, error)

// Session owns the authenticated-user state for the process. It is the single
// writer of the token store and of the derived user identity; every other
// component reads snapshots. Construction performs the one-time
// uninitialized -> loading -> {anonymous|authenticated} transition from
// whatever the store holds.
type Session struct {
	store *Store
	login LoginFunc

	mu    sync.Mutex
	state State
	user  *Claims

	// Login attempts are sequence-tagged so a stale in-flight attempt can
	// never clobber the outcome of a newer one.
	attempts    uint64
	lastApplied uint64
}

func NewSession(store *Store, login LoginFunc) *Session {
	s := &Session{store: store, login: login, state: StateLoading}
	s.init()
	return s
}

func (s *Session) init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.store.AccessToken()
	if err != nil || tok == "" {
		// Storage trouble reads as logged out; the store surfaces the error
		// again on the next write.
		s.state = StateAnonymous
		return
	}
	if c := Decode(tok); c != nil {
		s.user = c
		s.state = StateAuthenticated
		return
	}
	s.state = StateAnonymous
}

// Snapshot is a read-only view of the session. User is a copy; mutations to
// it never reach the session.
type Snapshot struct {
	State      State
	IsLoggedIn bool
	User       *Claims
}

func (s *Session) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state, IsLoggedIn: s.state == StateAuthenticated}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Login exchanges credentials for a token pair. On success it persists both
// tokens, derives the user from the access token, and transitions to
// authenticated. On any failure (network, non-2xx, missing access token) it
// reports false and leaves the session untouched. The most recently settled
// attempt wins; results from attempts older than one already applied are
// discarded.
func (s *Session) Login(ctx context.Context, username, password string) bool {
	s.mu.Lock()
	if s.state == StateAuthenticated {
		s.mu.Unlock()
		return false
	}
	s.attempts++
	seq := s.attempts
	s.mu.Unlock()

	pair, err := s.login(ctx, username, password)
	if err != nil {
		logger.From(ctx).Debug("login rejected", "username", username, "err", err)
		return false
	}
	if pair.Access == "" {
		logger.From(ctx).Debug("login response missing access token", "username", username)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.lastApplied {
		// A newer attempt settled first.
		return false
	}
	if err := s.store.SetTokens(pair.Access, pair.Refresh); err != nil {
		logger.From(ctx).Error("persist tokens failed", "err", err)
		return false
	}
	s.lastApplied = seq
	s.user = Decode(pair.Access)
	s.state = StateAuthenticated
	return true
}

// Logout clears the token store and returns to anonymous. It is idempotent
// and makes no network call; server-side invalidation, if any, is not this
// client's concern. Any login attempt still in flight is invalidated.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return err
	}
	s.user = nil
	s.state = StateAnonymous
	s.lastApplied = s.attempts
	return nil
}
