package auth

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func loginOK(username string) LoginFunc {
	return func(ctx context.Context, u, p string) (TokenPair, error) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			UserID:   1,
			Username: username,
		}).SignedString([]byte("secret"))
		if err != nil {
			return TokenPair{}, err
		}
		return TokenPair{Access: tok, Refresh: "refresh-" + username}, nil
	}
}

func loginFail() LoginFunc {
	return func(ctx context.Context, u, p string) (TokenPair, error) {
		return TokenPair{}, errors.New("401 unauthorized")
	}
}

func TestSession_StartsAnonymousWithEmptyStore(t *testing.T) {
	s := NewSession(tempStore(t), loginFail())
	snap := s.Current()
	if snap.State != StateAnonymous || snap.IsLoggedIn || snap.User != nil {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSession_RestoresFromStoredToken(t *testing.T) {
	store := tempStore(t)
	pair, err := loginOK("restored")(context.Background(), "restored", "pw")
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := store.SetTokens(pair.Access, pair.Refresh); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	s := NewSession(store, loginFail())
	snap := s.Current()
	if !snap.IsLoggedIn || snap.User == nil || snap.User.Username != "restored" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSession_UndecodableStoredTokenIsAnonymous(t *testing.T) {
	store := tempStore(t)
	if err := store.SetTokens("not-a-jwt", "ref"); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	s := NewSession(store, loginFail())
	if s.Current().State != StateAnonymous {
		t.Fatalf("malformed token must read as anonymous")
	}
}

func TestSession_LoginSuccess(t *testing.T) {
	store := tempStore(t)
	s := NewSession(store, loginOK("valid_user"))

	if ok := s.Login(context.Background(), "valid_user", "valid_pass"); !ok {
		t.Fatalf("expected login success")
	}
	snap := s.Current()
	if !snap.IsLoggedIn || snap.User == nil || snap.User.Username != "valid_user" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	acc, _ := store.AccessToken()
	ref, _ := store.RefreshToken()
	if acc == "" || ref == "" {
		t.Fatalf("expected persisted token pair, got %q / %q", acc, ref)
	}
}

func TestSession_LoginFailureLeavesStateUnchanged(t *testing.T) {
	store := tempStore(t)
	s := NewSession(store, loginFail())

	if ok := s.Login(context.Background(), "bad_user", "bad_pass"); ok {
		t.Fatalf("expected login failure")
	}
	if s.Current().IsLoggedIn {
		t.Fatalf("failed login must not authenticate")
	}
	acc, _ := store.AccessToken()
	if acc != "" {
		t.Fatalf("failed login must not persist tokens, got %q", acc)
	}
}

func TestSession_LogoutIsIdempotent(t *testing.T) {
	store := tempStore(t)
	s := NewSession(store, loginOK("u"))
	if ok := s.Login(context.Background(), "u", "p"); !ok {
		t.Fatalf("login")
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := s.Logout(); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if s.Current().IsLoggedIn {
		t.Fatalf("expected anonymous after logout")
	}
	acc, _ := store.AccessToken()
	if acc != "" {
		t.Fatalf("expected cleared store, got %q", acc)
	}
}

// A slow first attempt settling after a faster second attempt must not
// clobber the newer result.
func TestSession_StaleLoginCannotClobberNewer(t *testing.T) {
	store := tempStore(t)

	release := make(chan struct{})
	var calls atomic.Int32
	login := func(ctx context.Context, u, p string) (TokenPair, error) {
		if calls.Add(1) == 1 {
			<-release // first attempt stalls until told otherwise
			return loginOK("stale")(ctx, u, p)
		}
		return loginOK("fresh")(ctx, u, p)
	}

	s := NewSession(store, login)

	done := make(chan bool, 1)
	go func() { done <- s.Login(context.Background(), "stale", "pw") }()

	// Wait for the first attempt to be in flight, then let a second one win.
	for i := 0; calls.Load() == 0 && i < 100; i++ {
		time.Sleep(time.Millisecond)
	}
	if ok := s.Login(context.Background(), "fresh", "pw"); !ok {
		t.Fatalf("second login should succeed")
	}

	close(release)
	if ok := <-done; ok {
		t.Fatalf("stale attempt must report failure")
	}

	snap := s.Current()
	if snap.User == nil || snap.User.Username != "fresh" {
		t.Fatalf("stale attempt clobbered newer login: %+v", snap.User)
	}
}

func TestDefaultStorePathUnderConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	p, err := DefaultStorePath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if filepath.Base(p) != "tokens.json" {
		t.Fatalf("unexpected path %q", p)
	}
}
