package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/kv"
	"github.com/five82/deckhand/internal/logging"
)

// AuthState is where the session sits in its lifecycle.
type AuthState int

const (
	StateUninitialized AuthState = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s AuthState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("AuthState(%d)", int(s))
	}
}

// SessionSnapshot is a copy of the session's state.
type SessionSnapshot struct {
	State AuthState
	User  *api.User
	Error string
}

// IsAuthenticated reports whether a user profile is loaded.
func (s SessionSnapshot) IsAuthenticated() bool {
	return s.User != nil
}

// IsLoading reports whether Initialize has not settled yet.
func (s SessionSnapshot) IsLoading() bool {
	return s.State == StateUninitialized || s.State == StateLoading
}

// Session tracks the authenticated user. Tokens live in the kv store; the
// API client writes them on login.
type Session struct {
	api   AuthAPI
	store kv.Store
	log   *logrus.Entry

	mu    sync.RWMutex
	state AuthState
	user  *api.User
	err   string
	epoch uint64
}

// NewSession builds an uninitialized session. store may be nil, in which
// case Initialize always ends anonymous.
func NewSession(client AuthAPI, store kv.Store, log *logrus.Entry) *Session {
	if log == nil {
		log = logging.Discard()
	}
	return &Session{api: client, store: store, log: log}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SessionSnapshot{State: s.state, Error: s.err}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	return snap
}

// Initialize restores the session from a persisted access token. Without
// one the session becomes anonymous; with one whose profile fetch fails, both
// tokens are discarded and the session becomes anonymous.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	s.state = StateLoading
	epoch := s.epoch
	s.mu.Unlock()

	if s.accessToken() == "" {
		s.settle(epoch, nil, "")
		return
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.WithError(err).Info("stored token rejected, signing out")
		s.clearTokens()
		s.settle(epoch, nil, "")
		return
	}
	s.settle(epoch, &user, "")
}

// Login authenticates and loads the profile. The session becomes
// authenticated only after both succeed. When the profile fetch fails the
// freshly issued tokens are discarded and the login counts as failed.
func (s *Session) Login(ctx context.Context, in api.LoginRequest) error {
	epoch := s.currentEpoch()

	if _, err := s.api.Login(ctx, in); err != nil {
		s.recordError(epoch, errorMessage(err, "Login failed"))
		return err
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.clearTokens()
		s.settle(epoch, nil, errorMessage(err, "Failed to load profile"))
		return fmt.Errorf("fetch profile after login: %w", err)
	}
	if !s.settle(epoch, &user, "") {
		s.clearTokens()
		return ErrLoginInterrupted
	}
	s.log.WithField("user", user.Username).Info("signed in")
	return nil
}

// Register creates an account and then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, in api.RegisterRequest) error {
	epoch := s.currentEpoch()

	if _, err := s.api.Register(ctx, in); err != nil {
		s.recordError(epoch, errorMessage(err, "Registration failed"))
		return err
	}
	return s.Login(ctx, api.LoginRequest{Email: in.Email, Password: in.Password})
}

// Logout invalidates the session remotely and always clears it locally. A
// remote failure is returned after the local state is gone.
func (s *Session) Logout(ctx context.Context) error {
	remoteErr := s.api.Logout(ctx)
	s.clearTokens()

	s.mu.Lock()
	s.epoch++
	s.user = nil
	s.state = StateAnonymous
	s.err = ""
	s.mu.Unlock()

	if remoteErr != nil {
		s.log.WithError(remoteErr).Warn("remote logout failed; local session cleared")
		return fmt.Errorf("remote logout: %w", remoteErr)
	}
	return nil
}

// AccessExpiry reads the exp claim of the stored access token. The token is
// not verified; the server remains the authority.
func (s *Session) AccessExpiry() (time.Time, bool) {
	token := s.accessToken()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		s.log.WithError(err).Debug("access token is not a parseable JWT")
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// settle applies a result unless Logout ran since epoch was taken. It
// reports whether the result was applied.
func (s *Session) settle(epoch uint64, user *api.User, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.user = user
	s.err = msg
	if user != nil {
		s.state = StateAuthenticated
	} else {
		s.state = StateAnonymous
	}
	return true
}

func (s *Session) recordError(epoch uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.err = msg
	}
}

func (s *Session) currentEpoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

func (s *Session) accessToken() string {
	if s.store == nil {
		return ""
	}
	token, err := s.store.Get(api.AccessTokenKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.log.WithError(err).Warn("read access token failed")
		}
		return ""
	}
	return strings.TrimSpace(token)
}

func (s *Session) clearTokens() {
	if s.store == nil {
		return
	}
	for _, key := range []string{api.AccessTokenKey, api.RefreshTokenKey} {
		if err := s.store.Remove(key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("remove token failed")
		}
	}
}
