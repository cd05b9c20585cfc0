package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/deckhand/internal/api"
	"github.com/five82/deckhand/internal/kv"
)

var alice = api.User{ID: "u1", Email: "alice@example.com", Username: "alice"}

// authAPI fakes the auth endpoints. Login stores the token pair the way the
// real client does.
func authAPI(store kv.Store) *fakeAPI {
	f := newFakeAPI()
	f.login = func(_ context.Context, in api.LoginRequest) (api.TokenResponse, error) {
		if in.Password != "secret" {
			return api.TokenResponse{}, &api.Error{Status: 401, Message: "Incorrect email or password"}
		}
		_ = store.Set(api.AccessTokenKey, "access")
		_ = store.Set(api.RefreshTokenKey, "refresh")
		return api.TokenResponse{AccessToken: "access", RefreshToken: "refresh", TokenType: "bearer"}, nil
	}
	f.register = func(_ context.Context, in api.RegisterRequest) (api.User, error) {
		return api.User{ID: "u2", Email: in.Email, Username: in.Username}, nil
	}
	f.me = func(context.Context) (api.User, error) { return alice, nil }
	f.logout = func(context.Context) error { return nil }
	return f
}

func seedTokens(t *testing.T, store kv.Store, access string) {
	t.Helper()
	require.NoError(t, store.Set(api.AccessTokenKey, access))
	require.NoError(t, store.Set(api.RefreshTokenKey, "refresh"))
}

func TestSession_StartsUninitialized(t *testing.T) {
	s := NewSession(newFakeAPI(), nil, nil)
	snap := s.Snapshot()

	assert.Equal(t, StateUninitialized, snap.State)
	assert.True(t, snap.IsLoading())
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, "uninitialized", snap.State.String())
}

func TestSession_InitializeWithoutTokenIsAnonymous(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	s := NewSession(f, store, nil)

	s.Initialize(context.Background())
	snap := s.Snapshot()

	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.False(t, snap.IsLoading())
	assert.Equal(t, 0, f.count("Me"))
}

func TestSession_InitializeWithValidToken(t *testing.T) {
	store := kv.NewMemory()
	seedTokens(t, store, "access")
	s := NewSession(authAPI(store), store, nil)

	s.Initialize(context.Background())
	snap := s.Snapshot()

	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "alice", snap.User.Username)
	assert.True(t, snap.IsAuthenticated())
}

func TestSession_InitializeWithInvalidTokenClearsTokens(t *testing.T) {
	store := kv.NewMemory()
	seedTokens(t, store, "expired")
	f := authAPI(store)
	f.me = func(context.Context) (api.User, error) {
		return api.User{}, &api.Error{Status: 401, Message: "Could not validate credentials"}
	}
	s := NewSession(f, store, nil)

	s.Initialize(context.Background())
	snap := s.Snapshot()

	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, store.Snapshot())
}

func TestSession_Login(t *testing.T) {
	store := kv.NewMemory()
	s := NewSession(authAPI(store), store, nil)
	s.Initialize(context.Background())

	require.NoError(t, s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "secret"}))
	snap := s.Snapshot()

	assert.Equal(t, StateAuthenticated, snap.State)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u1", snap.User.ID)
	v, ok := mustGet(store, api.AccessTokenKey)
	require.True(t, ok)
	assert.Equal(t, "access", v)
}

func TestSession_LoginRejected(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	s := NewSession(f, store, nil)
	s.Initialize(context.Background())

	err := s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "wrong"})

	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Equal(t, "Incorrect email or password", snap.Error)
	assert.Equal(t, 0, f.count("Me"))
}

func TestSession_LoginProfileFailureDiscardsTokens(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	f.me = func(context.Context) (api.User, error) { return api.User{}, errors.New("connection reset") }
	s := NewSession(f, store, nil)

	err := s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "secret"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch profile after login")
	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Empty(t, store.Snapshot())
}

func TestSession_RegisterLogsIn(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	var loginEmail string
	login := f.login
	f.login = func(ctx context.Context, in api.LoginRequest) (api.TokenResponse, error) {
		loginEmail = in.Email
		return login(ctx, in)
	}
	s := NewSession(f, store, nil)

	err := s.Register(context.Background(), api.RegisterRequest{Email: "bob@example.com", Username: "bob", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", loginEmail)
	assert.True(t, s.Snapshot().IsAuthenticated())
}

func TestSession_RegisterThenLoginFailure(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	f.login = func(context.Context, api.LoginRequest) (api.TokenResponse, error) {
		return api.TokenResponse{}, &api.Error{Status: 403, Message: "Account not verified"}
	}
	s := NewSession(f, store, nil)

	err := s.Register(context.Background(), api.RegisterRequest{Email: "bob@example.com", Username: "bob", Password: "secret"})

	require.Error(t, err)
	assert.Equal(t, 1, f.count("Register"))
	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Equal(t, "Account not verified", snap.Error)
}

func TestSession_RegisterFailureSkipsLogin(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	f.register = func(context.Context, api.RegisterRequest) (api.User, error) {
		return api.User{}, &api.Error{Status: 400, Message: "Email already registered"}
	}
	s := NewSession(f, store, nil)

	err := s.Register(context.Background(), api.RegisterRequest{Email: alice.Email, Password: "secret"})

	require.Error(t, err)
	assert.Equal(t, 0, f.count("Login"))
	assert.Equal(t, "Email already registered", s.Snapshot().Error)
}

func TestSession_Logout(t *testing.T) {
	store := kv.NewMemory()
	s := NewSession(authAPI(store), store, nil)
	require.NoError(t, s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "secret"}))

	require.NoError(t, s.Logout(context.Background()))
	snap := s.Snapshot()

	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, store.Snapshot())
}

func TestSession_LogoutClearsLocallyWhenRemoteFails(t *testing.T) {
	store := kv.NewMemory()
	f := authAPI(store)
	f.logout = func(context.Context) error { return errors.New("offline") }
	s := NewSession(f, store, nil)
	require.NoError(t, s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "secret"}))

	err := s.Logout(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote logout")
	snap := s.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.User)
	assert.Empty(t, store.Snapshot())
}

func TestSession_LogoutDropsInFlightProfile(t *testing.T) {
	store := kv.NewMemory()
	seedTokens(t, store, "access")
	started := make(chan struct{})
	release := make(chan struct{})
	f := authAPI(store)
	f.me = func(context.Context) (api.User, error) {
		close(started)
		<-release
		return alice, nil
	}
	s := NewSession(f, store, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Initialize(context.Background())
	}()
	<-started
	require.NoError(t, s.Logout(context.Background()))
	close(release)
	<-done

	assert.Nil(t, s.Snapshot().User)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
}

func TestSession_AccessExpiry(t *testing.T) {
	store := kv.NewMemory()
	s := NewSession(newFakeAPI(), store, nil)

	_, ok := s.AccessExpiry()
	assert.False(t, ok)

	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	require.NoError(t, store.Set(api.AccessTokenKey, token))

	got, ok := s.AccessExpiry()
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	require.NoError(t, store.Set(api.AccessTokenKey, "not-a-jwt"))
	_, ok = s.AccessExpiry()
	assert.False(t, ok)
}

func TestSession_LogoutDuringLoginRemovesIssuedTokens(t *testing.T) {
	store := kv.NewMemory()
	started := make(chan struct{})
	release := make(chan struct{})
	f := authAPI(store)
	f.me = func(context.Context) (api.User, error) {
		close(started)
		<-release
		return alice, nil
	}
	s := NewSession(f, store, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.Login(context.Background(), api.LoginRequest{Email: alice.Email, Password: "secret"})
	}()
	<-started
	require.NoError(t, s.Logout(context.Background()))
	// Simulates a login response that persisted tokens after logout cleared them.
	seedTokens(t, store, "access")
	close(release)

	assert.ErrorIs(t, <-done, ErrLoginInterrupted)
	assert.Nil(t, s.Snapshot().User)
	assert.Equal(t, StateAnonymous, s.Snapshot().State)
	_, ok := mustGet(store, api.AccessTokenKey)
	assert.False(t, ok)
	_, ok = mustGet(store, api.RefreshTokenKey)
	assert.False(t, ok)
}
