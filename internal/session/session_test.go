// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is an in-memory identity backend.
type fakeProvider struct {
	mu        sync.Mutex
	users     map[string]string
	ttl       time.Duration
	refreshes int
	refreshFn func() (*Credentials, error)
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{users: map[string]string{"a@b.com": "secret"}, ttl: time.Hour}
}

func (f *fakeProvider) creds(email string) *Credentials {
	return &Credentials{
		UID:          "uid-" + email,
		Email:        email,
		IDToken:      "token-" + email,
		RefreshToken: "refresh-" + email,
		ExpiresAt:    time.Now().Add(f.ttl),
	}
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[email]; !ok || pw != password {
		return nil, &ProviderError{Op: "sign-in", Code: "INVALID_LOGIN_CREDENTIALS", StatusCode: 400}
	}
	return f.creds(email), nil
}

func (f *fakeProvider) SignUp(_ context.Context, email, password string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return nil, &ProviderError{Op: "sign-up", Code: "EMAIL_EXISTS", StatusCode: 400}
	}
	f.users[email] = password
	return f.creds(email), nil
}

func (f *fakeProvider) SignInWithIdP(_ context.Context, providerID, credential string) (*Credentials, error) {
	return f.creds(credential + "@" + providerID), nil
}

func (f *fakeProvider) Refresh(_ context.Context, _ string) (*Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.refreshFn != nil {
		return f.refreshFn()
	}
	return &Credentials{IDToken: "refreshed", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// =============================================================================
// SIGN IN / OUT TESTS
// =============================================================================

func TestSession_TokenWithoutUser(t *testing.T) {
	s := New(newFakeProvider())

	_, ok := s.CurrentUser()
	assert.False(t, ok)

	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestSession_SignInAndToken(t *testing.T) {
	s := New(newFakeProvider())
	require.NoError(t, s.SignIn(context.Background(), " a@b.com ", "secret"))

	id, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "a@b.com", id.Email)

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-a@b.com", token)

	s.SignOut()
	assert.False(t, s.SignedIn())
	s.SignOut()
}

func TestSession_SignInFailure(t *testing.T) {
	s := New(newFakeProvider())
	err := s.SignIn(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.False(t, s.SignedIn())
}

func TestSession_SignUpSignsOut(t *testing.T) {
	s := New(newFakeProvider())

	var events []bool
	unsubscribe := s.Subscribe(func(_ Identity, signedIn bool) {
		events = append(events, signedIn)
	})
	defer unsubscribe()

	id, err := s.SignUp(context.Background(), "new@b.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", id.Email)
	assert.False(t, s.SignedIn(), "sign-up must leave the session signed out")
	assert.Equal(t, []bool{true, false}, events)

	_, err = s.SignUp(context.Background(), "new@b.com", "again")
	assert.True(t, IsProviderCode(err, "EMAIL_EXISTS"))
}

func TestSession_SignInWithIdP(t *testing.T) {
	s := New(newFakeProvider())
	require.NoError(t, s.SignInWithIdP(context.Background(), "google.com", "g-user"))
	id, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "g-user@google.com", id.Email)
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestSession_Unsubscribe(t *testing.T) {
	s := New(newFakeProvider())
	calls := 0
	unsubscribe := s.Subscribe(func(Identity, bool) { calls++ })

	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))
	assert.Equal(t, 1, calls)

	unsubscribe()
	unsubscribe()
	s.SignOut()
	assert.Equal(t, 1, calls)
}

func TestSession_SubscribeDoesNotReplay(t *testing.T) {
	s := New(newFakeProvider())
	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))

	calls := 0
	defer s.Subscribe(func(Identity, bool) { calls++ })()
	assert.Equal(t, 0, calls)
}

// =============================================================================
// REFRESH TESTS
// =============================================================================

func TestSession_RefreshesNearExpiry(t *testing.T) {
	p := newFakeProvider()
	p.ttl = time.Minute
	s := New(p).WithRefreshSkew(2 * time.Minute)
	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refreshed", token)
	assert.Equal(t, 1, p.refreshes)

	// Fresh now; no second refresh.
	_, err = s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.refreshes)

	id, _ := s.CurrentUser()
	assert.Equal(t, "a@b.com", id.Email, "identity survives refresh")
}

func TestSession_RevokedRefreshSignsOut(t *testing.T) {
	p := newFakeProvider()
	p.ttl = 0
	p.refreshFn = func() (*Credentials, error) {
		return nil, &ProviderError{Op: "refresh", Code: "TOKEN_EXPIRED", StatusCode: 400}
	}
	s := New(p)
	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))

	_, err := s.Token(context.Background())
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "TOKEN_EXPIRED", pe.Code)
	assert.False(t, s.SignedIn())
}

func TestSession_TransientRefreshFailureKeepsUser(t *testing.T) {
	p := newFakeProvider()
	p.ttl = 0
	p.refreshFn = func() (*Credentials, error) {
		return nil, &ProviderError{Op: "refresh", Cause: errors.New("dial tcp: refused")}
	}
	s := New(p)
	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))

	_, err := s.Token(context.Background())
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Zero(t, pe.StatusCode)
	assert.True(t, s.SignedIn())
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any-key"))
	require.NoError(t, err)

	assert.True(t, TokenExpiry(token).Equal(exp))
	assert.True(t, TokenExpiry("not-a-jwt").IsZero())
}

// =============================================================================
// BUBBLE TEA TESTS
// =============================================================================

func TestWatch_DeliversAuthChanges(t *testing.T) {
	s := New(newFakeProvider())
	w := NewWatch(s)
	defer w.Close()

	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))
	msg := w.Next()()
	changed, ok := msg.(AuthChangedMsg)
	require.True(t, ok)
	assert.True(t, changed.SignedIn)
	assert.Equal(t, "a@b.com", changed.User.Email)

	s.SignOut()
	changed = w.Next()().(AuthChangedMsg)
	assert.False(t, changed.SignedIn)
}

func TestWatch_CloseUnblocksNext(t *testing.T) {
	w := NewWatch(New(newFakeProvider()))
	w.Close()
	w.Close()
	assert.Nil(t, w.Next()())
}
