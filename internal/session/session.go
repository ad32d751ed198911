// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultRefreshSkew refreshes tokens this long before they expire.
const DefaultRefreshSkew = 2 * time.Minute

// =============================================================================
// TYPES
// =============================================================================

// Identity is the public view of a signed-in user.
type Identity struct {
	UID   string
	Email string
}

// Credentials are what a Provider returns on sign-in or refresh.
type Credentials struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider is an identity backend.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Credentials, error)
	SignUp(ctx context.Context, email, password string) (*Credentials, error)
	// SignInWithIdP exchanges a federated credential (e.g. a Google ID token).
	SignInWithIdP(ctx context.Context, providerID, credential string) (*Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (*Credentials, error)
}

// Listener is notified after every sign-in and sign-out.
// signedIn is false after sign-out, in which case id is the departed user.
type Listener func(id Identity, signedIn bool)

// =============================================================================
// SESSION
// =============================================================================

// Session holds the current user for the lifetime of the process.
type Session struct {
	mu       sync.Mutex
	provider Provider
	creds    *Credentials
	skew     time.Duration
	now      func() time.Time

	listeners map[int]Listener
	nextID    int
}

// New creates a signed-out session backed by provider.
func New(provider Provider) *Session {
	return &Session{
		provider:  provider,
		skew:      DefaultRefreshSkew,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// WithClock overrides the time source. Used by tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// WithRefreshSkew sets how early tokens are refreshed.
func (s *Session) WithRefreshSkew(d time.Duration) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skew = d
	return s
}

// CurrentUser returns the signed-in user, if any.
func (s *Session) CurrentUser() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return Identity{}, false
	}
	return Identity{UID: s.creds.UID, Email: s.creds.Email}, true
}

// SignedIn reports whether a user is present.
func (s *Session) SignedIn() bool {
	_, ok := s.CurrentUser()
	return ok
}

// Token returns a bearer token for the current user, refreshing it first
// when it expires within the refresh skew.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.creds == nil {
		s.mu.Unlock()
		return "", ErrNoUser
	}
	creds := *s.creds
	fresh := creds.ExpiresAt.IsZero() || s.now().Add(s.skew).Before(creds.ExpiresAt)
	s.mu.Unlock()

	if fresh || creds.RefreshToken == "" {
		return creds.IDToken, nil
	}

	refreshed, err := s.provider.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) && pe.StatusCode >= 400 && pe.StatusCode < 500 {
			// The refresh token was revoked; the session is over.
			s.clear(creds.UID)
		}
		return "", err
	}

	s.mu.Lock()
	if s.creds == nil || s.creds.UID != creds.UID {
		// Signed out or switched user while refreshing.
		s.mu.Unlock()
		return "", ErrNoUser
	}
	if refreshed.UID == "" {
		refreshed.UID = creds.UID
	}
	if refreshed.Email == "" {
		refreshed.Email = creds.Email
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = creds.RefreshToken
	}
	s.creds = refreshed
	s.mu.Unlock()
	return refreshed.IDToken, nil
}

// SignIn authenticates with email and password.
func (s *Session) SignIn(ctx context.Context, email, password string) error {
	creds, err := s.provider.SignIn(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return err
	}
	s.set(creds)
	return nil
}

// SignInWithIdP authenticates with a federated credential.
func (s *Session) SignInWithIdP(ctx context.Context, providerID, credential string) error {
	creds, err := s.provider.SignInWithIdP(ctx, providerID, credential)
	if err != nil {
		return err
	}
	s.set(creds)
	return nil
}

// SignUp creates an account and then signs it straight out, so the user
// must log in explicitly. Listeners see the sign-in and the sign-out.
func (s *Session) SignUp(ctx context.Context, email, password string) (Identity, error) {
	creds, err := s.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return Identity{}, err
	}
	s.set(creds)
	s.SignOut()
	return Identity{UID: creds.UID, Email: creds.Email}, nil
}

// SignOut forgets the current user. Signing out twice is harmless.
func (s *Session) SignOut() {
	s.mu.Lock()
	if s.creds == nil {
		s.mu.Unlock()
		return
	}
	uid := s.creds.UID
	s.mu.Unlock()
	s.clear(uid)
}

// Subscribe registers a listener and returns a function that removes it.
// A listener registered while a user is present is not called for that user.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) set(creds *Credentials) {
	if creds.ExpiresAt.IsZero() {
		creds.ExpiresAt = TokenExpiry(creds.IDToken)
	}
	s.mu.Lock()
	s.creds = creds
	id := Identity{UID: creds.UID, Email: creds.Email}
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(id, true)
	}
}

// clear signs out uid if it is still the current user.
func (s *Session) clear(uid string) {
	s.mu.Lock()
	if s.creds == nil || s.creds.UID != uid {
		s.mu.Unlock()
		return
	}
	id := Identity{UID: s.creds.UID, Email: s.creds.Email}
	s.creds = nil
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(id, false)
	}
}

// snapshotLocked copies listeners in registration order. Caller holds mu.
func (s *Session) snapshotLocked() []Listener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}

// =============================================================================
// TOKEN HELPERS
// =============================================================================

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Verification is the backend's job; the client only needs to know when to
// refresh. Returns the zero time when the token carries no readable expiry.
func TokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
