// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/journey360-tui/internal/config"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "uid-1",
		"exp": exp.Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func newFirebaseServer(t *testing.T) *httptest.Server {
	t.Helper()
	idToken := signedToken(t, time.Now().Add(time.Hour).Truncate(time.Second))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "test-key" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"API key not valid"}}`))
			return
		}
		switch r.URL.Path {
		case "/v1/accounts:signInWithPassword", "/v1/accounts:signUp":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["password"] != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"localId": "uid-1", "email": body["email"], "idToken": idToken,
				"refreshToken": "r-1", "expiresIn": "3600",
			})
		case "/v1/accounts:signInWithIdp":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body["postBody"], "providerId=google.com")
			json.NewEncoder(w).Encode(map[string]any{
				"localId": "uid-g", "email": "g@gmail.com", "idToken": idToken, "refreshToken": "r-g",
			})
		case "/token":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			json.NewEncoder(w).Encode(map[string]any{
				"user_id": "uid-1", "id_token": "opaque-token", "refresh_token": "r-2", "expires_in": "3600",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testProvider(srv *httptest.Server, key string) *FirebaseProvider {
	return NewFirebaseProvider(config.IdentityConfig{
		APIKey:   key,
		AuthURL:  srv.URL + "/v1",
		TokenURL: srv.URL + "/token",
	}, srv.Client())
}

func TestFirebaseProvider_SignIn(t *testing.T) {
	srv := newFirebaseServer(t)
	p := testProvider(srv, "test-key")

	creds, err := p.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", creds.UID)
	assert.Equal(t, "a@b.com", creds.Email)
	assert.Equal(t, "r-1", creds.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), creds.ExpiresAt, 5*time.Second)
}

func TestFirebaseProvider_ErrorCodes(t *testing.T) {
	srv := newFirebaseServer(t)

	_, err := testProvider(srv, "test-key").SignUp(context.Background(), "a@b.com", "123")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "WEAK_PASSWORD", pe.Code)
	assert.Equal(t, "Password should be at least 6 characters", pe.Detail)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Equal(t, "Password should be at least 6 characters", err.Error())

	_, err = testProvider(srv, "wrong-key").SignIn(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
}

func TestFirebaseProvider_Unconfigured(t *testing.T) {
	p := NewFirebaseProvider(config.IdentityConfig{AuthURL: "http://unused"}, nil)
	_, err := p.SignIn(context.Background(), "a@b.com", "secret")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFirebaseProvider_IdPAndRefresh(t *testing.T) {
	srv := newFirebaseServer(t)
	p := testProvider(srv, "test-key")

	creds, err := p.SignInWithIdP(context.Background(), "google.com", "google-id-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-g", creds.UID)
	assert.False(t, creds.ExpiresAt.IsZero(), "expiry comes from the JWT when expiresIn is absent")

	refreshed, err := p.Refresh(context.Background(), "r-1")
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", refreshed.IDToken)
	assert.Equal(t, "r-2", refreshed.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), refreshed.ExpiresAt, 5*time.Second)
}

func TestFirebaseProvider_WithSession(t *testing.T) {
	srv := newFirebaseServer(t)
	s := New(testProvider(srv, "test-key"))

	require.NoError(t, s.SignIn(context.Background(), "a@b.com", "secret"))
	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), TokenExpiry(token), 5*time.Second)
}
