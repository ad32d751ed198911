// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/journey360-tui/internal/config"
)

// =============================================================================
// FIREBASE IDENTITY TOOLKIT PROVIDER
// =============================================================================

// maxAuthResponseSize caps identity responses; real ones are a few KB.
const maxAuthResponseSize = 1 << 20

// FirebaseProvider implements Provider against the Identity Toolkit REST API.
type FirebaseProvider struct {
	apiKey     string
	authURL    string
	tokenURL   string
	requestURI string
	httpClient *http.Client
}

// NewFirebaseProvider creates a provider from IdentityConfig.
// A nil httpClient gets a client with a 30 second timeout.
func NewFirebaseProvider(cfg config.IdentityConfig, httpClient *http.Client) *FirebaseProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &FirebaseProvider{
		apiKey:     cfg.APIKey,
		authURL:    strings.TrimRight(cfg.AuthURL, "/"),
		tokenURL:   cfg.TokenURL,
		requestURI: "http://localhost",
		httpClient: httpClient,
	}
}

// authResponse is the shared shape of signIn/signUp/signInWithIdp replies.
type authResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// refreshResponse uses snake_case, unlike the accounts endpoints.
type refreshResponse struct {
	UserID       string `json:"user_id"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn implements Provider.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Credentials, error) {
	return p.accounts(ctx, "sign-in", "signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignUp implements Provider.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Credentials, error) {
	return p.accounts(ctx, "sign-up", "signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithIdP implements Provider. credential is the provider's ID token.
func (p *FirebaseProvider) SignInWithIdP(ctx context.Context, providerID, credential string) (*Credentials, error) {
	post := url.Values{}
	post.Set("id_token", credential)
	post.Set("providerId", providerID)
	return p.accounts(ctx, "idp", "signInWithIdp", map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          p.requestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
}

// Refresh implements Provider.
func (p *FirebaseProvider) Refresh(ctx context.Context, refreshToken string) (*Credentials, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Op: "refresh", Cause: ErrNotConfigured}
	}
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(p.tokenURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ProviderError{Op: "refresh", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out refreshResponse
	if err := p.do(req, "refresh", &out); err != nil {
		return nil, err
	}
	return &Credentials{
		UID:          out.UserID,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    expiry(out.IDToken, out.ExpiresIn),
	}, nil
}

func (p *FirebaseProvider) accounts(ctx context.Context, op, method string, body map[string]any) (*Credentials, error) {
	if p.apiKey == "" {
		return nil, &ProviderError{Op: op, Cause: ErrNotConfigured}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Op: op, Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(p.authURL+"/accounts:"+method), bytes.NewReader(data))
	if err != nil {
		return nil, &ProviderError{Op: op, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var out authResponse
	if err := p.do(req, op, &out); err != nil {
		return nil, err
	}
	if out.IDToken == "" || out.LocalID == "" {
		return nil, &ProviderError{Op: op, Cause: fmt.Errorf("response missing idToken or localId")}
	}
	return &Credentials{
		UID:          out.LocalID,
		Email:        out.Email,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    expiry(out.IDToken, out.ExpiresIn),
	}, nil
}

func (p *FirebaseProvider) endpoint(base string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "key=" + url.QueryEscape(p.apiKey)
}

func (p *FirebaseProvider) do(req *http.Request, op string, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthResponseSize))
	if err != nil {
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		pe := &ProviderError{Op: op, StatusCode: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil && er.Error.Message != "" {
			// Messages look like "WEAK_PASSWORD : Password should be at least 6 characters".
			code, detail, _ := strings.Cut(er.Error.Message, ":")
			pe.Code = strings.TrimSpace(code)
			pe.Detail = strings.TrimSpace(detail)
		} else {
			pe.Cause = fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		return pe
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Op: op, StatusCode: resp.StatusCode, Cause: fmt.Errorf("failed to parse response: %w", err)}
	}
	return nil
}

// expiry prefers the token's exp claim and falls back to expiresIn seconds.
func expiry(idToken, expiresIn string) time.Time {
	if t := TokenExpiry(idToken); !t.IsZero() {
		return t
	}
	if secs, err := strconv.Atoi(expiresIn); err == nil && secs > 0 {
		return time.Now().Add(time.Duration(secs) * time.Second)
	}
	return time.Time{}
}
