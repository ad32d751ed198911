// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoUser is returned by Token when nobody is signed in.
var ErrNoUser = errors.New("no signed-in user")

// ErrNotConfigured is returned when the identity provider has no API key.
var ErrNotConfigured = errors.New("identity provider is not configured (set JOURNEY360_FIREBASE_API_KEY)")

// ProviderError is a rejection from the identity provider.
type ProviderError struct {
	// Op is the attempted operation: sign-in, sign-up, idp, refresh
	Op string
	// Code is the provider's error code, e.g. EMAIL_NOT_FOUND
	Code string
	// Detail is any text the provider appended to the code
	Detail string
	// StatusCode is the HTTP status, 0 for transport failures
	StatusCode int
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil && e.Code == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
	}
	return e.Friendly()
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Friendly returns the message shown inline under the login form.
func (e *ProviderError) Friendly() string {
	switch e.Code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL":
		if e.Op == "sign-up" && e.Code == "INVALID_EMAIL" {
			return "Please enter a valid email address"
		}
		return "Invalid email or password"
	case "EMAIL_EXISTS":
		return "An account with this email already exists"
	case "WEAK_PASSWORD":
		return "Password should be at least 6 characters"
	case "USER_DISABLED":
		return "This account has been disabled"
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return "Too many attempts. Please try again later"
	case "OPERATION_NOT_ALLOWED":
		return "This sign-in method is not enabled"
	case "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "USER_NOT_FOUND":
		return "Your session has expired. Please sign in again"
	case "":
		return e.Op + " failed"
	}
	if e.Detail != "" {
		return e.Detail
	}
	return strings.ToLower(strings.ReplaceAll(e.Code, "_", " "))
}

// IsProviderCode reports whether err is a ProviderError with the given code.
func IsProviderCode(err error, code string) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}
