// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling for CLI commands.
//
// Handlers always return errors; main displays them once and picks the
// exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/trip"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2
	ExitConfigError   = 3
	ExitAuthError     = 4
	ExitNetworkError  = 5
	ExitNotFoundError = 7
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // e.g. "config"
	Action  string // e.g. "set"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid command-line input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ErrMissingArgument creates an error for a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// ErrInvalidValue creates an error for a malformed option value.
func ErrInvalidValue(field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// =============================================================================
// DISPLAY
// =============================================================================

// DisplayError writes err to w. In JSON mode it writes a failed
// JSONResponse whose data carries the error details.
func DisplayError(w io.Writer, command string, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		resp := NewJSONErrorResponse(command, err)
		resp.Data = errorDetails(err)
		resp.Write(w)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), userMessage(err))
}

func errorDetails(err error) map[string]interface{} {
	details := map[string]interface{}{
		"error_type": errorType(err),
		"exit_code":  GetExitCode(err),
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		details["field"] = ve.Field
		if ve.Example != "" {
			details["example"] = ve.Example
		}
	}
	var re *api.RequestError
	if errors.As(err, &re) {
		if re.StatusCode != 0 {
			details["status"] = re.StatusCode
		}
		if re.RequestID != "" {
			details["request_id"] = re.RequestID
		}
	}
	return details
}

// userMessage prefers the friendly identity-provider wording.
func userMessage(err error) string {
	var re *api.RequestError
	var pe *session.ProviderError
	if errors.As(err, &pe) && !errors.As(err, &re) {
		return pe.Friendly()
	}
	if errors.Is(err, session.ErrNoUser) {
		return api.ErrUnauthenticated.Error()
	}
	return err.Error()
}

func errorType(err error) string {
	switch GetExitCode(err) {
	case ExitUsageError:
		return "validation_error"
	case ExitConfigError:
		return "config_error"
	case ExitAuthError:
		return "auth_error"
	case ExitNetworkError:
		return "network_error"
	case ExitNotFoundError:
		return "not_found_error"
	case ExitTimeoutError:
		return "timeout_error"
	}
	return "generic_error"
}

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// A bad backend payload wraps trip validation errors but is not the
	// user's input.
	if errors.Is(err, api.ErrMalformedResponse) {
		return ExitGeneralError
	}

	var ve *ValidationError
	var tripErrs trip.ValidationErrors
	var tripErr *trip.ValidationError
	if errors.As(err, &ve) || errors.As(err, &tripErrs) || errors.As(err, &tripErr) {
		return ExitUsageError
	}

	var cfgErrs config.ValidateErrors
	var cfgErr config.ValidationError
	if errors.As(err, &cfgErrs) || errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeoutError
	}

	// Classified before provider errors: a failed token refresh while
	// signed in is a request failure, not a sign-in failure.
	var re *api.RequestError
	if errors.As(err, &re) {
		switch {
		case re.NotFound():
			return ExitNotFoundError
		case re.StatusCode == 401 || re.StatusCode == 403:
			return ExitAuthError
		case re.StatusCode == 0:
			return ExitNetworkError
		}
		return ExitGeneralError
	}

	var pe *session.ProviderError
	if errors.As(err, &pe) || errors.Is(err, session.ErrNoUser) || errors.Is(err, api.ErrUnauthenticated) {
		return ExitAuthError
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ExitTimeoutError
		}
		return ExitNetworkError
	}

	return ExitGeneralError
}
