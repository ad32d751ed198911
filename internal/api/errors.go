// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to classify failures.
var (
	// ErrUnauthenticated means no user is signed in. No request was sent.
	ErrUnauthenticated = errors.New("User not authenticated")

	// ErrRequestFailed matches every *RequestError.
	ErrRequestFailed = errors.New("request failed")

	// ErrMalformedResponse matches every *MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed response")
)

// RequestError is a transport failure or a non-success HTTP status.
type RequestError struct {
	// Op is the operation name, e.g. "create trip"
	Op string
	// StatusCode is 0 when no response was received
	StatusCode int
	// Message is what the user sees: the backend detail when present,
	// otherwise the operation's generic failure message
	Message string
	// Detail is the backend's detail field, if any
	Detail    string
	RequestID string
	Cause     error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrRequestFailed) true.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// NotFound reports whether the backend answered 404.
func (e *RequestError) NotFound() bool {
	return e.StatusCode == 404
}

// MalformedResponseError is a success response whose body could not be
// decoded or failed validation.
type MalformedResponseError struct {
	Op    string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed %s response: %v", e.Op, e.Cause)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrMalformedResponse) true.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.NotFound()
}
