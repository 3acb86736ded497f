// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

// Session errors.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrGoogleLoginFailed  = errors.New("google login failed")
	ErrRegistrationFailed = errors.New("registration failed")
	ErrIdentityFetch      = errors.New("failed to fetch user identity")
)

// Recovery errors.
var (
	ErrWrongRecoveryStep = errors.New("operation is not allowed in the current recovery step")
	ErrRecoveryPending   = errors.New("a recovery request is already in flight")
	ErrRecoveryClosed    = errors.New("recovery flow is closed")
	ErrEmptyIdentifier   = errors.New("empty username or email")
	ErrEmptyCode         = errors.New("empty verification code")
	ErrPasswordTooShort  = errors.New("password is too short")
)

// Dashboard errors.
var (
	ErrEmptySymbol     = errors.New("empty stock symbol")
	ErrUnknownCategory = errors.New("unknown catalog category")
)

// DisplayError carries the text shown to the user next to the underlying
// error. Error returns only the display text, so wrapped server details never
// leak through err.Error().
type DisplayError struct {
	Message string
	Err     error
}

func (e *DisplayError) Error() string {
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Err
}

// Message returns the display text of err, or fallback when err carries none.
// A nil err yields "".
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var displayErr *DisplayError
	if errors.As(err, &displayErr) && displayErr.Message != "" {
		return displayErr.Message
	}
	return fallback
}
