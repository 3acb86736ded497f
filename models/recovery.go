// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RecoveryStep is one state of the password recovery flow. It is a closed
// union: RequestStep, VerifyStep, SetStep or DoneStep. Each variant carries
// only the fields that are valid in that step.
type RecoveryStep interface {
	// Number returns the user-facing step number (1..3). DoneStep reports 3.
	Number() int
	recoveryStep()
}

// RequestStep is step 1: the user enters a username or email.
type RequestStep struct{}

// VerifyStep is step 2: a code was sent to Identifier.
// Code holds the last submitted code so the user can correct it.
type VerifyStep struct {
	Identifier string
	Code       string
}

// SetStep is step 3: the code was verified and a new password may be set.
type SetStep struct {
	Identifier string
	Code       string
}

// DoneStep is the terminal state after a successful password reset.
type DoneStep struct{}

func (RequestStep) Number() int { return 1 }
func (VerifyStep) Number() int  { return 2 }
func (SetStep) Number() int     { return 3 }
func (DoneStep) Number() int    { return 3 }

func (RequestStep) recoveryStep() {}
func (VerifyStep) recoveryStep()  {}
func (SetStep) recoveryStep()     {}
func (DoneStep) recoveryStep()    {}

// RecoveryState is a snapshot of the recovery flow.
// Error and Message are never both non-empty.
type RecoveryState struct {
	Step    RecoveryStep
	Error   string
	Message string
	Pending bool
}

// Identifier returns the identifier carried by the current step, if any.
func (s RecoveryState) Identifier() string {
	switch step := s.Step.(type) {
	case VerifyStep:
		return step.Identifier
	case SetStep:
		return step.Identifier
	default:
		return ""
	}
}

// Done reports whether the flow reached its terminal state.
func (s RecoveryState) Done() bool {
	_, ok := s.Step.(DoneStep)
	return ok
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
// The identifier (username or email) travels under the "email" key.
type ForgotPasswordRequest struct {
	Identifier string `json:"email"`
}

// VerifyCodeRequest is the body of POST /auth/verify-code.
type VerifyCodeRequest struct {
	Identifier string `json:"email"`
	Code       string `json:"code"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Identifier  string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// MessageResponse is the {message} body returned by the recovery endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
