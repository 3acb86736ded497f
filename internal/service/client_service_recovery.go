// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/models"
)

// MinPasswordLength is the shortest new password accepted by ResetPassword.
const MinPasswordLength = 6

type recoveryFlow struct {
	adapter       adapter.RecoveryAdapter
	redirectDelay time.Duration
	onComplete    func()
	logger        *logger.Logger

	mu       sync.Mutex
	state    models.RecoveryState
	redirect *time.Timer
	closed   bool

	listeners listeners[models.RecoveryState]
}

// NewRecoveryFlow creates a [RecoveryFlow] at step 1. onComplete is called
// once, redirectDelay after a successful password reset; it may be nil.
func NewRecoveryFlow(recoveryAdapter adapter.RecoveryAdapter, redirectDelay time.Duration, onComplete func(), log *logger.Logger) RecoveryFlow {
	return &recoveryFlow{
		adapter:       recoveryAdapter,
		redirectDelay: redirectDelay,
		onComplete:    onComplete,
		logger:        log.Component("recovery"),
		state:         models.RecoveryState{Step: models.RequestStep{}},
	}
}

// RequestCode implements [RecoveryFlow].
func (f *recoveryFlow) RequestCode(ctx context.Context, identifier string) error {
	identifier = strings.TrimSpace(identifier)

	if err := f.begin(func(step models.RecoveryStep) bool {
		_, ok := step.(models.RequestStep)
		return ok
	}); err != nil {
		return err
	}

	if identifier == "" {
		return f.fail(localError(ErrEmptyIdentifier, app.MsgIdentifierRequired), nil)
	}

	msg, err := f.adapter.RequestRecoveryCode(ctx, identifier)
	if err != nil {
		f.logger.Info().Err(err).Msg("recovery code request rejected")
		return f.fail(displayError(err, app.MsgSendCodeFailed, app.MsgSendCodeFailed), nil)
	}

	if msg == "" {
		msg = app.MsgCodeSent
	}
	f.advance(models.VerifyStep{Identifier: identifier}, msg)
	return nil
}

// VerifyCode implements [RecoveryFlow].
func (f *recoveryFlow) VerifyCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	var current models.VerifyStep
	if err := f.begin(func(step models.RecoveryStep) bool {
		var ok bool
		current, ok = step.(models.VerifyStep)
		return ok
	}); err != nil {
		return err
	}

	// the submitted code stays in the step so the user can correct it
	retry := models.VerifyStep{Identifier: current.Identifier, Code: code}

	if code == "" {
		return f.fail(localError(ErrEmptyCode, app.MsgCodeRequired), retry)
	}

	if err := f.adapter.VerifyRecoveryCode(ctx, current.Identifier, code); err != nil {
		f.logger.Info().Err(err).Msg("recovery code rejected")
		return f.fail(displayError(err, app.MsgInvalidCode, app.MsgInvalidCode), retry)
	}

	f.advance(models.SetStep{Identifier: current.Identifier, Code: code}, app.MsgCodeVerified)
	return nil
}

// ResetPassword implements [RecoveryFlow].
func (f *recoveryFlow) ResetPassword(ctx context.Context, newPassword string) error {
	var current models.SetStep
	if err := f.begin(func(step models.RecoveryStep) bool {
		var ok bool
		current, ok = step.(models.SetStep)
		return ok
	}); err != nil {
		return err
	}

	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return f.fail(localError(ErrPasswordTooShort, app.MsgPasswordTooShort), nil)
	}

	// a failed reset keeps identifier and code for the retry
	msg, err := f.adapter.ResetPassword(ctx, current.Identifier, current.Code, newPassword)
	if err != nil {
		f.logger.Info().Err(err).Msg("password reset rejected")
		return f.fail(displayError(err, app.MsgResetFailed, app.MsgResetFailed), nil)
	}

	if msg == "" {
		msg = app.MsgPasswordUpdated
	}
	f.advance(models.DoneStep{}, msg)
	f.scheduleRedirect()
	return nil
}

// ChangeIdentifier implements [RecoveryFlow].
func (f *recoveryFlow) ChangeIdentifier() error {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return ErrRecoveryClosed
	case f.state.Pending:
		f.mu.Unlock()
		return ErrRecoveryPending
	}
	if _, ok := f.state.Step.(models.VerifyStep); !ok {
		f.mu.Unlock()
		return ErrWrongRecoveryStep
	}

	f.state = models.RecoveryState{Step: models.RequestStep{}}
	snapshot := f.state
	f.mu.Unlock()

	f.listeners.notify(snapshot)
	return nil
}

// State implements [RecoveryFlow].
func (f *recoveryFlow) State() models.RecoveryState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Subscribe implements [RecoveryFlow].
func (f *recoveryFlow) Subscribe(fn func(models.RecoveryState)) func() {
	return f.listeners.add(fn)
}

// Close implements [RecoveryFlow].
func (f *recoveryFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.redirect != nil {
		f.redirect.Stop()
		f.redirect = nil
	}
}

// begin checks that the flow is open, idle and in the step accepted by
// inStep, then marks a request as pending and clears error and message.
func (f *recoveryFlow) begin(inStep func(models.RecoveryStep) bool) error {
	f.mu.Lock()
	switch {
	case f.closed:
		f.mu.Unlock()
		return ErrRecoveryClosed
	case f.state.Pending:
		f.mu.Unlock()
		return ErrRecoveryPending
	case !inStep(f.state.Step):
		f.mu.Unlock()
		return ErrWrongRecoveryStep
	}

	f.state.Pending = true
	f.state.Error = ""
	f.state.Message = ""
	snapshot := f.state
	f.mu.Unlock()

	f.listeners.notify(snapshot)
	return nil
}

// fail ends a pending attempt with err shown as the step error. A non-nil
// step replaces the current one without changing its kind.
func (f *recoveryFlow) fail(err error, step models.RecoveryStep) error {
	f.mu.Lock()
	f.state.Pending = false
	f.state.Message = ""
	f.state.Error = Message(err, err.Error())
	if step != nil {
		f.state.Step = step
	}
	snapshot := f.state
	f.mu.Unlock()

	f.listeners.notify(snapshot)
	return err
}

func (f *recoveryFlow) advance(step models.RecoveryStep, msg string) {
	f.mu.Lock()
	f.state = models.RecoveryState{Step: step, Message: msg}
	snapshot := f.state
	f.mu.Unlock()

	f.logger.Debug().Int("step", step.Number()).Msg("recovery step advanced")
	f.listeners.notify(snapshot)
}

func (f *recoveryFlow) scheduleRedirect() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || f.onComplete == nil {
		return
	}
	f.redirect = time.AfterFunc(f.redirectDelay, f.onComplete)
}
