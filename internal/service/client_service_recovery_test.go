// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/mock"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRecoveryFlow(t *testing.T, ctrl *gomock.Controller, delay time.Duration, onComplete func()) (*recoveryFlow, *mock.MockServerAdapter) {
	t.Helper()
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	f := NewRecoveryFlow(mockAdapter, delay, onComplete, logger.Nop()).(*recoveryFlow)
	return f, mockAdapter
}

// toVerify drives the flow to step 2 for identifier "alice".
func toVerify(t *testing.T, f *recoveryFlow, m *mock.MockServerAdapter) {
	t.Helper()
	ctx := context.Background()
	m.EXPECT().RequestRecoveryCode(ctx, "alice").Return("Code sent", nil)
	require.NoError(t, f.RequestCode(ctx, "alice"))
}

// toSet drives the flow to step 3 with code "123456".
func toSet(t *testing.T, f *recoveryFlow, m *mock.MockServerAdapter) {
	t.Helper()
	toVerify(t, f, m)
	ctx := context.Background()
	m.EXPECT().VerifyRecoveryCode(ctx, "alice", "123456").Return(nil)
	require.NoError(t, f.VerifyCode(ctx, "123456"))
}

func assertExclusive(t *testing.T, s models.RecoveryState) {
	t.Helper()
	assert.False(t, s.Error != "" && s.Message != "", "error %q and message %q both set", s.Error, s.Message)
}

func badRequest(detail string) error {
	return &adapter.APIError{StatusCode: http.StatusBadRequest, Detail: detail}
}

// ── Initial state ────────────────────────────────────────────────────────────

func TestRecoveryFlow_StartsAtRequestStep(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, _ := newTestRecoveryFlow(t, ctrl, time.Second, nil)

	s := f.State()
	assert.Equal(t, models.RequestStep{}, s.Step)
	assert.Equal(t, 1, s.Step.Number())
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Message)
	assert.False(t, s.Pending)
}

// ── RequestCode ──────────────────────────────────────────────────────────────

func TestRecoveryFlow_RequestCode_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)

	toVerify(t, f, m)

	s := f.State()
	assert.Equal(t, models.VerifyStep{Identifier: "alice"}, s.Step)
	assert.Equal(t, "alice", s.Identifier())
	assert.Equal(t, "Code sent", s.Message)
	assert.Empty(t, s.Error)
	assert.False(t, s.Pending)
}

func TestRecoveryFlow_RequestCode_EmptyServerMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	ctx := context.Background()

	m.EXPECT().RequestRecoveryCode(ctx, "alice").Return("", nil)
	require.NoError(t, f.RequestCode(ctx, " alice "))

	assert.Equal(t, app.MsgCodeSent, f.State().Message)
}

func TestRecoveryFlow_RequestCode_FailureStaysAtStep1(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	ctx := context.Background()

	m.EXPECT().RequestRecoveryCode(ctx, "ghost").Return("", &adapter.APIError{StatusCode: http.StatusNotFound, Detail: "User not found"})

	err := f.RequestCode(ctx, "ghost")

	require.Error(t, err)
	s := f.State()
	assert.Equal(t, models.RequestStep{}, s.Step)
	assert.Equal(t, "User not found", s.Error)
	assertExclusive(t, s)
}

func TestRecoveryFlow_RequestCode_FallbackMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	ctx := context.Background()

	m.EXPECT().RequestRecoveryCode(ctx, "alice").Return("", networkErr())

	_ = f.RequestCode(ctx, "alice")

	assert.Equal(t, app.MsgSendCodeFailed, f.State().Error)
}

func TestRecoveryFlow_RequestCode_EmptyIdentifier_NoRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, _ := newTestRecoveryFlow(t, ctrl, time.Second, nil)

	err := f.RequestCode(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyIdentifier)
	assert.Equal(t, app.MsgIdentifierRequired, f.State().Error)
	assert.Equal(t, models.RequestStep{}, f.State().Step)
}

// ── VerifyCode ───────────────────────────────────────────────────────────────

func TestRecoveryFlow_VerifyCode_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)

	toSet(t, f, m)

	s := f.State()
	assert.Equal(t, models.SetStep{Identifier: "alice", Code: "123456"}, s.Step)
	assert.Equal(t, 3, s.Step.Number())
	assert.Equal(t, app.MsgCodeVerified, s.Message)
	assert.Empty(t, s.Error)
}

func TestRecoveryFlow_VerifyCode_WrongCodeStaysAtStep2(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	toVerify(t, f, m)
	ctx := context.Background()

	m.EXPECT().VerifyRecoveryCode(ctx, "alice", "000000").Return(badRequest(""))

	err := f.VerifyCode(ctx, "000000")

	require.Error(t, err)
	s := f.State()
	assert.Equal(t, models.VerifyStep{Identifier: "alice", Code: "000000"}, s.Step)
	assert.Equal(t, "Invalid or expired code", s.Error)
	assert.Empty(t, s.Message)
}

func TestRecoveryFlow_VerifyCode_RetryAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	toVerify(t, f, m)
	ctx := context.Background()

	gomock.InOrder(
		m.EXPECT().VerifyRecoveryCode(ctx, "alice", "000000").Return(badRequest("Invalid or expired code")),
		m.EXPECT().VerifyRecoveryCode(ctx, "alice", "000001").Return(badRequest("Invalid or expired code")),
		m.EXPECT().VerifyRecoveryCode(ctx, "alice", "123456").Return(nil),
	)

	require.Error(t, f.VerifyCode(ctx, "000000"))
	require.Error(t, f.VerifyCode(ctx, "000001"))
	require.NoError(t, f.VerifyCode(ctx, "123456"))

	assert.Equal(t, 3, f.State().Step.Number())
	assert.Empty(t, f.State().Error)
}

func TestRecoveryFlow_VerifyCode_EmptyCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	toVerify(t, f, m)

	err := f.VerifyCode(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyCode)
	assert.Equal(t, 2, f.State().Step.Number())
}

// ── ChangeIdentifier ─────────────────────────────────────────────────────────

func TestRecoveryFlow_ChangeIdentifier_BackToStep1(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	toVerify(t, f, m)

	require.NoError(t, f.ChangeIdentifier())

	s := f.State()
	assert.Equal(t, models.RequestStep{}, s.Step)
	assert.Empty(t, s.Message)
	assert.Empty(t, s.Error)
	assert.Empty(t, s.Identifier())
}

func TestRecoveryFlow_ChangeIdentifier_OnlyFromStep2(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)

	assert.ErrorIs(t, f.ChangeIdentifier(), ErrWrongRecoveryStep)

	toSet(t, f, m)
	assert.ErrorIs(t, f.ChangeIdentifier(), ErrWrongRecoveryStep)
	assert.Equal(t, 3, f.State().Step.Number())
}

// ── ResetPassword ────────────────────────────────────────────────────────────

func TestRecoveryFlow_ResetPassword_ShortPassword_NoRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	toSet(t, f, m)

	// no ResetPassword expectation: any call fails the test
	err := f.ResetPassword(context.Background(), "12345")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
	s := f.State()
	assert.Equal(t, app.MsgPasswordTooShort, s.Error)
	assert.Empty(t, s.Message)
	assert.Equal(t, models.SetStep{Identifier: "alice", Code: "123456"}, s.Step)
}

func TestRecoveryFlow_ResetPassword_CountsRunes(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Hour, nil)
	toSet(t, f, m)
	ctx := context.Background()

	// six runes, more than six bytes
	m.EXPECT().ResetPassword(ctx, "alice", "123456", "пароль").Return("Password updated", nil)

	require.NoError(t, f.ResetPassword(ctx, "пароль"))
	f.Close()
}

func TestRecoveryFlow_ResetPassword_FailureKeepsCodeForRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Hour, nil)
	toSet(t, f, m)
	ctx := context.Background()

	gomock.InOrder(
		m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass1").Return("", &adapter.APIError{StatusCode: http.StatusInternalServerError}),
		m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass1").Return("Password updated", nil),
	)

	err := f.ResetPassword(ctx, "newpass1")
	require.Error(t, err)
	s := f.State()
	assert.Equal(t, app.MsgResetFailed, s.Error)
	assert.Equal(t, models.SetStep{Identifier: "alice", Code: "123456"}, s.Step)

	require.NoError(t, f.ResetPassword(ctx, "newpass1"))
	assert.True(t, f.State().Done())
	f.Close()
}

func TestRecoveryFlow_ResetPassword_SuccessRedirectsAfterDelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	redirected := make(chan struct{})
	f, m := newTestRecoveryFlow(t, ctrl, 20*time.Millisecond, func() { close(redirected) })
	toSet(t, f, m)
	ctx := context.Background()

	m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass1").Return("Password updated", nil)

	start := time.Now()
	require.NoError(t, f.ResetPassword(ctx, "newpass1"))

	s := f.State()
	assert.Equal(t, models.DoneStep{}, s.Step)
	assert.Equal(t, "Password updated", s.Message)
	assert.Empty(t, s.Error)

	select {
	case <-redirected:
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("redirect did not fire")
	}
}

func TestRecoveryFlow_Close_CancelsRedirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	var fired atomic.Bool
	f, m := newTestRecoveryFlow(t, ctrl, 30*time.Millisecond, func() { fired.Store(true) })
	toSet(t, f, m)
	ctx := context.Background()

	m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass1").Return("ok", nil)
	require.NoError(t, f.ResetPassword(ctx, "newpass1"))

	f.Close()
	time.Sleep(60 * time.Millisecond)

	assert.False(t, fired.Load())
	assert.ErrorIs(t, f.RequestCode(ctx, "alice"), ErrRecoveryClosed)
}

// ── Step guards ──────────────────────────────────────────────────────────────

func TestRecoveryFlow_WrongStepCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	ctx := context.Background()

	assert.ErrorIs(t, f.VerifyCode(ctx, "123456"), ErrWrongRecoveryStep)
	assert.ErrorIs(t, f.ResetPassword(ctx, "newpass1"), ErrWrongRecoveryStep)

	toVerify(t, f, m)
	assert.ErrorIs(t, f.RequestCode(ctx, "bob"), ErrWrongRecoveryStep)
	assert.ErrorIs(t, f.ResetPassword(ctx, "newpass1"), ErrWrongRecoveryStep)

	// the rejected calls left the step untouched
	assert.Equal(t, models.VerifyStep{Identifier: "alice"}, f.State().Step)
	assert.Equal(t, "Code sent", f.State().Message)
}

func TestRecoveryFlow_PendingRejectsConcurrentCalls(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Second, nil)
	ctx := context.Background()

	release := make(chan struct{})
	entered := make(chan struct{})
	m.EXPECT().RequestRecoveryCode(ctx, "alice").DoAndReturn(func(context.Context, string) (string, error) {
		close(entered)
		<-release
		return "Code sent", nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, f.RequestCode(ctx, "alice"))
	}()

	<-entered
	assert.True(t, f.State().Pending)
	assert.ErrorIs(t, f.RequestCode(ctx, "alice"), ErrRecoveryPending)

	close(release)
	wg.Wait()
	assert.False(t, f.State().Pending)
}

// ── Subscribe ────────────────────────────────────────────────────────────────

func TestRecoveryFlow_EveryTransitionIsExclusive(t *testing.T) {
	ctrl := gomock.NewController(t)
	f, m := newTestRecoveryFlow(t, ctrl, time.Hour, nil)
	ctx := context.Background()

	var (
		mu    sync.Mutex
		snaps []models.RecoveryState
	)
	f.Subscribe(func(s models.RecoveryState) {
		mu.Lock()
		snaps = append(snaps, s)
		mu.Unlock()
	})

	gomock.InOrder(
		m.EXPECT().RequestRecoveryCode(ctx, "alice").Return("Code sent", nil),
		m.EXPECT().VerifyRecoveryCode(ctx, "alice", "1").Return(badRequest("Invalid or expired code")),
		m.EXPECT().VerifyRecoveryCode(ctx, "alice", "123456").Return(nil),
		m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass1").Return("", badRequest("Weak password")),
		m.EXPECT().ResetPassword(ctx, "alice", "123456", "newpass2").Return("Password updated", nil),
	)

	_ = f.RequestCode(ctx, "alice")
	_ = f.VerifyCode(ctx, "1")
	_ = f.VerifyCode(ctx, "123456")
	_ = f.ResetPassword(ctx, "short")
	_ = f.ResetPassword(ctx, "newpass1")
	_ = f.ResetPassword(ctx, "newpass2")
	f.Close()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, snaps)
	for _, s := range snaps {
		assertExclusive(t, s)
	}

	// steps never move backwards in this run
	last := 0
	for _, s := range snaps {
		assert.GreaterOrEqual(t, s.Step.Number(), last)
		last = s.Step.Number()
	}
}
