// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/mock"
	"github.com/MKhiriev/stock-watch/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRecoveryModel(t *testing.T, delay time.Duration) (*RecoveryModel, *mock.MockServerAdapter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)

	m := NewRecoveryModel(context.Background(), func(onComplete func()) service.RecoveryFlow {
		return service.NewRecoveryFlow(mockAdapter, delay, onComplete, logger.Nop())
	})
	m.Enter()
	t.Cleanup(m.Leave)
	return m, mockAdapter
}

// submit types text into the focused input, presses enter, runs the command
// and applies the resulting change.
func submit(t *testing.T, m *RecoveryModel, text string) {
	t.Helper()
	if text != "" {
		m.Update(runes(text))
	}
	_, cmd := m.Update(enterKey)
	require.NotNil(t, cmd)
	m.Update(cmd())
	m.Update(recoveryChangedMsg{src: m.changes})
}

func TestRecoveryModel_StartsAtStepOne(t *testing.T) {
	m, _ := newTestRecoveryModel(t, time.Hour)

	assert.Contains(t, m.View(), "Step 1 of 3")
	assert.Contains(t, m.View(), "Send code")
}

func TestRecoveryModel_RequestCode_AdvancesToVerify(t *testing.T) {
	m, mockAdapter := newTestRecoveryModel(t, time.Hour)
	mockAdapter.EXPECT().RequestRecoveryCode(gomock.Any(), "alice").Return("Code sent to your email", nil)

	submit(t, m, "alice")

	view := m.View()
	assert.Contains(t, view, "Step 2 of 3")
	assert.Contains(t, view, "Enter the code sent to alice")
	assert.Contains(t, view, "Code sent to your email")
}

func TestRecoveryModel_EmptyIdentifier_ShowsError(t *testing.T) {
	m, _ := newTestRecoveryModel(t, time.Hour)

	submit(t, m, "")

	assert.Contains(t, m.View(), app.MsgIdentifierRequired)
	assert.Contains(t, m.View(), "Step 1 of 3")
}

func TestRecoveryModel_Esc_ChangesIdentifier(t *testing.T) {
	m, mockAdapter := newTestRecoveryModel(t, time.Hour)
	mockAdapter.EXPECT().RequestRecoveryCode(gomock.Any(), "alice").Return("", nil)
	submit(t, m, "alice")

	_, cmd := m.Update(escKey)
	assert.Nil(t, cmd)
	m.Update(recoveryChangedMsg{src: m.changes})

	assert.Contains(t, m.View(), "Step 1 of 3")
	assert.Equal(t, "alice", m.identifier.input.Value())
}

func TestRecoveryModel_Esc_AtStepOneGoesToMenu(t *testing.T) {
	m, _ := newTestRecoveryModel(t, time.Hour)

	_, cmd := m.Update(escKey)

	require.NotNil(t, cmd)
	assert.Equal(t, NavigateTo{Page: pageMenu}, cmd())
}

func TestRecoveryModel_ShortPassword_NoRequest(t *testing.T) {
	m, mockAdapter := newTestRecoveryModel(t, time.Hour)
	mockAdapter.EXPECT().RequestRecoveryCode(gomock.Any(), "alice").Return("", nil)
	mockAdapter.EXPECT().VerifyRecoveryCode(gomock.Any(), "alice", "123456").Return(nil)
	submit(t, m, "alice")
	submit(t, m, "123456")
	require.Contains(t, m.View(), "Step 3 of 3")

	submit(t, m, "abc")

	assert.Contains(t, m.View(), app.MsgPasswordTooShort)
	assert.Contains(t, m.View(), "Step 3 of 3")
}

func TestRecoveryModel_Done_RedirectsToLogin(t *testing.T) {
	m, mockAdapter := newTestRecoveryModel(t, time.Millisecond)
	mockAdapter.EXPECT().RequestRecoveryCode(gomock.Any(), "alice").Return("", nil)
	mockAdapter.EXPECT().VerifyRecoveryCode(gomock.Any(), "alice", "123456").Return(nil)
	mockAdapter.EXPECT().ResetPassword(gomock.Any(), "alice", "123456", "s3cret!").Return("Password updated", nil)

	submit(t, m, "alice")
	submit(t, m, "123456")

	m.Update(runes("s3cret!"))
	_, cmd := m.Update(enterKey)
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Eventually(t, m.redirected.Load, time.Second, time.Millisecond)

	_, cmd = m.Update(recoveryChangedMsg{src: m.changes})
	require.NotNil(t, cmd)
	nav, ok := cmd().(NavigateTo)
	require.True(t, ok)
	assert.Equal(t, pageLogin, nav.Page)
	assert.IsType(t, noticeMsg{}, nav.Payload)
}

func TestRecoveryModel_StaleChangeIgnored(t *testing.T) {
	m, _ := newTestRecoveryModel(t, time.Hour)
	stale := m.changes

	m.Enter()
	_, cmd := m.Update(recoveryChangedMsg{src: stale})

	assert.Nil(t, cmd)
}

func TestRecoveryModel_Leave_ClosesFlow(t *testing.T) {
	m, _ := newTestRecoveryModel(t, time.Hour)
	flow := m.flow

	m.Leave()

	assert.ErrorIs(t, flow.RequestCode(context.Background(), "alice"), service.ErrRecoveryClosed)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
