// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RecoveryFlowFactory starts a new recovery flow. onComplete fires once the
// redirect delay after a successful reset elapsed.
type RecoveryFlowFactory func(onComplete func()) service.RecoveryFlow

// RecoveryModel renders the three recovery steps. A fresh flow is started
// every time the page is entered and closed when it is left.
type RecoveryModel struct {
	ctx     context.Context
	newFlow RecoveryFlowFactory

	flow       service.RecoveryFlow
	changes    *signal
	cancel     func()
	redirected *atomic.Bool

	state      models.RecoveryState
	identifier formField
	code       formField
	password   formField
	errMsg     string
}

func NewRecoveryModel(ctx context.Context, newFlow RecoveryFlowFactory) *RecoveryModel {
	return &RecoveryModel{
		ctx:        ctx,
		newFlow:    newFlow,
		identifier: newTextField("Username or email", "username or email", 254),
		code:       newTextField("Code", "6-digit code", 16),
		password:   newPasswordField("New password"),
		state:      models.RecoveryState{Step: models.RequestStep{}},
	}
}

func (m *RecoveryModel) Init() tea.Cmd {
	return textinput.Blink
}

// Enter starts a new flow at step 1.
func (m *RecoveryModel) Enter() tea.Cmd {
	m.Leave()

	changes := newSignal()
	redirected := new(atomic.Bool)
	flow := m.newFlow(func() {
		redirected.Store(true)
		changes.notify()
	})

	m.cancel = flow.Subscribe(func(models.RecoveryState) { changes.notify() })
	m.flow, m.changes, m.redirected = flow, changes, redirected
	m.state = flow.State()
	m.errMsg = ""
	for _, f := range []*formField{&m.identifier, &m.code, &m.password} {
		f.input.SetValue("")
	}
	m.focusStep()

	return tea.Batch(m.Init(), changes.wait(recoveryChangedMsg{src: changes}))
}

// Leave closes the flow, cancelling a scheduled redirect.
func (m *RecoveryModel) Leave() {
	if m.flow == nil {
		return
	}
	m.flow.Close()
	m.cancel()
	m.changes.close()
	m.flow, m.changes, m.cancel = nil, nil, nil
}

func (m *RecoveryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recoveryChangedMsg:
		if m.flow == nil || msg.src != m.changes {
			return m, nil
		}
		if m.redirected.Load() {
			notice := noticeMsg{text: "Password updated. Please log in with the new password."}
			return m, func() tea.Msg { return NavigateTo{Page: pageLogin, Payload: notice} }
		}
		m.apply(m.flow.State())
		return m, m.changes.wait(recoveryChangedMsg{src: m.changes})
	case recoveryResultMsg:
		switch {
		case msg.err == nil:
			m.errMsg = ""
		case errors.Is(msg.err, service.ErrRecoveryPending), errors.Is(msg.err, service.ErrWrongRecoveryStep):
			m.errMsg = "Please wait for the current request to finish"
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, m.updateInput(msg)
}

func (m *RecoveryModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.flow == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.esc):
		if _, ok := m.state.Step.(models.VerifyStep); ok && !m.state.Pending {
			// back to step 1 keeping the typed identifier
			if err := m.flow.ChangeIdentifier(); err != nil {
				m.errMsg = humanizeError(err)
			}
			return m, nil
		}
		return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
	case key.Matches(msg, keys.enter):
		if m.state.Pending {
			return m, nil
		}
		return m, m.cmdSubmit()
	}

	return m, m.updateInput(msg)
}

func (m *RecoveryModel) cmdSubmit() tea.Cmd {
	ctx, flow := m.ctx, m.flow

	var run func() error
	switch m.state.Step.(type) {
	case models.RequestStep:
		identifier := m.identifier.input.Value()
		run = func() error { return flow.RequestCode(ctx, identifier) }
	case models.VerifyStep:
		code := m.code.input.Value()
		run = func() error { return flow.VerifyCode(ctx, code) }
	case models.SetStep:
		password := m.password.input.Value()
		run = func() error { return flow.ResetPassword(ctx, password) }
	default:
		return nil
	}

	m.errMsg = ""
	return func() tea.Msg {
		return recoveryResultMsg{err: run()}
	}
}

// apply stores a new snapshot and moves the focus when the step changed.
func (m *RecoveryModel) apply(state models.RecoveryState) {
	prev := m.state.Step
	m.state = state

	if stepKind(prev) == stepKind(state.Step) {
		return
	}
	if step, ok := state.Step.(models.VerifyStep); ok {
		m.code.input.SetValue(step.Code)
	}
	if _, ok := state.Step.(models.SetStep); ok {
		m.password.input.SetValue("")
	}
	m.focusStep()
}

func (m *RecoveryModel) active() *formField {
	switch m.state.Step.(type) {
	case models.VerifyStep:
		return &m.code
	case models.SetStep:
		return &m.password
	case models.RequestStep:
		return &m.identifier
	default:
		return nil
	}
}

func (m *RecoveryModel) focusStep() {
	for _, f := range []*formField{&m.identifier, &m.code, &m.password} {
		f.input.Blur()
	}
	if f := m.active(); f != nil {
		f.input.Focus()
	}
}

func (m *RecoveryModel) updateInput(msg tea.Msg) tea.Cmd {
	f := m.active()
	if f == nil {
		return nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (m *RecoveryModel) View() string {
	var b strings.Builder

	step := m.state.Step
	if step == nil {
		step = models.RequestStep{}
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Step %d of 3", step.Number())))
	b.WriteString("\n\n")

	hotKeys := "esc: back │ enter: submit"
	switch s := step.(type) {
	case models.RequestStep:
		b.WriteString("Enter your username or email to receive a verification code.\n\n")
		b.WriteString(newFormView(m.identifier))
		b.WriteString(submitButton("Send code", m.state.Pending))
	case models.VerifyStep:
		b.WriteString("Enter the code sent to " + s.Identifier + ".\n\n")
		b.WriteString(newFormView(m.code))
		b.WriteString(submitButton("Verify code", m.state.Pending))
		hotKeys = "esc: change username/email │ enter: submit"
	case models.SetStep:
		b.WriteString(fmt.Sprintf("Choose a new password (at least %d characters).\n\n", service.MinPasswordLength))
		b.WriteString(newFormView(m.password))
		b.WriteString(submitButton("Update password", m.state.Pending))
	case models.DoneStep:
		b.WriteString("Redirecting to login...\n")
		hotKeys = "esc: menu"
	}

	errMsg := m.state.Error
	if errMsg == "" {
		errMsg = m.errMsg
	}
	renderStatus(&b, m.state.Message, errMsg)

	return renderPage("RESET PASSWORD", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func newFormView(field formField) string {
	f := form{fields: []formField{field}}
	return f.view()
}

// stepKind tells DoneStep apart from SetStep, which share a step number.
func stepKind(step models.RecoveryStep) int {
	if _, done := step.(models.DoneStep); done {
		return 4
	}
	if step == nil {
		return 0
	}
	return step.Number()
}
