// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// LoginModel is the Bubble Tea model for the password login screen. It
// renders username and password inputs and dispatches an async login command
// on submission. A successful login changes the session, and [RootModel]
// then opens the dashboard.
type LoginModel struct {
	ctx     context.Context
	session service.SessionManager

	form       form
	submitting bool
	notice     string
	errMsg     string
}

// NewLoginModel creates a [LoginModel] with the username field focused.
func NewLoginModel(ctx context.Context, session service.SessionManager) *LoginModel {
	return &LoginModel{
		ctx:     ctx,
		session: session,
		form: newForm(
			newTextField("Username", "username", 64),
			newPasswordField("Password"),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation.
func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Enter resets a submission left pending when the session switched pages
// before the result arrived.
func (m *LoginModel) Enter() tea.Cmd {
	m.submitting = false
	m.notice, m.errMsg = "", ""
	return m.Init()
}

// Update implements [tea.Model]. Handled messages:
//   - [noticeMsg]      shows a confirmation and pre-fills the username.
//   - [authResultMsg]  clears submitting state; on error, populates errMsg.
//   - esc              navigates back to the menu.
//   - tab / shift+tab  moves the focus.
//   - enter            validates inputs and dispatches the login command.
func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		m.notice = msg.text
		m.errMsg = ""
		if msg.username != "" {
			m.form.fields[0].input.SetValue(msg.username)
			m.form.setFocus(1)
		}
		return m, nil
	case authResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.form.reset()
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.notice, m.errMsg = "", ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case key.Matches(msg, keys.tab):
			m.form.next()
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.form.prev()
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}

			username := m.form.trimmed(0)
			password := m.form.value(1)
			if username == "" || password == "" {
				m.errMsg = "Username and password are required"
				return m, nil
			}

			m.notice, m.errMsg = "", ""
			m.submitting = true
			return m, m.cmdLogin(username, password)
		}
	}

	return m, m.form.update(msg)
}

// View implements [tea.Model].
func (m *LoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())
	b.WriteString(submitButton("Sign in", m.submitting))
	renderStatus(&b, m.notice, m.errMsg)

	return renderPage("LOG IN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *LoginModel) cmdLogin(username, password string) tea.Cmd {
	ctx := m.ctx
	session := m.session

	return func() tea.Msg {
		return authResultMsg{err: session.Login(ctx, username, password)}
	}
}
