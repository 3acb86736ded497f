// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// RegisterModel is the Bubble Tea model for the registration screen. It
// renders username, email and password inputs. Registration never logs the
// user in: on success the form is reset and the login page opens with a
// confirmation and the username pre-filled.
type RegisterModel struct {
	ctx     context.Context
	session service.SessionManager

	form       form
	submitting bool
	errMsg     string
}

// NewRegisterModel creates a [RegisterModel] with the username field focused.
func NewRegisterModel(ctx context.Context, session service.SessionManager) *RegisterModel {
	return &RegisterModel{
		ctx:     ctx,
		session: session,
		form: newForm(
			newTextField("Username", "choose a username", 64),
			newTextField("Email", "your@email.com", 254),
			newPasswordField("Password"),
		),
	}
}

// Init implements [tea.Model]. Starts the cursor-blink animation.
func (m *RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements [tea.Model]. Handled messages:
//   - [registerResultMsg] clears submitting state; on success navigates to
//     the login page.
//   - esc                 navigates back to the menu.
//   - tab / shift+tab     moves the focus.
//   - enter               validates inputs and dispatches the registration.
func (m *RegisterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}

		m.errMsg = ""
		m.form.reset()
		notice := noticeMsg{text: app.MsgRegistrationSucceeded, username: msg.username}
		return m, func() tea.Msg { return NavigateTo{Page: pageLogin, Payload: notice} }
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			m.errMsg = ""
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

			req := models.RegisterRequest{
				Username: m.form.trimmed(0),
				Email:    m.form.trimmed(1),
				Password: m.form.value(2),
			}
			if req.Username == "" || req.Email == "" || req.Password == "" {
				m.errMsg = "All fields are required"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			return m, m.cmdRegister(req)
		}
	}

	return m, m.form.update(msg)
}

// View implements [tea.Model].
func (m *RegisterModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())
	b.WriteString(submitButton("Sign up", m.submitting))
	renderStatus(&b, "", m.errMsg)

	return renderPage("CREATE ACCOUNT", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *RegisterModel) cmdRegister(req models.RegisterRequest) tea.Cmd {
	ctx := m.ctx
	session := m.session

	return func() tea.Msg {
		return registerResultMsg{username: req.Username, err: session.Register(ctx, req)}
	}
}
