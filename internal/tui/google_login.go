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

// GoogleLoginModel signs in with a Google ID token pasted by the user.
type GoogleLoginModel struct {
	ctx     context.Context
	session service.SessionManager

	form       form
	submitting bool
	errMsg     string
}

func NewGoogleLoginModel(ctx context.Context, session service.SessionManager) *GoogleLoginModel {
	token := newTextField("ID token", "paste the Google ID token", 4096)
	token.input.EchoMode = textinput.EchoPassword
	token.input.EchoCharacter = '*'

	return &GoogleLoginModel{
		ctx:     ctx,
		session: session,
		form:    newForm(token),
	}
}

func (m *GoogleLoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *GoogleLoginModel) Enter() tea.Cmd {
	m.submitting = false
	m.errMsg = ""
	return m.Init()
}

func (m *GoogleLoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
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
			m.errMsg = ""
			return m, func() tea.Msg { return NavigateTo{Page: pageMenu} }
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			token := m.form.trimmed(0)
			if token == "" {
				m.errMsg = "Paste the ID token issued by Google"
				return m, nil
			}

			m.errMsg = ""
			m.submitting = true
			ctx, session := m.ctx, m.session
			return m, func() tea.Msg {
				return authResultMsg{err: session.LoginWithGoogle(ctx, token)}
			}
		}
	}

	return m, m.form.update(msg)
}

func (m *GoogleLoginModel) View() string {
	var b strings.Builder
	b.WriteString(m.form.view())
	b.WriteString(submitButton("Continue with Google", m.submitting))
	renderStatus(&b, "", m.errMsg)

	return renderPage("LOG IN WITH GOOGLE", strings.TrimRight(b.String(), "\n"), "esc: back │ enter: submit")
}
