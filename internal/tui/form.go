// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formField is one labelled input of a form page.
type formField struct {
	label string
	input textinput.Model
}

func newTextField(label, placeholder string, charLimit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = charLimit
	in.Width = 40
	return formField{label: label, input: in}
}

func newPasswordField(label string) formField {
	f := newTextField(label, "password", 256)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '*'
	return f
}

// form keeps the focus ring of a list of fields.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	f := form{fields: fields}
	f.fields[0].input.Focus()
	return f
}

func (f *form) value(i int) string {
	return f.fields[i].input.Value()
}

func (f *form) trimmed(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) next() {
	f.setFocus((f.focus + 1) % len(f.fields))
}

func (f *form) prev() {
	f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f *form) setFocus(i int) {
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
}

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.setFocus(0)
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view() string {
	width := 0
	for _, field := range f.fields {
		width = max(width, len(field.label))
	}

	var b strings.Builder
	for _, field := range f.fields {
		b.WriteString(field.label)
		b.WriteString(strings.Repeat(" ", width-len(field.label)))
		b.WriteString(" │ [")
		b.WriteString(field.input.View())
		b.WriteString("]\n")
	}
	return b.String()
}

func submitButton(label string, submitting bool) string {
	if submitting {
		return "\n[" + label + "...]\n"
	}
	return "\n[" + label + "]\n"
}
