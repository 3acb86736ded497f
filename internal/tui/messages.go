// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

// NavigateTo asks [RootModel] to switch the active page. Payload, when set,
// is delivered to the new page right after it is entered.
type NavigateTo struct {
	Page    string
	Payload any
}

// noticeMsg carries a confirmation shown by the receiving page.
type noticeMsg struct {
	text     string
	username string
}

type sessionChangedMsg struct{}

type authResultMsg struct {
	err error
}

type registerResultMsg struct {
	username string
	err      error
}

// recoveryChangedMsg and dashboardChangedMsg name their source so that a
// message from a flow the page already left is ignored.
type recoveryChangedMsg struct {
	src *signal
}

type recoveryResultMsg struct {
	err error
}

type dashboardChangedMsg struct {
	src *signal
}

type dashboardStartedMsg struct {
	src *signal
}

type stockResultMsg struct {
	symbol  string
	removed bool
	err     error
}

type copiedMsg struct {
	symbol string
	err    error
}

type clearStatusMsg struct{}
