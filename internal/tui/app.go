// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/stock-watch/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pageMenu      = "menu"
	pageLogin     = "login"
	pageGoogle    = "google"
	pageRegister  = "register"
	pageRecovery  = "recovery"
	pageDashboard = "dashboard"
)

// enterer is implemented by pages that acquire resources while shown.
// Enter replaces Init for such pages.
type enterer interface {
	Enter() tea.Cmd
}

// leaver is implemented by pages that release resources when hidden.
type leaver interface {
	Leave()
}

// sessionSource is the part of the session manager the router reads.
type sessionSource interface {
	Session() models.Session
}

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit
// 3) follows the session: logged-in users land on the dashboard, a lost
// session returns to the menu
// 4) handles NavigateTo messages
// 5) delegates all other messages to the active page
type RootModel struct {
	pages   map[string]tea.Model
	current string

	session   sessionSource
	changes   *signal
	buildInfo models.AppBuildInfo

	quitByUser    bool
	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage. changes is notified
// on every session change.
func NewRootModel(pages map[string]tea.Model, startPage string, session sessionSource, changes *signal, buildInfo models.AppBuildInfo) *RootModel {
	return &RootModel{
		pages:     pages,
		current:   startPage,
		session:   session,
		changes:   changes,
		buildInfo: buildInfo,
	}
}

func (r *RootModel) Init() tea.Cmd {
	return tea.Batch(r.enter(r.pages[r.current]), r.changes.wait(sessionChangedMsg{}))
}

func (r *RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkeys for every page.
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.quit):
			r.quitByUser = true
			r.leave()
			return r, tea.Quit
		case key.Matches(keyMsg, keys.version) && r.current == pageMenu:
			r.showBuildInfo = !r.showBuildInfo
			return r, nil
		case key.Matches(keyMsg, keys.esc) && r.showBuildInfo:
			r.showBuildInfo = false
			return r, nil
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case NavigateTo:
		return r, r.switchTo(msg.Page, msg.Payload)
	case sessionChangedMsg:
		return r, tea.Batch(r.followSession(), r.changes.wait(sessionChangedMsg{}))
	}

	page := r.pages[r.current]
	if page == nil {
		return r, nil
	}

	updated, cmd := page.Update(msg)
	r.pages[r.current] = updated
	return r, cmd
}

func (r *RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	page := r.pages[r.current]
	if page == nil {
		return renderPage(appName, "", "")
	}
	return page.View()
}

// Current returns the name of the active page.
func (r *RootModel) Current() string {
	return r.current
}

func (r *RootModel) followSession() tea.Cmd {
	session := r.session.Session()
	switch {
	case session.Authenticated() && r.current != pageDashboard:
		return r.switchTo(pageDashboard, nil)
	case !session.Authenticated() && !session.Loading && r.current == pageDashboard:
		return r.switchTo(pageLogin, noticeMsg{text: "You have been logged out."})
	default:
		return nil
	}
}

func (r *RootModel) switchTo(page string, payload any) tea.Cmd {
	next, exists := r.pages[page]
	if !exists {
		return nil
	}

	r.leave()
	r.showBuildInfo = false
	r.current = page

	cmd := r.enter(next)
	if payload != nil {
		return tea.Batch(cmd, func() tea.Msg { return payload })
	}
	return cmd
}

func (r *RootModel) enter(page tea.Model) tea.Cmd {
	switch p := page.(type) {
	case nil:
		return nil
	case enterer:
		return p.Enter()
	default:
		return p.Init()
	}
}

func (r *RootModel) leave() {
	if p, ok := r.pages[r.current].(leaver); ok {
		p.Leave()
	}
}
