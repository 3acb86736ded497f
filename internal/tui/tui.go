// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal front-end of the stock-watch client.
//
// [TUI.Run] starts a Bubble Tea program whose [RootModel] routes between the
// menu, login, Google login, registration, password recovery and dashboard
// pages. The router follows the session manager, so logging in, logging out
// and a credential rejected by the server all switch pages the same way.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI owns the Bubble Tea program.
type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// New creates a [TUI] over the client services.
func New(services *service.ClientServices, buildInfo models.AppBuildInfo, log *logger.Logger) (*TUI, error) {
	if services == nil || services.Session == nil {
		return nil, errors.New("tui: client services are required")
	}
	return &TUI{services: services, buildInfo: buildInfo, logger: log.Component("tui")}, nil
}

// Run blocks until the user quits. The session must be bootstrapped before
// Run is called: the first page depends on it.
func (t *TUI) Run(ctx context.Context) error {
	session := t.services.Session

	changes := newSignal()
	defer changes.close()
	cancel := session.Subscribe(func(models.Session) { changes.notify() })
	defer cancel()

	pages := map[string]tea.Model{
		pageMenu:      NewMenuModel(),
		pageLogin:     NewLoginModel(ctx, session),
		pageGoogle:    NewGoogleLoginModel(ctx, session),
		pageRegister:  NewRegisterModel(ctx, session),
		pageRecovery:  NewRecoveryModel(ctx, t.services.NewRecoveryFlow),
		pageDashboard: NewDashboardModel(ctx, session, t.services.NewDashboard),
	}

	start := pageMenu
	if session.Session().Authenticated() {
		start = pageDashboard
	}
	t.logger.Debug().Str("page", start).Msg("starting tui")

	root := NewRootModel(pages, start, session, changes, t.buildInfo)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen()).Run()
	root.leave()
	if err != nil {
		return err
	}

	result, ok := finalModel.(*RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
