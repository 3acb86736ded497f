// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/internal/tui"
)

// App runs one client process: it resolves the persisted session, then hands
// control to the UI until the user quits.
type App struct {
	services *service.ClientServices
	ui       UI
	storages io.Closer
	logger   *logger.Logger
}

// NewApp validates its dependencies and returns a ready [App]. storages is
// closed when Run returns.
func NewApp(services *service.ClientServices, ui UI, storages io.Closer, log *logger.Logger) (*App, error) {
	if services == nil || services.Session == nil {
		return nil, errors.New("client: services are required")
	}
	if ui == nil {
		return nil, errors.New("client: ui is required")
	}

	return &App{
		services: services,
		ui:       ui,
		storages: storages,
		logger:   log,
	}, nil
}

// Run bootstraps the session and blocks in the UI. SIGINT and SIGTERM cancel
// the run context. Quitting from the UI is not an error.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	defer a.closeStorages()

	ctx = a.logger.WithContext(ctx)
	a.services.Session.Bootstrap(ctx)
	session := a.services.Session.Session()
	a.logger.Info().Bool("authenticated", session.Authenticated()).Msg("session bootstrapped")

	err := a.ui.Run(ctx)
	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Msg("user quit")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

func (a *App) closeStorages() {
	if a.storages == nil {
		return
	}
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Msg("failed to close client storage")
	}
}
