// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/config"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/store"
	"github.com/MKhiriev/stock-watch/internal/workers"
)

// ClientServices groups the client services. The session manager lives for
// the whole process; recovery flows and dashboards are created per screen.
type ClientServices struct {
	Session SessionManager

	adapter adapter.ServerAdapter
	cfg     *config.ClientConfig
	logger  *logger.Logger
}

// NewClientServices wires the services over one adapter and one credential
// store.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, log *logger.Logger) *ClientServices {
	return &ClientServices{
		Session: NewSessionManager(serverAdapter, storages.Credentials, log),
		adapter: serverAdapter,
		cfg:     cfg,
		logger:  log,
	}
}

// NewRecoveryFlow starts a fresh recovery flow. onComplete runs after the
// configured redirect delay once the password was reset.
func (s *ClientServices) NewRecoveryFlow(onComplete func()) RecoveryFlow {
	return NewRecoveryFlow(s.adapter, s.cfg.Recovery.RedirectDelay, onComplete, s.logger)
}

// NewDashboard creates an idle dashboard with its own poll timer.
func (s *ClientServices) NewDashboard() Dashboard {
	return NewDashboard(s.adapter, workers.NewPeriodicJob(), DashboardSettings{
		PollInterval:  s.cfg.Dashboard.PollInterval,
		HistorySymbol: s.cfg.Dashboard.HistorySymbol,
	}, s.logger)
}
