// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── build ─────────────────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceWins verifies that non-zero fields of later sources
// override earlier ones while zero fields keep the earlier value.
func TestBuild_LaterSourceWins(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{
		Adapter: Adapter{HTTPAddress: "http://override:9000"},
	})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.Dashboard.PollInterval)
	assert.Equal(t, DefaultHistorySymbol, cfg.Dashboard.HistorySymbol)
}

func TestBuild_RejectsNegativeRedirectDelay(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Recovery: Recovery{RedirectDelay: -time.Second}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidRecoveryConfigs)
}

// ── withDotEnv ────────────────────────────────────────────────────────────────

func TestWithDotEnv_MissingFileIsIgnored(t *testing.T) {
	b := newConfigBuilder().withDotEnv(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, b.err)
}

func TestWithDotEnv_LoadsIntoEnvironment(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("DASHBOARD_HISTORY_SYMBOL=^DJI\n"), 0o600))
	t.Setenv("DASHBOARD_HISTORY_SYMBOL", "")
	require.NoError(t, os.Unsetenv("DASHBOARD_HISTORY_SYMBOL"))

	b := newConfigBuilder().withDotEnv(p).withEnv()
	require.NoError(t, b.err)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "^DJI", cfg.Dashboard.HistorySymbol)
}

func TestWithDotEnv_DoesNotOverrideExisting(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("ADAPTER_ADDRESS=http://from-file\n"), 0o600))
	t.Setenv("ADAPTER_ADDRESS", "http://from-env")

	cfg, err := newConfigBuilder().withDotEnv(p).withEnv().build()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.Adapter.HTTPAddress)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NotSpecified(t *testing.T) {
	b := newConfigBuilder().withDefaults().withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_OverridesEarlierSources(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"dashboard": {"poll_interval": "5s"}}`), 0o600))

	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: p})

	cfg, err := b.withJSON().build()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Dashboard.PollInterval)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: filepath.Join(t.TempDir(), "nope.json")})

	b.withJSON()
	assert.Error(t, b.err)
}

// ── ClientConfig ──────────────────────────────────────────────────────────────

func TestClientConfig_DefaultsAreValid(t *testing.T) {
	cfg := defaultConfig().clientView()
	assert.NoError(t, cfg.validate())
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{name: "empty dsn", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "empty address", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = " " }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, wantErr: ErrInvalidAdapterConfigs},
		{name: "zero poll interval", mutate: func(c *ClientConfig) { c.Dashboard.PollInterval = 0 }, wantErr: ErrInvalidDashboardConfigs},
		{name: "empty history symbol", mutate: func(c *ClientConfig) { c.Dashboard.HistorySymbol = "" }, wantErr: ErrInvalidDashboardConfigs},
		{name: "negative redirect delay", mutate: func(c *ClientConfig) { c.Recovery.RedirectDelay = -1 }, wantErr: ErrInvalidRecoveryConfigs},
		{name: "in-memory dsn allowed", mutate: func(c *ClientConfig) { c.Storage.DB.DSN = ":memory:" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig().clientView()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
