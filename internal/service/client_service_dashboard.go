// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/workers"
	"github.com/MKhiriev/stock-watch/models"
)

// DashboardSettings configures a [Dashboard].
type DashboardSettings struct {
	// PollInterval is the period of the catalog and history refresh.
	PollInterval time.Duration
	// HistorySymbol is the index whose history is fetched.
	HistorySymbol string
}

type dashboardAggregator struct {
	adapter  adapter.MarketAdapter
	job      workers.Job
	settings DashboardSettings
	logger   *logger.Logger

	mu          sync.RWMutex
	started     bool
	closed      bool
	ready       bool
	watchlist   []models.Stock
	predictions map[string]models.PredictionState
	market      models.MarketSnapshot
	selected    string

	listeners listeners[models.DashboardView]
}

// NewDashboard creates an idle [Dashboard]. job drives the periodic refresh.
func NewDashboard(marketAdapter adapter.MarketAdapter, job workers.Job, settings DashboardSettings, log *logger.Logger) Dashboard {
	return &dashboardAggregator{
		adapter:     marketAdapter,
		job:         job,
		settings:    settings,
		logger:      log.Component("dashboard"),
		predictions: make(map[string]models.PredictionState),
	}
}

// Start implements [Dashboard]. It blocks until the first round resolved.
// A second call is a no-op.
func (d *dashboardAggregator) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started || d.closed {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	// each task absorbs its own error, so Wait is only the loading gate
	var g errgroup.Group
	g.Go(func() error {
		if err := d.RefreshWatchlist(ctx); err != nil {
			d.logger.Warn().Err(err).Msg("initial watchlist fetch failed")
		}
		return nil
	})
	g.Go(func() error {
		d.refreshCatalog(ctx)
		return nil
	})
	g.Go(func() error {
		d.refreshHistory(ctx)
		return nil
	})
	_ = g.Wait()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.ready = true
	d.job.Start(ctx, d.settings.PollInterval, d.poll)
	d.mu.Unlock()

	d.logger.Debug().Dur("interval", d.settings.PollInterval).Msg("dashboard ready, polling started")
	d.notify()
}

// poll runs on every tick. Catalog and history are fetched independently and
// applied when they arrive, so overlapping ticks resolve last-write-wins.
// In-flight requests outlive Stop; their results are discarded.
func (d *dashboardAggregator) poll(tickCtx context.Context) {
	ctx := context.WithoutCancel(tickCtx)
	go d.refreshCatalog(ctx)
	go d.refreshHistory(ctx)
}

// Stop implements [Dashboard].
func (d *dashboardAggregator) Stop() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.job.Stop()
	d.logger.Debug().Msg("dashboard stopped")
}

// View implements [Dashboard].
func (d *dashboardAggregator) View() models.DashboardView {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]models.WatchlistEntry, 0, len(d.watchlist))
	for _, stock := range d.watchlist {
		entries = append(entries, models.WatchlistEntry{
			Stock:      stock,
			Prediction: d.predictions[stock.Symbol],
		})
	}

	return models.DashboardView{
		Ready:     d.ready,
		Watchlist: entries,
		Market: models.MarketSnapshot{
			History: slices.Clone(d.market.History),
			Catalog: d.market.Catalog,
		},
		SelectedCategory: d.selected,
		CategoryStocks:   slices.Clone(d.market.Catalog.Stocks(d.selected)),
	}
}

// Subscribe implements [Dashboard].
func (d *dashboardAggregator) Subscribe(fn func(models.DashboardView)) func() {
	return d.listeners.add(fn)
}

// RefreshWatchlist implements [Dashboard].
func (d *dashboardAggregator) RefreshWatchlist(ctx context.Context) error {
	stocks, err := d.adapter.GetWatchlist(ctx)
	if err != nil {
		d.logger.Err(err).Msg("failed to fetch watchlist")
		return displayError(err, app.MsgWatchlistFailed, app.MsgNetworkError)
	}

	newSymbols := d.applyWatchlist(stocks)
	for _, symbol := range newSymbols {
		go d.fetchPrediction(context.WithoutCancel(ctx), symbol)
	}
	return nil
}

// applyWatchlist replaces the watchlist and returns the symbols that need a
// prediction fetch. Prediction slots of removed symbols are dropped.
func (d *dashboardAggregator) applyWatchlist(stocks []models.Stock) []string {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}

	present := make(map[string]struct{}, len(stocks))
	var newSymbols []string
	for _, stock := range stocks {
		present[stock.Symbol] = struct{}{}
		if _, ok := d.predictions[stock.Symbol]; !ok {
			d.predictions[stock.Symbol] = models.PredictionState{Status: models.PredictionAnalyzing}
			newSymbols = append(newSymbols, stock.Symbol)
		}
	}
	for symbol := range d.predictions {
		if _, ok := present[symbol]; !ok {
			delete(d.predictions, symbol)
		}
	}
	d.watchlist = stocks
	d.mu.Unlock()

	d.notify()
	return newSymbols
}

// fetchPrediction writes only the slot of symbol.
func (d *dashboardAggregator) fetchPrediction(ctx context.Context, symbol string) {
	state := models.PredictionState{Status: models.PredictionUnavailable}

	prediction, err := d.adapter.GetPrediction(ctx, symbol)
	if err != nil {
		d.logger.Warn().Err(err).Str("symbol", symbol).Msg("prediction unavailable")
	} else {
		state = models.PredictionState{
			Status:     models.PredictionReady,
			Direction:  prediction.Direction,
			Confidence: prediction.Confidence,
		}
	}

	d.mu.Lock()
	if _, tracked := d.predictions[symbol]; d.closed || !tracked {
		d.mu.Unlock()
		return
	}
	d.predictions[symbol] = state
	d.mu.Unlock()

	d.notify()
}

func (d *dashboardAggregator) refreshCatalog(ctx context.Context) {
	catalog, err := d.adapter.GetPopularStocks(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("failed to fetch popular stocks")
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.market.Catalog = catalog
	// a selection survives every poll that still lists it
	if !catalog.Has(d.selected) {
		d.selected = catalog.First()
	}
	d.mu.Unlock()

	d.notify()
}

func (d *dashboardAggregator) refreshHistory(ctx context.Context) {
	points, err := d.adapter.GetMarketHistory(ctx, d.settings.HistorySymbol)
	if err != nil {
		d.logger.Warn().Err(err).Str("symbol", d.settings.HistorySymbol).Msg("failed to fetch market history")
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.market.History = points
	d.mu.Unlock()

	d.notify()
}

// AddStock implements [Dashboard].
func (d *dashboardAggregator) AddStock(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return localError(ErrEmptySymbol, app.MsgSymbolRequired)
	}

	stock, err := d.adapter.CreateStock(ctx, models.CreateStockRequest{Symbol: symbol, CompanyName: symbol})
	if err != nil {
		d.logger.Info().Err(err).Str("symbol", symbol).Msg("stock upsert failed")
		return displayError(err, app.MsgAddStockFailed, app.MsgNetworkError)
	}

	if err = d.adapter.AddToWatchlist(ctx, stock.ID); err != nil {
		d.logger.Info().Err(err).Str("symbol", symbol).Int64("stock_id", stock.ID).Msg("watchlist attach failed")
		return displayError(err, app.MsgAddStockFailed, app.MsgNetworkError)
	}

	if err = d.RefreshWatchlist(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("watchlist refresh after add failed")
	}
	return nil
}

// RemoveStock implements [Dashboard].
func (d *dashboardAggregator) RemoveStock(ctx context.Context, symbol string) error {
	symbol = strings.TrimSpace(symbol)

	removeErr := d.adapter.RemoveFromWatchlist(ctx, symbol)
	if removeErr != nil {
		d.logger.Err(removeErr).Str("symbol", symbol).Msg("failed to remove stock")
	}

	if err := d.RefreshWatchlist(ctx); err != nil {
		d.logger.Warn().Err(err).Msg("watchlist refresh after remove failed")
	}

	return displayError(removeErr, app.MsgRemoveStockFailed, app.MsgNetworkError)
}

// SelectCategory implements [Dashboard].
func (d *dashboardAggregator) SelectCategory(name string) error {
	d.mu.Lock()
	if !d.market.Catalog.Has(name) {
		d.mu.Unlock()
		return ErrUnknownCategory
	}
	d.selected = name
	d.mu.Unlock()

	d.notify()
	return nil
}

func (d *dashboardAggregator) notify() {
	d.listeners.notify(d.View())
}
