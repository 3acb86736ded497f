// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Stock is a stock known to the server.
type Stock struct {
	ID          int64  `json:"id"`
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
}

// WatchlistItem is one element of GET /watchlist.
type WatchlistItem struct {
	Stock Stock `json:"stock"`
}

// CreateStockRequest is the body of POST /stocks. The server returns the
// existing stock when the symbol is already known.
type CreateStockRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
}

// AddToWatchlistRequest is the body of POST /watchlist.
type AddToWatchlistRequest struct {
	StockID int64 `json:"stock_id"`
}

// WatchlistEntry is a watchlist stock together with its prediction state.
type WatchlistEntry struct {
	Stock      Stock
	Prediction PredictionState
}
