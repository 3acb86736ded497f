// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// HistoryPoint is one point of GET /market/history/{symbol}.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// CatalogStock is a stock listed in the popular-stocks catalog.
type CatalogStock struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Price       float64 `json:"price"`
	Change      string  `json:"change"`
}

// Rising reports whether Change is a positive move ("+1.2%").
func (s CatalogStock) Rising() bool {
	return len(s.Change) > 0 && s.Change[0] == '+'
}

// CatalogCategory is one sector of the catalog.
type CatalogCategory struct {
	Name   string
	Stocks []CatalogStock
}

// Catalog is the ordered mapping from sector name to stocks, in the order the
// server returned the keys.
type Catalog struct {
	Categories []CatalogCategory
}

// Names returns the category names in order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Has reports whether the catalog contains a category with the given name.
func (c Catalog) Has(name string) bool {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}

// Stocks returns the stocks of the named category, or nil.
func (c Catalog) Stocks(name string) []CatalogStock {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Stocks
		}
	}
	return nil
}

// First returns the name of the first category, or "" for an empty catalog.
func (c Catalog) First() string {
	if len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0].Name
}

// MarketSnapshot is the periodically refreshed part of the dashboard. It is
// replaced wholesale on every poll response.
type MarketSnapshot struct {
	History []HistoryPoint
	Catalog Catalog
}

// DashboardView is a read-only projection of the dashboard state.
type DashboardView struct {
	// Ready is false until the first round of fetches has resolved.
	Ready            bool
	Watchlist        []WatchlistEntry
	Market           MarketSnapshot
	SelectedCategory string
	CategoryStocks   []CatalogStock
}
