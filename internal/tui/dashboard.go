// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const sparklineWidth = 40

type dashboardPane int

const (
	paneWatchlist dashboardPane = iota
	paneCatalog
)

// DashboardFactory creates an idle dashboard aggregator.
type DashboardFactory func() service.Dashboard

// DashboardModel shows the watchlist with per-stock predictions, the market
// history and the popular-stocks catalog. The aggregator is started when the
// page is entered and stopped when it is left.
type DashboardModel struct {
	ctx          context.Context
	session      service.SessionManager
	newDashboard DashboardFactory

	dash    service.Dashboard
	changes *signal
	cancel  func()

	view        models.DashboardView
	spinner     spinner.Model
	addInput    textinput.Model
	adding      bool
	pane        dashboardPane
	watchIdx    int
	catalogIdx  int
	showProfile bool
	busy        bool
	status      string
	errMsg      string
}

func NewDashboardModel(ctx context.Context, session service.SessionManager, newDashboard DashboardFactory) *DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	in := textinput.New()
	in.Placeholder = "symbol, e.g. RELIANCE.NS"
	in.CharLimit = 32
	in.Width = 24

	return &DashboardModel{
		ctx:          ctx,
		session:      session,
		newDashboard: newDashboard,
		spinner:      s,
		addInput:     in,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Enter creates and starts a new aggregator.
func (m *DashboardModel) Enter() tea.Cmd {
	m.Leave()

	dash := m.newDashboard()
	changes := newSignal()
	m.cancel = dash.Subscribe(func(models.DashboardView) { changes.notify() })
	m.dash, m.changes = dash, changes
	m.view = dash.View()
	m.adding, m.showProfile, m.busy = false, false, false
	m.status, m.errMsg = "", ""
	m.watchIdx, m.catalogIdx = 0, 0
	m.addInput.Blur()
	m.addInput.SetValue("")

	ctx := m.ctx
	start := func() tea.Msg {
		dash.Start(ctx)
		return dashboardStartedMsg{src: changes}
	}
	return tea.Batch(m.Init(), start, changes.wait(dashboardChangedMsg{src: changes}))
}

// Leave stops the aggregator; late responses are discarded by it.
func (m *DashboardModel) Leave() {
	if m.dash == nil {
		return
	}
	m.dash.Stop()
	m.cancel()
	m.changes.close()
	m.dash, m.changes, m.cancel = nil, nil, nil
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardChangedMsg:
		if m.dash == nil || msg.src != m.changes {
			return m, nil
		}
		m.refreshView()
		return m, m.changes.wait(dashboardChangedMsg{src: m.changes})
	case dashboardStartedMsg:
		if m.dash != nil && msg.src == m.changes {
			m.refreshView()
		}
		return m, nil
	case spinner.TickMsg:
		if m.view.Ready && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case stockResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		if msg.removed {
			m.status = "Removed " + msg.symbol
		} else {
			m.status = "Added " + msg.symbol
			m.adding = false
			m.addInput.Blur()
			m.addInput.SetValue("")
		}
		return m, cmdClearStatus()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = "Copied " + msg.symbol
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateKey(msg)
	}

	return m, nil
}

func (m *DashboardModel) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.adding = false
		m.addInput.Blur()
		return m, nil
	case key.Matches(msg, keys.enter):
		if m.busy || m.dash == nil {
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.cmdAdd(m.addInput.Value()))
	}

	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m *DashboardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showProfile {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.profile) {
			m.showProfile = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.up):
		m.move(-1)
	case key.Matches(msg, keys.down):
		m.move(1)
	case key.Matches(msg, keys.tab), key.Matches(msg, keys.backtab):
		if m.pane == paneWatchlist {
			m.pane = paneCatalog
		} else {
			m.pane = paneWatchlist
		}
	case key.Matches(msg, keys.left):
		m.shiftCategory(-1)
	case key.Matches(msg, keys.right):
		m.shiftCategory(1)
	case key.Matches(msg, keys.add):
		return m, m.startAdding("")
	case key.Matches(msg, keys.enter):
		if m.pane == paneCatalog {
			if stock, ok := m.selectedCatalogStock(); ok {
				return m, m.startAdding(stock.Symbol)
			}
		}
	case key.Matches(msg, keys.remove):
		entry, ok := m.selectedEntry()
		if !ok || m.busy || m.dash == nil {
			return m, nil
		}
		m.busy = true
		m.errMsg = ""
		return m, tea.Batch(m.spinner.Tick, m.cmdRemove(entry.Stock.Symbol))
	case key.Matches(msg, keys.copy):
		if symbol := m.selectedSymbol(); symbol != "" {
			return m, cmdCopy(symbol)
		}
	case key.Matches(msg, keys.refresh):
		return m, m.cmdRefresh()
	case key.Matches(msg, keys.profile):
		m.showProfile = true
	case key.Matches(msg, keys.logout):
		ctx, session := m.ctx, m.session
		return m, func() tea.Msg {
			session.Logout(ctx)
			return nil
		}
	}

	return m, nil
}

func (m *DashboardModel) refreshView() {
	m.view = m.dash.View()
	m.watchIdx = clampIndex(m.watchIdx, len(m.view.Watchlist))
	m.catalogIdx = clampIndex(m.catalogIdx, len(m.view.CategoryStocks))
}

func (m *DashboardModel) move(delta int) {
	if m.pane == paneWatchlist {
		m.watchIdx = clampIndex(m.watchIdx+delta, len(m.view.Watchlist))
		return
	}
	m.catalogIdx = clampIndex(m.catalogIdx+delta, len(m.view.CategoryStocks))
}

func (m *DashboardModel) shiftCategory(delta int) {
	if m.dash == nil {
		return
	}
	names := m.view.Market.Catalog.Names()
	if len(names) == 0 {
		return
	}

	idx := slices.Index(names, m.view.SelectedCategory)
	idx = (idx + delta + len(names)) % len(names)
	if err := m.dash.SelectCategory(names[idx]); err != nil {
		m.errMsg = humanizeError(err)
		return
	}
	m.catalogIdx = 0
	m.refreshView()
}

func (m *DashboardModel) startAdding(symbol string) tea.Cmd {
	m.adding = true
	m.errMsg = ""
	if symbol != "" {
		m.addInput.SetValue(symbol)
		m.addInput.CursorEnd()
	}
	return m.addInput.Focus()
}

func (m *DashboardModel) selectedEntry() (models.WatchlistEntry, bool) {
	if m.watchIdx < 0 || m.watchIdx >= len(m.view.Watchlist) {
		return models.WatchlistEntry{}, false
	}
	return m.view.Watchlist[m.watchIdx], true
}

func (m *DashboardModel) selectedCatalogStock() (models.CatalogStock, bool) {
	if m.catalogIdx < 0 || m.catalogIdx >= len(m.view.CategoryStocks) {
		return models.CatalogStock{}, false
	}
	return m.view.CategoryStocks[m.catalogIdx], true
}

func (m *DashboardModel) selectedSymbol() string {
	if m.pane == paneCatalog {
		stock, _ := m.selectedCatalogStock()
		return stock.Symbol
	}
	entry, _ := m.selectedEntry()
	return entry.Stock.Symbol
}

func (m *DashboardModel) cmdAdd(symbol string) tea.Cmd {
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		err := dash.AddStock(ctx, symbol)
		return stockResultMsg{symbol: strings.ToUpper(strings.TrimSpace(symbol)), err: err}
	}
}

func (m *DashboardModel) cmdRemove(symbol string) tea.Cmd {
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		return stockResultMsg{symbol: symbol, removed: true, err: dash.RemoveStock(ctx, symbol)}
	}
}

func (m *DashboardModel) cmdRefresh() tea.Cmd {
	if m.dash == nil {
		return nil
	}
	ctx, dash := m.ctx, m.dash
	return func() tea.Msg {
		if err := dash.RefreshWatchlist(ctx); err != nil {
			return stockResultMsg{err: err}
		}
		return nil
	}
}

func cmdCopy(symbol string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(symbol); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{symbol: symbol}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func clampIndex(idx, n int) int {
	if n == 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func (m *DashboardModel) View() string {
	if m.showProfile {
		return m.viewProfile()
	}

	title := appName
	if user := m.session.Session().User; user != nil {
		title += "  ·  Welcome, " + user.Username
	}

	if !m.view.Ready {
		return renderPage(title, m.spinner.View()+" Loading your watchlist...", "o: log out")
	}

	var b strings.Builder
	m.writeMarket(&b)
	b.WriteString("\n")
	m.writeWatchlist(&b)
	b.WriteString("\n")
	m.writeCatalog(&b)

	b.WriteString("\n")
	if m.adding {
		b.WriteString("Add stock: [" + m.addInput.View() + "]")
		if m.busy {
			b.WriteString(" " + m.spinner.View())
		}
		b.WriteString("\n")
	}
	renderStatus(&b, m.status, m.errMsg)

	hotKeys := "tab: pane │ ←/→: sector │ a: add │ d: remove │ c: copy │ r: refresh │ p: profile │ o: log out"
	if m.adding {
		hotKeys = "enter: add │ esc: cancel"
	}
	return renderPage(title, strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *DashboardModel) writeMarket(b *strings.Builder) {
	b.WriteString(titleStyle.Render("NIFTY 50"))
	b.WriteString("\n")

	points := m.view.Market.History
	last, pct, ok := historyChange(points)
	if !ok {
		b.WriteString(mutedStyle.Render("No market data"))
		b.WriteString("\n")
		return
	}

	change := fmt.Sprintf("%+.2f%%", pct)
	if pct >= 0 {
		change = upStyle.Render(change)
	} else {
		change = downStyle.Render(change)
	}
	b.WriteString(fmt.Sprintf("%s  %s  %s\n", formatPrice(last), change, sparkline(points, sparklineWidth)))
}

func (m *DashboardModel) writeWatchlist(b *strings.Builder) {
	header := "Watchlist"
	if m.pane == paneWatchlist {
		header = selectedStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(m.view.Watchlist) == 0 {
		b.WriteString(mutedStyle.Render("Your watchlist is empty. Press a to add a stock."))
		b.WriteString("\n")
		return
	}

	for i, entry := range m.view.Watchlist {
		b.WriteString(fmt.Sprintf("%s %-14s %-28s %s\n",
			cursor(m.pane == paneWatchlist && i == m.watchIdx),
			fitText(entry.Stock.Symbol, 14),
			fitText(entry.Stock.CompanyName, 28),
			renderPrediction(entry.Prediction),
		))
	}
}

func (m *DashboardModel) writeCatalog(b *strings.Builder) {
	header := "Popular stocks"
	if m.pane == paneCatalog {
		header = selectedStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	names := m.view.Market.Catalog.Names()
	if len(names) == 0 {
		b.WriteString(mutedStyle.Render("Catalog unavailable"))
		b.WriteString("\n")
		return
	}

	tabs := make([]string, 0, len(names))
	for _, name := range names {
		if name == m.view.SelectedCategory {
			tabs = append(tabs, selectedStyle.Render("["+name+"]"))
		} else {
			tabs = append(tabs, name)
		}
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n")

	for i, stock := range m.view.CategoryStocks {
		b.WriteString(fmt.Sprintf("%s %-14s %-28s %10s  %s\n",
			cursor(m.pane == paneCatalog && i == m.catalogIdx),
			fitText(stock.Symbol, 14),
			fitText(stock.CompanyName, 28),
			formatPrice(stock.Price),
			renderChange(stock.Change),
		))
	}
}

func (m *DashboardModel) viewProfile() string {
	session := m.session.Session()
	user := session.User
	if user == nil {
		return renderPage("PROFILE", "", "esc: back")
	}

	email := user.Email
	if email == "" {
		email = "Not verified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("ID:             %d\n", user.ID))
	b.WriteString("Username:       " + user.Username + "\n")
	b.WriteString("Email:          " + email + "\n")
	b.WriteString("Session until:  " + formatExpiry(session.ExpiresAt, time.Now()) + "\n")
	b.WriteString("Account status: " + noticeStyle.Render("Active"))

	return overlayBoxStyle.Render(renderPage("PROFILE", b.String(), "esc: back"))
}
