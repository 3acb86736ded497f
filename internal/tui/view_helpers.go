// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/stock-watch/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("  ctrl+c: quit"))

	return appStyle.Render(b.String())
}

func renderStatus(b *strings.Builder, notice, errMsg string) {
	if notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(notice))
		b.WriteString("\n")
	}
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + errMsg))
		b.WriteString("\n")
	}
}

func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// sparkline scales the last width points between the lowest and highest
// price.
func sparkline(points []models.HistoryPoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}

	lo, hi := points[0].Price, points[0].Price
	for _, p := range points {
		lo = min(lo, p.Price)
		hi = max(hi, p.Price)
	}

	out := make([]rune, 0, len(points))
	top := len(sparkRunes) - 1
	for _, p := range points {
		idx := 0
		if hi > lo {
			idx = int((p.Price - lo) / (hi - lo) * float64(top))
		}
		out = append(out, sparkRunes[idx])
	}
	return string(out)
}

// historyChange returns the last price and its change in percent relative to
// the first point.
func historyChange(points []models.HistoryPoint) (last, pct float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	first := points[0].Price
	last = points[len(points)-1].Price
	if first != 0 {
		pct = (last - first) / first * 100
	}
	return last, pct, true
}

func renderPrediction(p models.PredictionState) string {
	label := p.Label()
	switch {
	case p.Status != models.PredictionReady:
		return mutedStyle.Render(label)
	case p.Direction == models.DirectionUp:
		return upStyle.Render(fmt.Sprintf("%s %d%%", label, p.ConfidencePercent()))
	case p.Direction == models.DirectionDown:
		return downStyle.Render(fmt.Sprintf("%s %d%%", label, p.ConfidencePercent()))
	default:
		return mutedStyle.Render(label)
	}
}

func renderChange(change string) string {
	if change == "" {
		return "-"
	}
	if (models.CatalogStock{Change: change}).Rising() {
		return upStyle.Render(change)
	}
	return downStyle.Render(change)
}

func cursor(selected bool) string {
	if selected {
		return ">"
	}
	return " "
}

// formatExpiry renders a credential expiry in local time. A zero time means
// the token does not say.
func formatExpiry(exp, now time.Time) string {
	switch {
	case exp.IsZero():
		return "Unknown"
	case !exp.After(now):
		return errorStyle.Render("Expired")
	default:
		return exp.Local().Format("2006-01-02 15:04")
	}
}
