package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/intake-engine/hydration"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2A7FD4")).
			Padding(0, 1)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A90E2"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

func renderToday(snap hydration.DaySnapshot, settings hydration.Settings) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Water · " + snap.LastSavedDay.String()))
	b.WriteString("\n\n")

	total := fmt.Sprintf("%d / %d ml  (%s%%, %s L)",
		snap.Total(), snap.Target, snap.Progress().String(), hydration.Liters(snap.Total()).StringFixed(2))
	if snap.Remaining() == 0 {
		b.WriteString(doneStyle.Render(total + "  target reached"))
	} else {
		b.WriteString(total)
	}
	b.WriteString("\n")
	b.WriteString(progressBar(snap.Total(), snap.Target))
	b.WriteString("\n\n")

	if len(snap.Records) == 0 {
		b.WriteString(mutedStyle.Render("No records yet."))
	}
	for i, r := range snap.Records {
		fmt.Fprintf(&b, "%3d  %s  %5d ml\n", i, r.Timestamp.Local().Format("15:04"), r.Amount)
	}

	if len(settings.QuickAmounts) > 0 {
		quick := make([]string, len(settings.QuickAmounts))
		for i, a := range settings.QuickAmounts {
			quick[i] = fmt.Sprintf("[%d] %d", i, a)
		}
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("quick: " + strings.Join(quick, "  ")))
	}
	return b.String()
}

func progressBar(total, target int) string {
	filled := 0
	if target > 0 {
		filled = total * barWidth / target
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

func renderHistory(entries []hydration.DailySummary, stats hydration.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History"))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("Nothing archived yet."))
		return b.String()
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %5d / %-5d ml  %6s%%", e.Day, e.Total, e.Target, e.Progress().String())
		if e.MetTarget() {
			line = doneStyle.Render(line + "  ✓")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d days, %d on target, average %s ml",
		stats.Days, stats.DaysMetTarget, stats.AverageTotal.String())))
	return b.String()
}
