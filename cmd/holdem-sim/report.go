package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/pokerengine/internal/simulator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	nameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lossStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderReport(r *simulator.Report, bigBlind int, elapsed time.Duration) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" ♠ ♥ Hold'em Simulation ♦ ♣ "))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s %d hands, %d actions, %d fallbacks, seed %d, %s\n",
		headerStyle.Render("Played:"), r.HandsPlayed, r.Actions, r.Fallbacks, r.Seed, elapsed.Round(time.Millisecond))
	if r.StoppedEarly {
		b.WriteString(dimStyle.Render("Stopped early: fewer than two players had chips") + "\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-12s %8s %8s %9s %8s %10s %8s",
		"Player", "Start", "End", "Net", "Won", "bb/100", "±95%")))

	players := append([]simulator.PlayerReport(nil), r.Players...)
	sort.SliceStable(players, func(i, j int) bool { return players[i].Net() > players[j].Net() })
	for _, p := range players {
		net := fmt.Sprintf("%+9d", p.Net())
		switch {
		case p.Net() > 0:
			net = winStyle.Render(net)
		case p.Net() < 0:
			net = lossStyle.Render(net)
		}
		lo, hi := p.Stats.ConfidenceInterval95()
		fmt.Fprintf(&b, "%s %8d %8d %s %8d %10.1f %8.1f\n",
			nameStyle.Render(fmt.Sprintf("%-12s", p.Name)),
			p.StartChips, p.EndChips, net, p.HandsWon,
			p.Stats.BBPer100(), (hi-lo)/2*100)
	}

	if len(r.Labels) > 0 {
		b.WriteString("\n" + headerStyle.Render("Results by label:") + "\n")
		labels := make([]string, 0, len(r.Labels))
		for l := range r.Labels {
			labels = append(labels, l)
		}
		sort.Slice(labels, func(i, j int) bool { return r.Labels[labels[i]] > r.Labels[labels[j]] })
		for _, l := range labels {
			pct := 100 * float64(r.Labels[l]) / float64(max(1, r.HandsPlayed))
			fmt.Fprintf(&b, "  %-18s %6d %s\n", l, r.Labels[l], dimStyle.Render(fmt.Sprintf("(%.1f%%)", pct)))
		}
	}

	fmt.Fprintf(&b, "\n%s total chips %d, big blind %d\n", dimStyle.Render("Books balanced:"), r.TotalChips, bigBlind)
	return b.String()
}
