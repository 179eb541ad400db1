package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hugo-lorenzo-mato/venturepilot/internal/core"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#9CA3AF")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(22)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
)

func readinessStyle(r core.Readiness) lipgloss.Style {
	switch r {
	case core.ReadinessHigh:
		return lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	case core.ReadinessMedium:
		return lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorError)
	}
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func bullets(items []string) string {
	if len(items) == 0 {
		return mutedStyle.Render("  (none)")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "  • " + it
	}
	return strings.Join(lines, "\n")
}

func sectionError(err string) string {
	return errorStyle.Render("  unavailable: " + err)
}

// renderSummary prints a terminal report of one analysis.
func renderSummary(w io.Writer, r *core.AggregateResult) {
	p := r.StartupProfile
	var b strings.Builder

	b.WriteString(titleStyle.Render("VenturePilot analysis") + " " + mutedStyle.Render(r.RunID) + "\n\n")
	b.WriteString(field("Domain", p.Domain) + "\n")
	b.WriteString(field("Stage", p.Stage) + "\n")
	b.WriteString(field("Geography", p.Geography) + "\n")
	b.WriteString(field("Market category", p.Category()) + "\n")
	b.WriteString(field("Agents completed", fmt.Sprintf("%d/%d", r.Metadata.CompletedAgents, r.Metadata.TotalAgents)) + "\n")

	b.WriteString(headingStyle.Render("Strategy") + "\n")
	if r.Strategy.OK() {
		s := r.Strategy.Value
		b.WriteString(field("Fundraising readiness", readinessStyle(s.FundraisingReadiness).Render(string(s.FundraisingReadiness))) + "\n")
		b.WriteString(bullets(s.KeyRecommendations) + "\n")
	} else {
		b.WriteString(sectionError(r.Strategy.Err) + "\n")
	}

	b.WriteString(headingStyle.Render("Top investors") + "\n")
	investors := r.Investors
	if len(investors) > 3 {
		investors = investors[:3]
	}
	lines := make([]string, len(investors))
	for i, m := range investors {
		lines[i] = fmt.Sprintf("%s (%.0f)", m.Name, m.MatchScore)
	}
	b.WriteString(bullets(lines) + "\n")

	b.WriteString(headingStyle.Render("Policy") + "\n")
	if r.Policy.OK() {
		b.WriteString(bullets(r.Policy.Value.EligibleSchemes) + "\n")
	} else {
		b.WriteString(sectionError(r.Policy.Err) + "\n")
	}

	b.WriteString(headingStyle.Render("Market") + "\n")
	if r.Market.OK() {
		b.WriteString(field("Size estimate", r.Market.Value.MarketSizeEstimate) + "\n")
		b.WriteString(bullets(r.Market.Value.EmergingTrends) + "\n")
	} else {
		b.WriteString(sectionError(r.Market.Err) + "\n")
	}

	b.WriteString(headingStyle.Render("News") + "\n")
	if r.News.OK() {
		b.WriteString(bullets(r.News.Value.RecentEvents) + "\n")
	} else {
		b.WriteString(sectionError(r.News.Err) + "\n")
	}

	_, _ = io.WriteString(w, b.String())
}

// renderCorpusReport prints accepted/total counts per category.
func renderCorpusReport(w io.Writer, rep corpusReport) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Corpus") + " " + mutedStyle.Render(rep.Dir) + "\n\n")

	cats := make([]string, 0, len(core.AllCategories()))
	for _, c := range core.AllCategories() {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	var accepted, total int
	for _, c := range cats {
		accepted += rep.Accepted[c]
		total += rep.Total[c]
		b.WriteString(field(c, fmt.Sprintf("%d/%d accepted", rep.Accepted[c], rep.Total[c])) + "\n")
	}
	b.WriteString(field("total", fmt.Sprintf("%d/%d accepted", accepted, total)) + "\n")

	if len(rep.Skipped) > 0 {
		b.WriteString(headingStyle.Render("Unreadable files") + "\n")
		b.WriteString(bullets(rep.Skipped) + "\n")
	}
	_, _ = io.WriteString(w, b.String())
}

// renderHistory prints stored analysis summaries.
func renderHistory(w io.Writer, list []core.AnalysisSummary) {
	if len(list) == 0 {
		_, _ = io.WriteString(w, mutedStyle.Render("No analyses stored yet.")+"\n")
		return
	}
	var b strings.Builder
	for _, s := range list {
		readiness := s.Readiness
		if readiness == "" {
			readiness = "n/a"
		}
		fmt.Fprintf(&b, "%s  %s  %s/%s/%s  %s  %d/%d\n",
			mutedStyle.Render(s.CreatedAt), s.RunID, s.Domain, s.Stage, s.Geography,
			readinessStyle(core.Readiness(s.Readiness)).Render(readiness), s.CompletedAgents, len(core.PipelineOrder))
	}
	_, _ = io.WriteString(w, b.String())
}

// renderMarkdown renders md for the terminal, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
