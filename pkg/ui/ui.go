// Package ui renders search results and summaries for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
	"github.com/syzomnia-el/osu-searcher/pkg/dupe"
	"github.com/syzomnia-el/osu-searcher/pkg/query"
)

/* Vars */

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	sidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	plainStyle = lipgloss.NewStyle()
)

var tableHeader = [3]string{"sid", "name", "artist"}

/* Public */

func Success(s string) string { return successStyle.Render(s) }
func Warning(s string) string { return warningStyle.Render(s) }
func Error(s string) string   { return errorStyle.Render(s) }
func Dim(s string) string     { return dimStyle.Render(s) }

// Banner is the interactive shell greeting.
func Banner(version string) string {
	return titleStyle.Render("osu-searcher") + " " + dimStyle.Render(version)
}

func Prompt() string {
	return headerStyle.Render("osu-searcher> ")
}

// RenderSets prints one row per set with a total underneath.
func RenderSets(sets []*beatmap.Set) string {
	rows := make([][3]string, 0, len(sets))
	for _, set := range sets {
		rows = append(rows, setRow(set))
	}

	var b strings.Builder
	renderTable(&b, rows, nil)
	b.WriteString(dimStyle.Render(fmt.Sprintf("total: %s", humanize.Comma(int64(len(sets))))))

	return b.String()
}

// RenderMatches prints matched sets. A set that matched on only some of
// its charts gets a sub line naming the matching difficulties.
func RenderMatches(matches []query.Match) string {
	rows := make([][3]string, 0, len(matches))
	subs := make(map[int]string)

	for i, m := range matches {
		rows = append(rows, setRow(m.Set))

		if len(m.Charts) < m.Set.ChartCount() {
			difficulties := make([]string, 0, len(m.Charts))
			for _, chart := range m.Charts {
				difficulties = append(difficulties, chart.Difficulty)
			}

			subs[i] = "  matched: " + strings.Join(difficulties, ", ")
		}
	}

	var b strings.Builder
	renderTable(&b, rows, subs)
	b.WriteString(dimStyle.Render(fmt.Sprintf("total: %s", humanize.Comma(int64(len(matches))))))

	return b.String()
}

// RenderGroups prints duplicate groups, largest first, each member on
// its own line so the paths can be acted on directly.
func RenderGroups(groups []dupe.Group) string {
	if len(groups) == 0 {
		return successStyle.Render("no duplicate sets found")
	}

	var b strings.Builder
	for _, g := range groups {
		label := "unsubmitted"
		if g.SetID != 0 {
			label = fmt.Sprintf("sid %d", g.SetID)
		}

		first := g.Sets[0]
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s  %s - %s", label, first.Artist(), first.Title())))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d copies)", len(g.Sets))))
		b.WriteString("\n")

		for _, set := range g.Sets {
			b.WriteString("  " + set.Path + "\n")
		}
	}

	b.WriteString(warningStyle.Render(fmt.Sprintf(
		"total: %d groups, %d redundant copies", len(groups), dupe.Copies(groups))))

	return b.String()
}

/* Private */

func setRow(set *beatmap.Set) [3]string {
	sid := "-"
	if set.SetID != 0 {
		sid = fmt.Sprintf("%d", set.SetID)
	}

	return [3]string{sid, set.Title(), set.Artist()}
}

func renderTable(b *strings.Builder, rows [][3]string, subs map[int]string) {
	widths := [3]int{}
	for i, h := range tableHeader {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	writeRow := func(cells [3]string, styles [3]lipgloss.Style) {
		parts := make([]string, 0, len(cells))
		for i, cell := range cells {
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			parts = append(parts, styles[i].Render(cell)+pad)
		}

		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		b.WriteString("\n")
	}

	writeRow(tableHeader, [3]lipgloss.Style{headerStyle, headerStyle, headerStyle})
	for i, row := range rows {
		writeRow(row, [3]lipgloss.Style{sidStyle, plainStyle, plainStyle})

		if sub, ok := subs[i]; ok {
			b.WriteString(dimStyle.Render(sub))
			b.WriteString("\n")
		}
	}
}
