package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/ui/style"
	"github.com/sadopc/godupes/internal/util"
)

// RenderHeader renders the title bar: program name, scanned roots and the
// overall duplicate totals.
func RenderHeader(theme style.Theme, report *dedupe.Report, width int) string {
	if report == nil || width < 10 {
		return ""
	}

	titleStyled := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(" godupes")

	s := report.Stats
	stats := fmt.Sprintf("%s %s  %s wasted ",
		util.FormatInt(int64(s.Groups)), util.Plural(int64(s.Groups), "group"),
		util.FormatSize(s.WastedBytes),
	)
	statsStyled := lipgloss.NewStyle().Foreground(theme.TextMuted).Render(stats)

	titleW := lipgloss.Width(titleStyled)
	statsW := lipgloss.Width(statsStyled)

	rootsStr := strings.Join(report.Roots, " ")
	if pathMaxW := width - titleW - statsW - 3; pathMaxW > 5 {
		rootsStr = util.TruncateLeft(rootsStr, pathMaxW)
	} else {
		rootsStr = ""
	}
	rootsStyled := lipgloss.NewStyle().Foreground(theme.TextPrimary).Render("  " + rootsStr)

	gap := max(width-titleW-lipgloss.Width(rootsStyled)-statsW, 1)
	line := titleStyled + rootsStyled + strings.Repeat(" ", gap) + statsStyled
	return theme.HeaderStyle.Width(width).Render(line)
}

// RenderSubHeader summarizes how the scan narrowed candidates down.
func RenderSubHeader(theme style.Theme, report *dedupe.Report, width int) string {
	if report == nil {
		return ""
	}
	s := report.Stats
	parts := []string{
		fmt.Sprintf("%s files", util.FormatInt(int64(s.Walk.Files))),
		fmt.Sprintf("%s hashed", util.FormatInt(int64(s.Verify.Hashed))),
		fmt.Sprintf("%s %s", util.FormatInt(int64(s.DuplicateFiles)), util.Plural(int64(s.DuplicateFiles), "duplicate")),
	}
	if s.HardLinksMerged > 0 {
		parts = append(parts, fmt.Sprintf("%s hard links merged", util.FormatInt(int64(s.HardLinksMerged))))
	}
	if s.Verify.ReadErrors > 0 {
		parts = append(parts, theme.ErrorText.Render(fmt.Sprintf("%d unreadable", s.Verify.ReadErrors)))
	}
	if report.Hash != "" {
		parts = append(parts, string(report.Hash))
	}
	line := " " + strings.Join(parts, " · ")
	return theme.SubHeaderStyle.Width(width).MaxWidth(width).Render(line)
}

// RenderSortBar renders the view title on the left and the active sort on
// the right.
func RenderSortBar(theme style.Theme, title string, sort string, width int) string {
	left := " " + theme.TabActiveStyle.Render(title)
	right := lipgloss.NewStyle().Foreground(theme.TextMuted).Render("Sort: " + sort + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().
		Foreground(theme.TextSecondary).
		Background(theme.BgLight).
		Width(width).
		Render(line)
}
