package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/ui/style"
	"github.com/sadopc/godupes/internal/util"
)

// GroupList renders one row per duplicate group.
type GroupList struct {
	Theme       style.Theme
	Layout      style.Layout
	Groups      []model.Group
	Cursor      int
	Offset      int
	TotalWasted int64
}

// Render renders the visible window of rows.
func (gl *GroupList) Render() string {
	width := gl.Layout.ContentWidth()
	contentHeight := gl.Layout.ContentHeight()

	if len(gl.Groups) == 0 {
		empty := lipgloss.NewStyle().Foreground(gl.Theme.TextMuted).Render("  No duplicate files found.")
		lines := []string{style.FullWidth(empty, width)}
		for len(lines) < contentHeight {
			lines = append(lines, strings.Repeat(" ", width))
		}
		return strings.Join(lines, "\n")
	}

	end := min(gl.Offset+contentHeight, len(gl.Groups))

	var lines []string
	for i := gl.Offset; i < end; i++ {
		lines = append(lines, gl.renderRow(gl.Groups[i], i == gl.Cursor, width))
	}
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func (gl *GroupList) renderRow(g model.Group, selected bool, totalWidth int) string {
	wasted := g.Wasted()
	pct := util.Percent(wasted, gl.TotalWasted)
	bar := gl.Theme.BarGradient(gl.Layout.BarWidth(), pct/100)

	indicator := "  "
	if selected {
		indicator = gl.Theme.CursorIndicator.Render(" >")
	}

	path := util.TruncateLeft(primaryPath(g), gl.Layout.PathWidth())
	pathStyled := lipgloss.NewStyle().
		Foreground(lipgloss.Color(g.Category().Color())).
		Width(gl.Layout.PathWidth()).
		Render(path)

	row := fmt.Sprintf("%s%s [%s] %s x %s %s",
		indicator,
		gl.Theme.PercentText.Render(fmt.Sprintf("%5.1f%%", pct)),
		bar,
		gl.Theme.CountText.Render(fmt.Sprintf("%d", len(g.Files))),
		pathStyled,
		gl.Theme.SizeText.Width(10).Render(util.FormatSize(wasted)),
	)
	row = style.FullWidth(row, totalWidth)

	if selected {
		return gl.Theme.SelectedRow.Width(totalWidth).Render(row)
	}
	return row
}

// EnsureVisible adjusts Offset so the cursor row is on screen.
func (gl *GroupList) EnsureVisible() {
	contentHeight := gl.Layout.ContentHeight()
	if gl.Cursor < gl.Offset {
		gl.Offset = gl.Cursor
	}
	if gl.Cursor >= gl.Offset+contentHeight {
		gl.Offset = gl.Cursor - contentHeight + 1
	}
	if gl.Offset < 0 {
		gl.Offset = 0
	}
}

func primaryPath(g model.Group) string {
	if len(g.Files) == 0 {
		return ""
	}
	return g.Files[0].Path
}
