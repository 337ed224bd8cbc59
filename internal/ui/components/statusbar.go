package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/ui/style"
	"github.com/sadopc/godupes/internal/util"
)

// StatusInfo holds what the status bar reports about the current view.
type StatusInfo struct {
	Position int // 1-based cursor position, 0 when the list is empty
	Total    int
	Wasted   int64 // wasted bytes of the selected group
	Detail   bool
	Imported bool
	Message  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(theme style.Theme, info StatusInfo, width int) string {
	if info.Message != "" {
		msg := " " + lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).Render(info.Message)
		return theme.StatusBarStyle.Width(width).Render(msg)
	}

	var parts []string
	if info.Total > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", info.Position, info.Total))
		parts = append(parts, fmt.Sprintf("%s reclaimable", util.FormatSize(info.Wasted)))
	} else {
		parts = append(parts, "no duplicates")
	}
	if info.Imported {
		parts = append(parts, "imported")
	}
	left := " " + strings.Join(parts, " | ")

	hints := []struct{ key, desc string }{
		{"enter", "open"},
		{"E", "export"},
		{"?", "help"},
		{"q", "quit"},
	}
	if info.Detail {
		hints[0] = struct{ key, desc string }{"esc", "back"}
	}

	var rightParts []string
	for _, h := range hints {
		rightParts = append(rightParts, theme.HelpKey.Render(h.key)+theme.HelpDesc.Render(" "+h.desc))
	}
	right := strings.Join(rightParts, "  ") + " "

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + strings.Repeat(" ", gap) + right
	return theme.StatusBarStyle.Width(width).Render(line)
}
