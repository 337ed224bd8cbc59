package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/ui/style"
)

type helpBind struct{ key, desc string }

var helpSections = []struct {
	name  string
	binds []helpBind
}{
	{
		name: "Navigation",
		binds: []helpBind{
			{"j/k", "Move down/up"},
			{"g/G", "First/last group"},
			{"PgUp/PgDn", "Page up/down"},
			{"Enter", "Show all paths of a group"},
			{"Esc", "Back to the group list"},
		},
	},
	{
		name: "Sorting",
		binds: []helpBind{
			{"w", "Sort by wasted bytes"},
			{"s", "Sort by file size"},
			{"c", "Sort by copy count"},
			{"p", "Sort by path"},
		},
	},
	{
		name: "Actions",
		binds: []helpBind{
			{"E", "Export report to JSON"},
			{"r", "Search again"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		},
	},
	{
		name: "Markers",
		binds: []helpBind{
			{"=", "Hard link to the path above"},
			{"->", "Symbolic link to the path above"},
		},
	},
}

// RenderHelp renders the help overlay.
func RenderHelp(theme style.Theme, width, height int) string {
	boxWidth := min(60, width-4)

	lines := []string{theme.ModalTitle.Render("  godupes - Keyboard Shortcuts"), ""}
	for _, sec := range helpSections {
		lines = append(lines, lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent).
			Render("  "+sec.name))

		for _, b := range sec.binds {
			k := theme.HelpKey.Width(14).Render("    " + b.key)
			d := lipgloss.NewStyle().Foreground(theme.TextSecondary).Render(b.desc)
			lines = append(lines, fmt.Sprintf("%s %s", k, d))
		}
		lines = append(lines, "")
	}
	lines = append(lines, theme.HelpDesc.Render("  Press ? or Esc to close"))

	box := theme.ModalStyle.
		Width(max(boxWidth, 0)).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
