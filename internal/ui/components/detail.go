package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/ui/style"
	"github.com/sadopc/godupes/internal/util"
)

// DetailLines returns the rendered lines of the detail view for g, before
// scrolling and truncation.
func DetailLines(theme style.Theme, g model.Group, hash string) []string {
	n := int64(len(g.Files))
	cat := g.Category()
	tag := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color())).Render("[" + cat.String() + "]")

	lines := []string{
		fmt.Sprintf("  %s %s, %s each, %s wasted  %s",
			util.FormatInt(n), util.Plural(n, "file"),
			util.FormatSize(g.Size), util.FormatSize(g.Wasted()), tag),
	}
	if g.Digest != "" {
		label := hash
		if label == "" {
			label = "digest"
		}
		lines = append(lines, theme.DigestText.Render(fmt.Sprintf("  %s %s", label, g.Digest)))
	}
	lines = append(lines, "")

	for i, f := range g.Files {
		lines = append(lines, fmt.Sprintf("  %2d. %s", i+1, theme.PrimaryPath.Render(f.Path)))
		for _, link := range f.HardLinks {
			lines = append(lines, "       "+theme.HardLinkPath.Render("= "+link))
		}
		for _, link := range f.Symlinks {
			lines = append(lines, "       "+theme.SymlinkPath.Render("-> "+link))
		}
	}
	return lines
}

// RenderDetail renders the expanded view of one group starting at line
// offset, padded to height rows.
func RenderDetail(theme style.Theme, g model.Group, hash string, offset, width, height int) string {
	lines := DetailLines(theme, g, hash)
	offset = ClampOffset(offset, len(lines), height)

	end := min(offset+height, len(lines))
	out := make([]string, 0, height)
	for _, line := range lines[offset:end] {
		if width > 0 && lipgloss.Width(line) > width {
			line = ansi.Truncate(line, width, "…")
		}
		out = append(out, style.FullWidth(line, width))
	}
	for len(out) < height {
		out = append(out, strings.Repeat(" ", max(width, 0)))
	}
	return strings.Join(out, "\n")
}

// ClampOffset limits a scroll offset so the last page stays full.
func ClampOffset(offset, total, height int) int {
	offset = min(offset, total-height)
	return max(offset, 0)
}
