package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/scanner"
	"github.com/sadopc/godupes/internal/ui/style"
	"github.com/sadopc/godupes/internal/util"
)

// RenderScanProgress renders the progress box shown while the search runs.
func RenderScanProgress(theme style.Theme, progress scanner.Progress, width, height int) string {
	boxWidth := min(54, width-4)

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.Primary).
		Render("  " + progress.Stage.String() + "...")

	statStyle := lipgloss.NewStyle().Foreground(theme.TextSecondary)
	lines := []string{title, ""}
	lines = append(lines,
		statStyle.Render(fmt.Sprintf("  Files:  %s", util.FormatCount(progress.FilesScanned))),
		statStyle.Render(fmt.Sprintf("  Dirs:   %s", util.FormatCount(progress.DirsScanned))),
		statStyle.Render(fmt.Sprintf("  Size:   %s", util.FormatSize(progress.BytesFound))),
	)

	if progress.Stage == scanner.StageHash || progress.Stage == scanner.StageDone {
		lines = append(lines,
			statStyle.Render(fmt.Sprintf("  Hashed: %s / %s files",
				util.FormatCount(progress.FilesHashed), util.FormatCount(progress.FilesToHash))),
			statStyle.Render(fmt.Sprintf("  Read:   %s / %s",
				util.FormatSize(progress.BytesHashed), util.FormatSize(progress.BytesToHash))),
		)
		if barW := boxWidth - 6; barW > 0 {
			lines = append(lines, "  "+theme.BarGradient(barW, progress.HashFraction()))
		}
	} else {
		lines = append(lines, statStyle.Render(fmt.Sprintf("  Speed:  %s items/s",
			util.FormatCount(int64(progress.ItemsPerSecond())))))
	}

	if progress.Errors > 0 {
		lines = append(lines, theme.ErrorText.Render(fmt.Sprintf("  Errors: %d", progress.Errors)))
	}

	if progress.CurrentPath != "" && boxWidth > 12 {
		lines = append(lines, "", theme.DigestText.Render("  "+util.TruncateLeft(progress.CurrentPath, boxWidth-8)))
	}

	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(theme.TextMuted).Render(
			fmt.Sprintf("  Elapsed: %.1fs", progress.Duration.Seconds())))

	box := theme.ModalStyle.
		Width(max(boxWidth, 0)).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
