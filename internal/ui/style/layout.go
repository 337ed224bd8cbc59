package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout splits the terminal into header, content and status rows.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// chromeRows is header + sub-header + sort bar + status bar.
const chromeRows = 4

// ContentHeight returns the rows left for the group list or detail view.
func (l Layout) ContentHeight() int {
	return max(l.Height-chromeRows, 1)
}

// ContentWidth returns the width available for the main content area.
func (l Layout) ContentWidth() int {
	return max(l.Width, 20)
}

// BarWidth returns the width of the wasted-share bar in group rows.
func (l Layout) BarWidth() int {
	return min(max(l.ContentWidth()-l.rowOverhead()-minPathWidth, 5), 30)
}

const minPathWidth = 12

// PathWidth returns the width left for the primary path of a group row.
func (l Layout) PathWidth() int {
	return max(l.ContentWidth()-l.rowOverhead()-l.BarWidth(), 8)
}

// rowOverhead is every fixed-width part of a group row:
//
//	" >" cursor(2) + pct(6) + " [" + bar + "] "(4) + count(5) + " x "(3) + path + " " + size(10)
func (l Layout) rowOverhead() int {
	return 2 + 6 + 4 + 5 + 3 + 1 + 10
}

// Center centers content in the available width.
func (l Layout) Center(content string) string {
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Center, content)
}

// FullWidth pads s with spaces to exactly width visible cells. Wider strings
// are returned unchanged.
func FullWidth(s string, width int) string {
	visLen := lipgloss.Width(s)
	if visLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visLen)
}
