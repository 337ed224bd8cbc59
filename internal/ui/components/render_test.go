package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/scanner"
	"github.com/sadopc/godupes/internal/ui/style"
)

func sampleGroups() []model.Group {
	return []model.Group{
		{
			Size:   100,
			Digest: "abc123",
			Files: []*model.Record{
				{Path: "/data/a.jpg", Size: 100, HardLinks: []string{"/data/hard.jpg"}},
				{Path: "/data/b.jpg", Size: 100, Symlinks: []string{"/data/link.jpg"}},
			},
		},
		{
			Size:   10,
			Digest: "def456",
			Files: []*model.Record{
				{Path: "/data/x.txt", Size: 10},
				{Path: "/data/y.txt", Size: 10},
				{Path: "/data/z.txt", Size: 10},
			},
		},
	}
}

func TestRenderHelp_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	for _, w := range []int{0, 1, 2, 5} {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("RenderHelp panicked at width=%d: %v", w, r)
				}
			}()
			RenderHelp(theme, w, 10)
		})
	}
}

func TestRenderScanProgress_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	for _, stage := range []scanner.Stage{scanner.StageWalk, scanner.StageHash} {
		p := scanner.Progress{Stage: stage, CurrentPath: "/some/long/path/file.bin", FilesToHash: 2, BytesToHash: 10}
		for _, w := range []int{0, 1, 2, 5} {
			t.Run(stage.String(), func(t *testing.T) {
				defer func() {
					if r := recover(); r != nil {
						t.Fatalf("RenderScanProgress panicked at width=%d: %v", w, r)
					}
				}()
				RenderScanProgress(theme, p, w, 10)
			})
		}
	}
}

func TestRenderScanProgress_ShowsHashCounts(t *testing.T) {
	p := scanner.Progress{Stage: scanner.StageHash, FilesHashed: 3, FilesToHash: 7}
	out := RenderScanProgress(style.DefaultTheme(), p, 80, 24)
	if !strings.Contains(out, "Comparing") {
		t.Errorf("expected stage title, got:\n%s", out)
	}
	if !strings.Contains(out, "3 / 7 files") {
		t.Errorf("expected hash counts, got:\n%s", out)
	}
}

func TestGroupList_RowsFitWidth(t *testing.T) {
	layout := style.NewLayout(80, 10)
	gl := &GroupList{
		Theme:       style.DefaultTheme(),
		Layout:      layout,
		Groups:      sampleGroups(),
		TotalWasted: 120,
	}
	out := gl.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != layout.ContentHeight() {
		t.Fatalf("expected %d lines, got %d", layout.ContentHeight(), len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 80 {
			t.Errorf("line %d width = %d, want 80: %q", i, w, line)
		}
	}
	if !strings.Contains(lines[0], "/data/a.jpg") || !strings.Contains(lines[1], "/data/x.txt") {
		t.Errorf("rows should show primary paths in order:\n%s", out)
	}
}

func TestGroupList_Empty(t *testing.T) {
	gl := &GroupList{Theme: style.DefaultTheme(), Layout: style.NewLayout(40, 8)}
	if out := gl.Render(); !strings.Contains(out, "No duplicate files found.") {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestGroupList_EnsureVisible(t *testing.T) {
	gl := &GroupList{Layout: style.NewLayout(80, 7), Cursor: 10} // 3 content rows
	gl.EnsureVisible()
	if gl.Offset != 8 {
		t.Errorf("Offset = %d, want 8", gl.Offset)
	}
	gl.Cursor = 2
	gl.EnsureVisible()
	if gl.Offset != 2 {
		t.Errorf("Offset = %d, want 2", gl.Offset)
	}
}

func TestDetailLines_Markers(t *testing.T) {
	lines := DetailLines(style.DefaultTheme(), sampleGroups()[0], "sha256")
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"2 files, 100 B each, 100 B wasted",
		"[Media]",
		"sha256 abc123",
		"1. /data/a.jpg",
		"= /data/hard.jpg",
		"2. /data/b.jpg",
		"-> /data/link.jpg",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("detail view missing %q:\n%s", want, joined)
		}
	}
}

func TestRenderDetail_TruncatesAndPads(t *testing.T) {
	g := model.Group{Size: 1, Digest: "d", Files: []*model.Record{
		{Path: "/" + strings.Repeat("x", 200)},
		{Path: "/y"},
	}}
	out := RenderDetail(style.DefaultTheme(), g, "sha256", 0, 40, 12)
	lines := strings.Split(out, "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct{ offset, total, height, want int }{
		{0, 5, 10, 0},
		{3, 5, 10, 0},
		{3, 20, 10, 3},
		{15, 20, 10, 10},
		{-2, 20, 10, 0},
	}
	for _, tt := range tests {
		if got := ClampOffset(tt.offset, tt.total, tt.height); got != tt.want {
			t.Errorf("ClampOffset(%d,%d,%d) = %d, want %d", tt.offset, tt.total, tt.height, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	report := &dedupe.Report{Roots: []string{"/data"}}
	report.Stats.Groups = 2
	report.Stats.WastedBytes = 2048
	out := RenderHeader(style.DefaultTheme(), report, 80)
	for _, want := range []string{"godupes", "/data", "2 groups", "2.0 KiB wasted"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q: %q", want, out)
		}
	}
	if RenderHeader(style.DefaultTheme(), nil, 80) != "" {
		t.Error("nil report should render nothing")
	}
}

func TestRenderStatusBar(t *testing.T) {
	theme := style.DefaultTheme()
	out := RenderStatusBar(theme, StatusInfo{Position: 1, Total: 3, Wasted: 1024}, 100)
	if !strings.Contains(out, "1/3") || !strings.Contains(out, "1.0 KiB reclaimable") {
		t.Errorf("unexpected status bar: %q", out)
	}
	out = RenderStatusBar(theme, StatusInfo{Message: "Exported to x.json"}, 100)
	if !strings.Contains(out, "Exported to x.json") {
		t.Errorf("message not shown: %q", out)
	}
	out = RenderStatusBar(theme, StatusInfo{}, 100)
	if !strings.Contains(out, "no duplicates") {
		t.Errorf("empty state not shown: %q", out)
	}
}
