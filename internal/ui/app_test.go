package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/fsys/fsystest"
	"github.com/sadopc/godupes/internal/logging"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/ops"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	fs := fsystest.New().
		File("/data/a.jpg", "photo-bytes").
		File("/data/b.jpg", "photo-bytes").
		File("/data/x.txt", "hi").
		File("/data/y.txt", "hi").
		File("/data/z.txt", "hi").
		File("/data/unique.txt", "something else entirely")

	opts := dedupe.DefaultOptions()
	opts.Log = logging.Discard()
	app := NewApp(fs, []string{"/data"}, opts)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app
}

func runSearch(t *testing.T, app *App) {
	t.Helper()
	msg := app.searchCmd()()
	done, ok := msg.(SearchDoneMsg)
	if !ok {
		t.Fatalf("expected SearchDoneMsg, got %T", msg)
	}
	if done.Err != nil {
		t.Fatalf("search failed: %v", done.Err)
	}
	app.Update(done)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAppFatalError_SetOnSearchError(t *testing.T) {
	app := NewApp(fsystest.New(), []string{"/missing"}, dedupe.DefaultOptions())
	searchErr := errors.New("search failed")

	_, cmd := app.Update(SearchDoneMsg{Err: searchErr})
	if !errors.Is(app.FatalError(), searchErr) {
		t.Fatalf("expected fatal error %v, got %v", searchErr, app.FatalError())
	}
	if cmd == nil {
		t.Fatal("expected quit command on search error")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestAppFatalError_NotSetByStatusMessages(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)

	app.Update(ExportDoneMsg{Path: "out.json"})
	if app.FatalError() != nil {
		t.Fatalf("expected nil fatal error, got %v", app.FatalError())
	}
	if app.statusMsg == "" {
		t.Fatal("expected status message to be set for successful export")
	}
}

func TestApp_SearchPopulatesGroups(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)

	if app.state != StateBrowsing {
		t.Fatalf("state = %v, want StateBrowsing", app.state)
	}
	if len(app.groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(app.groups))
	}
	// Default sort is wasted bytes descending: 11 bytes beats 2*2 bytes.
	if got := app.groups[0].Files[0].Path; got != "/data/a.jpg" {
		t.Errorf("first group = %s, want /data/a.jpg", got)
	}

	view := app.View()
	for _, want := range []string{"godupes", "Duplicate groups", "/data/a.jpg", "/data/x.txt"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "unique.txt") {
		t.Error("unique file should not be listed")
	}
}

func TestApp_SearchReportsProgress(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)

	app.progressMu.Lock()
	p := app.latestProgress
	app.progressMu.Unlock()
	if !p.Done || p.FilesScanned != 6 {
		t.Errorf("expected the final progress update to be relayed, got %+v", p)
	}
}

func TestApp_SortKeysReorderAndKeepSelection(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)

	app.Update(keyMsg("c")) // count, descending
	if got := len(app.groups[0].Files); got != 3 {
		t.Fatalf("first group has %d files, want 3", got)
	}
	if app.groups[app.cursor].Files[0].Path != "/data/a.jpg" {
		t.Error("selection should follow the selected group")
	}

	app.Update(keyMsg("c")) // count, ascending
	if app.sortConfig.Order != model.SortAsc {
		t.Fatal("second press should flip the order")
	}
	if got := len(app.groups[0].Files); got != 2 {
		t.Fatalf("first group has %d files, want 2", got)
	}
}

func TestApp_DetailViewAndBack(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)

	app.Update(keyMsg("j"))
	if app.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", app.cursor)
	}
	app.Update(keyMsg("j"))
	if app.cursor != 1 {
		t.Fatalf("cursor moved past the last group: %d", app.cursor)
	}

	app.Update(keyMsg("enter"))
	if app.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", app.state)
	}
	view := app.View()
	for _, want := range []string{"Group 2 of 2", "/data/y.txt", "/data/z.txt", "sha256"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	app.Update(keyMsg("esc"))
	if app.state != StateBrowsing {
		t.Fatalf("state = %v, want StateBrowsing", app.state)
	}
}

func TestApp_HelpReturnsToPreviousState(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)
	app.Update(keyMsg("enter"))

	app.Update(keyMsg("?"))
	if app.state != StateHelp {
		t.Fatalf("state = %v, want StateHelp", app.state)
	}
	app.Update(keyMsg("?"))
	if app.state != StateDetail {
		t.Fatalf("state = %v, want StateDetail", app.state)
	}
}

func TestApp_ExportWritesSortedReport(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)
	app.ExportPath = filepath.Join(t.TempDir(), "out.json")
	app.Update(keyMsg("c"))

	_, cmd := app.Update(keyMsg("E"))
	if app.state != StateExporting {
		t.Fatalf("state = %v, want StateExporting", app.state)
	}
	done, ok := cmd().(ExportDoneMsg)
	if !ok || done.Err != nil {
		t.Fatalf("export failed: %+v", done)
	}
	app.Update(done)
	if app.state != StateBrowsing {
		t.Fatalf("state = %v, want StateBrowsing", app.state)
	}

	report, err := ops.ImportJSON(app.ExportPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Groups) != 2 || len(report.Groups[0].Files) != 3 {
		t.Fatalf("export should follow the on-screen order, got %+v", report.Groups)
	}
}

func TestApp_ImportMode(t *testing.T) {
	app := newTestApp(t)
	runSearch(t, app)
	path := filepath.Join(t.TempDir(), "saved.json")
	if err := ops.ExportJSON(app.report, path, "test"); err != nil {
		t.Fatal(err)
	}

	imp := NewAppFromImport(path)
	imp.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	imp.Update(imp.importCmd()())
	if imp.FatalError() != nil {
		t.Fatal(imp.FatalError())
	}
	if len(imp.groups) != 2 {
		t.Fatalf("expected 2 imported groups, got %d", len(imp.groups))
	}

	imp.Update(keyMsg("r"))
	if imp.state != StateBrowsing || !strings.Contains(imp.statusMsg, "not available") {
		t.Fatalf("rescan should be refused in import mode: state=%v msg=%q", imp.state, imp.statusMsg)
	}
}

func TestApp_ImportMissingFileIsFatal(t *testing.T) {
	imp := NewAppFromImport(filepath.Join(t.TempDir(), "nope.json"))
	imp.Update(imp.importCmd()())
	if imp.FatalError() == nil || !errors.Is(imp.FatalError(), os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", imp.FatalError())
	}
}
