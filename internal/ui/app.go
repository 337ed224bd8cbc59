package ui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/fsys"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/ops"
	"github.com/sadopc/godupes/internal/scanner"
	"github.com/sadopc/godupes/internal/ui/components"
	"github.com/sadopc/godupes/internal/ui/style"
)

// AppState represents the application state.
type AppState int

const (
	StateScanning AppState = iota
	StateBrowsing
	StateDetail
	StateHelp
	StateExporting
)

// SearchDoneMsg is sent when the duplicate search or import completes.
type SearchDoneMsg struct {
	Report *dedupe.Report
	Err    error
}

// ExportDoneMsg is sent when export completes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	Provider   fsys.Provider
	Roots      []string
	Options    dedupe.Options
	ImportPath string
	ExportPath string
	Version    string

	state     AppState
	prevState AppState
	width     int
	height    int

	report     *dedupe.Report
	groups     []model.Group
	sortConfig model.SortConfig

	cursor       int
	offset       int
	detailOffset int

	imported bool

	scanProgress   scanner.Progress
	progressMu     sync.Mutex
	latestProgress scanner.Progress
	scanCancel     context.CancelFunc
	scanCancelMu   sync.Mutex

	theme  style.Theme
	keys   KeyMap
	layout style.Layout

	statusMsg string
	fatalErr  error
}

// NewApp creates an App that searches roots on p.
func NewApp(p fsys.Provider, roots []string, opts dedupe.Options) *App {
	return &App{
		Provider:   p,
		Roots:      roots,
		Options:    opts,
		state:      StateScanning,
		sortConfig: model.DefaultSort(),
		theme:      style.DefaultTheme(),
		keys:       DefaultKeyMap(),
	}
}

// NewAppFromImport creates an App that browses a report saved by ExportJSON.
func NewAppFromImport(importPath string) *App {
	return &App{
		ImportPath: importPath,
		state:      StateScanning,
		sortConfig: model.DefaultSort(),
		imported:   true,
		theme:      style.DefaultTheme(),
		keys:       DefaultKeyMap(),
	}
}

func (a *App) setScanCancel(cancel context.CancelFunc) {
	a.scanCancelMu.Lock()
	a.scanCancel = cancel
	a.scanCancelMu.Unlock()
}

func (a *App) callScanCancel() {
	a.scanCancelMu.Lock()
	if a.scanCancel != nil {
		a.scanCancel()
	}
	a.scanCancelMu.Unlock()
}

func (a *App) Init() tea.Cmd {
	if a.imported {
		return a.importCmd()
	}
	return tea.Batch(a.searchCmd(), a.tickCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = style.NewLayout(msg.Width, msg.Height)
		return a, nil

	case SearchDoneMsg:
		if msg.Err != nil {
			a.fatalErr = msg.Err
			return a, tea.Quit
		}
		a.fatalErr = nil
		a.report = msg.Report
		a.groups = append([]model.Group(nil), msg.Report.Groups...)
		model.SortGroups(a.groups, a.sortConfig)
		a.cursor = 0
		a.offset = 0
		a.detailOffset = 0
		a.state = StateBrowsing
		return a, tea.ClearScreen

	case tickMsg:
		if a.state == StateScanning {
			a.progressMu.Lock()
			a.scanProgress = a.latestProgress
			a.progressMu.Unlock()
			return a, a.tickCmd()
		}
		return a, nil

	case ExportDoneMsg:
		a.state = a.prevState
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			a.statusMsg = fmt.Sprintf("Exported to %s", msg.Path)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.callScanCancel()
		return a, tea.Quit
	}

	switch a.state {
	case StateScanning:
		if key.Matches(msg, a.keys.Quit) {
			a.callScanCancel()
			return a, tea.Quit
		}
		return a, nil

	case StateHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.state = a.prevState
			return a, tea.ClearScreen
		}
		return a, nil

	case StateBrowsing, StateDetail:
		return a.handleBrowsingKey(msg)
	}

	return a, nil
}

func (a *App) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.prevState = a.state
		a.state = StateHelp
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.Up):
		a.scroll(-1)
	case key.Matches(msg, a.keys.Down):
		a.scroll(1)
	case key.Matches(msg, a.keys.PageUp):
		a.scroll(-a.layout.ContentHeight())
	case key.Matches(msg, a.keys.PageDown):
		a.scroll(a.layout.ContentHeight())
	case key.Matches(msg, a.keys.Top):
		a.scroll(-len(a.groups) - a.detailLineCount())
	case key.Matches(msg, a.keys.Bottom):
		a.scroll(len(a.groups) + a.detailLineCount())

	case key.Matches(msg, a.keys.Open):
		if a.state == StateBrowsing && a.selected() != nil {
			a.state = StateDetail
			a.detailOffset = 0
			return a, tea.ClearScreen
		}
	case key.Matches(msg, a.keys.Back):
		if a.state == StateDetail {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}

	case key.Matches(msg, a.keys.SortWasted):
		a.toggleSort(model.SortByWasted)
	case key.Matches(msg, a.keys.SortSize):
		a.toggleSort(model.SortBySize)
	case key.Matches(msg, a.keys.SortCount):
		a.toggleSort(model.SortByCount)
	case key.Matches(msg, a.keys.SortPath):
		a.toggleSort(model.SortByPath)

	case key.Matches(msg, a.keys.Export):
		return a, a.exportCmd()

	case key.Matches(msg, a.keys.Rescan):
		if a.imported {
			a.statusMsg = "Rescan is not available for imported reports"
			return a, nil
		}
		a.progressMu.Lock()
		a.latestProgress = scanner.Progress{}
		a.scanProgress = a.latestProgress
		a.progressMu.Unlock()
		a.cursor = 0
		a.offset = 0
		a.state = StateScanning
		return a, tea.Batch(tea.ClearScreen, a.searchCmd(), a.tickCmd())
	}

	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.state {
	case StateScanning:
		return components.RenderScanProgress(a.theme, a.scanProgress, a.width, a.height)
	case StateHelp:
		return components.RenderHelp(a.theme, a.width, a.height)
	case StateBrowsing, StateDetail, StateExporting:
		return a.renderBrowsing()
	}
	return ""
}

func (a *App) renderBrowsing() string {
	header := components.RenderHeader(a.theme, a.report, a.width)
	subHeader := components.RenderSubHeader(a.theme, a.report, a.width)

	sortLabel := a.sortConfig.Field.String()
	if a.sortConfig.Order == model.SortAsc {
		sortLabel += " ↑"
	} else {
		sortLabel += " ↓"
	}

	var title, content string
	if a.state == StateDetail || (a.state == StateExporting && a.prevState == StateDetail) {
		title = fmt.Sprintf("Group %d of %d", a.cursor+1, len(a.groups))
		content = components.RenderDetail(a.theme, *a.selected(), string(a.report.Hash),
			a.detailOffset, a.layout.ContentWidth(), a.layout.ContentHeight())
	} else {
		title = "Duplicate groups"
		gl := &components.GroupList{
			Theme:       a.theme,
			Layout:      a.layout,
			Groups:      a.groups,
			Cursor:      a.cursor,
			Offset:      a.offset,
			TotalWasted: a.report.Stats.WastedBytes,
		}
		gl.EnsureVisible()
		a.offset = gl.Offset
		content = gl.Render()
	}
	sortBar := components.RenderSortBar(a.theme, title, sortLabel, a.width)

	info := components.StatusInfo{
		Total:    len(a.groups),
		Detail:   a.state == StateDetail,
		Imported: a.imported,
		Message:  a.statusMsg,
	}
	if g := a.selected(); g != nil {
		info.Position = a.cursor + 1
		info.Wasted = g.Wasted()
	}
	statusBar := components.RenderStatusBar(a.theme, info, a.width)

	return header + "\n" + subHeader + "\n" + sortBar + "\n" + content + "\n" + statusBar
}

// scroll moves the group cursor, or the detail view when a group is open.
func (a *App) scroll(delta int) {
	if a.state == StateDetail {
		a.detailOffset = components.ClampOffset(a.detailOffset+delta, a.detailLineCount(), a.layout.ContentHeight())
		return
	}
	a.cursor = max(min(a.cursor+delta, len(a.groups)-1), 0)
}

func (a *App) detailLineCount() int {
	g := a.selected()
	if g == nil || a.state != StateDetail {
		return 0
	}
	return len(components.DetailLines(a.theme, *g, string(a.report.Hash)))
}

func (a *App) selected() *model.Group {
	if a.cursor < 0 || a.cursor >= len(a.groups) {
		return nil
	}
	return &a.groups[a.cursor]
}

func (a *App) toggleSort(field model.SortField) {
	if a.sortConfig.Field == field {
		if a.sortConfig.Order == model.SortDesc {
			a.sortConfig.Order = model.SortAsc
		} else {
			a.sortConfig.Order = model.SortDesc
		}
	} else {
		a.sortConfig.Field = field
		a.sortConfig.Order = model.SortDesc
	}

	// Keep the selected group under the cursor.
	var keep string
	if g := a.selected(); g != nil && len(g.Files) > 0 {
		keep = g.Files[0].Path
	}
	model.SortGroups(a.groups, a.sortConfig)
	for i, g := range a.groups {
		if len(g.Files) > 0 && g.Files[0].Path == keep {
			a.cursor = i
			break
		}
	}
}

// searchCmd runs the duplicate search in a background goroutine. Progress
// callbacks are relayed through a channel into a.latestProgress, which the
// tick handler samples.
func (a *App) searchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		a.setScanCancel(cancel)
		defer cancel()

		progressCh := make(chan scanner.Progress, 10)
		relayDone := make(chan struct{})
		go func() {
			defer close(relayDone)
			for p := range progressCh {
				a.progressMu.Lock()
				a.latestProgress = p
				a.progressMu.Unlock()
			}
		}()

		opts := a.Options
		opts.Progress = func(p scanner.Progress) {
			if p.Done {
				progressCh <- p
				return
			}
			// Drop updates the relay cannot keep up with; the next one supersedes them.
			select {
			case progressCh <- p:
			default:
			}
		}

		report, err := dedupe.Find(ctx, a.Provider, a.Roots, opts)
		close(progressCh)
		<-relayDone

		return SearchDoneMsg{Report: report, Err: err}
	}
}

func (a *App) importCmd() tea.Cmd {
	return func() tea.Msg {
		report, err := ops.ImportJSON(a.ImportPath)
		return SearchDoneMsg{Report: report, Err: err}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// FatalError returns a fatal search or import error, if any.
func (a *App) FatalError() error { return a.fatalErr }

func (a *App) exportCmd() tea.Cmd {
	if a.report == nil {
		return nil
	}

	exportPath := a.ExportPath
	if exportPath == "" {
		exportPath = "godupes-report.json"
	}

	a.prevState = a.state
	a.state = StateExporting

	// The export reflects the on-screen order.
	report := *a.report
	report.Groups = append([]model.Group(nil), a.groups...)
	version := a.Version
	return func() tea.Msg {
		err := ops.ExportJSON(&report, exportPath, version)
		return ExportDoneMsg{Path: exportPath, Err: err}
	}
}
