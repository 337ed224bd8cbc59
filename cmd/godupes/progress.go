package main

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/sadopc/godupes/internal/scanner"
)

// progressReporter draws a spinner while walking and a byte bar while
// comparing content. It is also a logrus hook that clears the bar before a
// log line is written to the same terminal; the next update redraws it.
type progressReporter struct {
	w     io.Writer
	stage scanner.Stage
	bar   *progressbar.ProgressBar
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w, stage: scanner.StageResolve}
}

// Update receives progress from dedupe.Find.
func (r *progressReporter) Update(p scanner.Progress) {
	if p.Stage != r.stage || r.bar == nil {
		r.switchStage(p)
	}
	if r.bar == nil {
		return
	}

	switch p.Stage {
	case scanner.StageWalk:
		_ = r.bar.Set64(p.FilesScanned)
	case scanner.StageHash:
		_ = r.bar.Set64(p.BytesHashed)
	}
}

func (r *progressReporter) switchStage(p scanner.Progress) {
	r.finish()
	r.stage = p.Stage

	switch p.Stage {
	case scanner.StageWalk:
		r.bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription("Scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	case scanner.StageHash:
		if p.BytesToHash <= 0 {
			return
		}
		r.bar = progressbar.NewOptions64(p.BytesToHash,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionSetDescription("Comparing"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(25),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
}

func (r *progressReporter) finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

// Levels implements logrus.Hook.
func (r *progressReporter) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (r *progressReporter) Fire(*logrus.Entry) error {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	return nil
}

// Close clears any bar still on screen.
func (r *progressReporter) Close() {
	r.finish()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
