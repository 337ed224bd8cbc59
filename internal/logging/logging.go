// Package logging builds the logrus logger shared by the pipeline stages.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing plain text lines to w. Verbosity 0 logs at
// info, 1 at debug, 2 or more at trace, and negative values only warnings.
func New(w io.Writer, verbosity int) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
	log.SetLevel(Level(verbosity))
	return log
}

// Level maps a verbosity count to a logrus level.
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity < 0:
		return logrus.WarnLevel
	case verbosity == 0:
		return logrus.InfoLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.PanicLevel)
	return log
}

// OrDiscard returns log, or a discarding logger if log is nil.
func OrDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return Discard()
	}
	return log
}
