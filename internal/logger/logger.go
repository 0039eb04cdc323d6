// Package logger configures the logrus logger used by the repogen command.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

// NewLogger returns a text logger writing to stderr. Verbose enables debug
// output.
func NewLogger(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

// New returns a text logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return &Logger{Logger: log}
}

// WithTable returns an entry scoped to a table.
func (l *Logger) WithTable(table string) *logrus.Entry {
	return l.WithField("table", table)
}
