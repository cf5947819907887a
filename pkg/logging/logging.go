// Package logging builds component-scoped logrus loggers for the playground.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	once sync.Once
)

func baseLogger() *logrus.Logger {
	once.Do(func() {
		base = logrus.New()
		base.SetOutput(os.Stderr)
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		base.SetLevel(logrus.WarnLevel)
		if raw := os.Getenv("VIBEGPT_LOG_LEVEL"); raw != "" {
			if level, err := logrus.ParseLevel(raw); err == nil {
				base.SetLevel(level)
			}
		}
	})
	return base
}

// NewLogger returns a logger tagged with the given component name.
func NewLogger(component string) *logrus.Entry {
	return baseLogger().WithField("component", component)
}

// SetOutput redirects all loggers. The TUI points this at a file so log lines
// don't tear the rendered screen.
func SetOutput(w io.Writer) {
	baseLogger().SetOutput(w)
}
