// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the process logger and hands out
// component-scoped entries.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger. Level is any logrus level name
// ("debug", "info", "warn", ...); format is "text" or "json". If w is nil,
// os.Stderr is used.
func Init(level, format string, w io.Writer) error {
	if w == nil {
		w = os.Stderr
	}

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		lvl = parsed
	}

	std := logrus.StandardLogger()
	std.SetOutput(w)
	std.SetLevel(lvl)

	switch format {
	case "json":
		std.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		std.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return fmt.Errorf("unsupported log format %q: use text or json", format)
	}
	return nil
}

// New returns an entry tagged with a component field.
func New(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

// Discard returns an entry that drops everything written to it.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}
