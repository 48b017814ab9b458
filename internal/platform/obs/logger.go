package obs

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var current atomic.Pointer[logrus.Logger]

// Logger returns the process logger (logrus.StandardLogger until SetLogger is called).
func Logger() *logrus.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return logrus.StandardLogger()
}

// SetLogger replaces the process logger.
func SetLogger(l *logrus.Logger) { current.Store(l) }

// NewLogger builds a logrus logger writing to stderr.
// format is "text" (default) or "json".
func NewLogger(level, format string) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("new logger: unknown log format %q", format)
	}

	return l, nil
}
