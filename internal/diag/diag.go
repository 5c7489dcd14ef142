// Package diag sets up structured logging.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error; empty means info
	Format string // text or json; empty means text
	Out    io.Writer
}

// New creates a logger. Every entry carries v=1.
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		level, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	var formatter logrus.Formatter
	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case FormatJSON:
		formatter = new(logrus.JSONFormatter)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	logger := &logrus.Logger{
		Out:       out,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     level,
	}
	logger.AddHook(versionHook{})
	return logger, nil
}

type versionHook struct{}

func (versionHook) Levels() []logrus.Level { return logrus.AllLevels }

func (versionHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["v"]; !ok {
		e.Data["v"] = 1
	}
	return nil
}
