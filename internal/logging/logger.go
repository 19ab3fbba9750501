package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config selects the level and handler of the lectern logger.
// It is read from the "log" section of lectern.yaml.
type Config struct {
	// Level is debug, info, warn or error. Empty or unknown disables logging.
	Level string `yaml:"level"`
	// Format is FormatText (default) or FormatJSON.
	Format string `yaml:"format"`
}

// New builds the lectern logger described by cfg, writing to w.
// A nil w writes to Stderr so that Stdout stays free for command output
// and the MCP transport. The "error" key is renamed to "err".
func New(cfg Config, w io.Writer) *slog.Logger {
	level, ok := ParseLevel(cfg.Level)
	if !ok {
		return NewNop()
	}
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), FormatJSON) {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" (any case) to a level.
// Empty or unknown names fall back to info and report false.
func ParseLevel(name string) (slog.Level, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return slog.LevelInfo, false
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, false
	}
	return l, true
}
