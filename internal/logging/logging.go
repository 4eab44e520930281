package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type Options struct {
	Level  string
	JSON   bool
	Output io.Writer // stderr when nil
}

var def atomic.Value

func init() {
	def.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
}

// Configure swaps the process logger. The CLI keeps stdout for results, so
// logs default to stderr.
func Configure(opts Options) {
	cfg := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, cfg)
	} else {
		h = slog.NewTextHandler(out, cfg)
	}
	def.Store(slog.New(h))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// FromEnv overlays CIPHERWEAVE_LOG_LEVEL and CIPHERWEAVE_LOG_JSON on opts.
func FromEnv(opts Options) Options {
	if lvl := os.Getenv("CIPHERWEAVE_LOG_LEVEL"); lvl != "" {
		opts.Level = lvl
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("CIPHERWEAVE_LOG_JSON"))); err == nil {
		opts.JSON = b
	}
	return opts
}
