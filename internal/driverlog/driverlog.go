// Package driverlog configures slog for the command-line driver only.
// Library packages never import it. The handler drops the usual
// key=value prefixes since output goes straight to a terminal, not a
// log aggregator, and exposes a verbose flag that drops the level to
// Debug.
package driverlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// ErrLogging identifies failures writing a log record, as distinct
// from the error a record is reporting.
var ErrLogging = errors.New("driverlog error")

// Configure installs a default logger writing to stderr. verbose
// drops the level to Debug; otherwise only Info and above are shown.
func Configure(verbose bool) {
	ConfigureWithWriter(os.Stderr, verbose)
}

// ConfigureWithWriter installs a default logger writing to w, for
// tests that need to capture output.
func ConfigureWithWriter(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(newHandler(w, level)))
}

func newHandler(w io.Writer, level slog.Level) slog.Handler {
	return &handler{w: w, level: level}
}

// NewHandler returns a slog.Handler with the same terse formatting
// Configure installs, for callers (mainly tests) that want to wire
// their own *slog.Logger instead of touching the package default.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	return newHandler(w, level)
}

// handler is a minimal slog.Handler: one line for the message, one
// line per attribute, no timestamp or level prefix.
type handler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
	group string
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &handler{w: h.w, level: h.level, group: h.group}
	next.attrs = slices.Clone(h.attrs)
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (h *handler) WithGroup(name string) slog.Handler {
	return &handler{w: h.w, level: h.level, attrs: h.attrs, group: name}
}

const attrColumn = 12

func formatAttr(a slog.Attr) string {
	if a.Key == "" {
		return strings.Repeat(" ", attrColumn/2) + fmt.Sprint(a.Value.Any())
	}
	pad := attrColumn - len(a.Key)
	if pad < 0 {
		pad = 0
	}
	return a.Key + ":" + strings.Repeat(" ", pad) + fmt.Sprint(a.Value.Any())
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var lines []string
	for _, a := range h.attrs {
		lines = append(lines, formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.SourceKey {
			return true
		}
		lines = append(lines, formatAttr(a))
		return true
	})

	var b strings.Builder
	if r.Message != "" {
		b.WriteString(r.Message + "\n")
	}
	if len(lines) > 0 {
		b.WriteString(strings.Join(lines, "\n") + "\n")
	}

	if _, err := fmt.Fprint(h.w, b.String()); err != nil {
		return fmt.Errorf("%w: writing log record: %w", ErrLogging, err)
	}
	return nil
}
