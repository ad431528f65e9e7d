// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/autoledger/ledgerd/lib/clock"
)

// Entry is one row the handler is ready to persist to the log table.
type Entry struct {
	Date  string // "YYYY-MM-DD HH:MM:SS"
	App   string // fixed "server" for process-originated log lines
	Hook  int64  // 0 = service, 1 = injected
	Level string
	Thread string
	Line  string
	Log   string
}

// Sink persists log entries. WriteLog must never panic and should
// treat its own failures as non-fatal — the handler does not check
// for an error return because there is nothing useful a logger can do
// with a failure to log.
type Sink interface {
	WriteLog(Entry)
}

// DBHandler is a slog.Handler that fans every record out to stdout and
// to a Sink (ordinarily the storage engine's log table). It is built
// once at startup and threaded explicitly through every component that
// logs — there is no package-level global logger.
type DBHandler struct {
	level  slog.Level
	sink   Sink
	out    *os.File
	outMu  *sync.Mutex
	clock  clock.Clock
	attrs  []slog.Attr
	groups []string
}

// NewDBHandler constructs a handler gated at level, writing to
// stdout. Pass a nil sink to disable the log-table half (e.g. before
// storage has opened).
func NewDBHandler(level slog.Level, sink Sink) *DBHandler {
	return NewDBHandlerToWriter(level, sink, os.Stdout)
}

// NewDBHandlerToWriter is NewDBHandler with an explicit output
// stream — the daemon CLI mode redirects this to the workspace log
// file instead of stdout once it has detached from the terminal.
func NewDBHandlerToWriter(level slog.Level, sink Sink, out *os.File) *DBHandler {
	return NewDBHandlerWithClock(level, sink, out, clock.Real())
}

// NewDBHandlerWithClock additionally takes the clock used to stamp a
// record whose own Time field is zero (slog.Record leaves Time unset
// when a test constructs one directly). Tests inject clock.Fake() to
// assert on a deterministic formatted timestamp.
func NewDBHandlerWithClock(level slog.Level, sink Sink, out *os.File, c clock.Clock) *DBHandler {
	return &DBHandler{
		level: level,
		sink:  sink,
		out:   out,
		outMu: &sync.Mutex{},
		clock: c,
	}
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := make([]slog.Attr, len(h.attrs))
	copy(attrs, h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	timestamp := record.Time
	if timestamp.IsZero() {
		timestamp = h.clock.Now()
	}
	formattedTime := timestamp.Format("2006-01-02 15:04:05")

	line := buildLine(formattedTime, record.Level, groupedMessage(h.groups, record.Message), attrs)

	h.outMu.Lock()
	fmt.Fprintln(h.out, line)
	h.outMu.Unlock()

	if h.sink != nil {
		h.sink.WriteLog(Entry{
			Date:   formattedTime,
			App:    "server",
			Hook:   0,
			Level:  record.Level.String(),
			Thread: threadLabel(attrs),
			Line:   groupedMessage(h.groups, record.Message),
			Log:    line,
		})
	}

	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(sliceClone(h.attrs), attrs...)
	return &clone
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(sliceClone(h.groups), name)
	return &clone
}

// sliceClone copies source into a freshly allocated slice so appending
// to the clone never aliases the parent handler's backing array.
func sliceClone[T any](source []T) []T {
	out := make([]T, len(source))
	copy(out, source)
	return out
}

func groupedMessage(groups []string, message string) string {
	if len(groups) == 0 {
		return message
	}
	return strings.Join(groups, ".") + ": " + message
}

func buildLine(formattedTime string, level slog.Level, message string, attrs []slog.Attr) string {
	var b strings.Builder
	b.WriteString(formattedTime)
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] server: ")
	b.WriteString(message)
	for _, a := range attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	return b.String()
}

// threadLabel reports the goroutine-identifying attribute if the
// caller supplied one; otherwise a fixed label, since Go does not
// expose a stable goroutine id the way the source platform's thread
// id was used.
func threadLabel(attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "thread" || a.Key == "connection" {
			return a.Value.String()
		}
	}
	return "main"
}
