// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/autoledger/ledgerd/lib/logging"
	"github.com/autoledger/ledgerd/lib/storage"
)

// serviceLogSink adapts the storage engine's log table to
// lib/logging.Sink, so the process-wide slog.Logger's DBHandler can
// persist lines there alongside writing to stdout. Writes are
// best-effort: a storage failure here must never surface back into
// the logging call site, since Engine.Insert already swallows and
// logs its own errors, WriteLog has nothing further to report.
type serviceLogSink struct {
	engine *storage.Engine
}

func newServiceLogSink(engine *storage.Engine) *serviceLogSink {
	return &serviceLogSink{engine: engine}
}

func (s *serviceLogSink) WriteLog(entry logging.Entry) {
	engine := s.engine
	engine.Insert(context.Background(), logTable, storage.Row{
		"date":   entry.Date,
		"app":    entry.App,
		"hook":   entry.Hook,
		"level":  entry.Level,
		"thread": entry.Thread,
		"line":   entry.Line,
		"log":    entry.Log,
	})
	trimToRecent(context.Background(), engine, logTable, "id", logRetainLimit)
}
