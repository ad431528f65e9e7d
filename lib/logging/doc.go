// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides the service's dual-sink structured logger:
// a log/slog.Handler that writes every record both to stdout and, on a
// best-effort basis, to the workspace's log table.
//
// A storage failure while writing the log table is never allowed to
// raise — Sink.WriteLog returns no error, and the service's log-table
// sink relies on the storage engine, which logs and swallows its own
// insert failures, since
// the log table is a convenience for later inspection, not a record of
// truth the rest of the service depends on.
package logging
