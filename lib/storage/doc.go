// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package storage wraps an embedded SQLite database behind a small set
// of generic, parameter-bound operations: Insert, Update, Remove,
// SelectByID, SelectConditional, Page, and ExecuteSQL. Every entity the
// rest of the service persists is described once, in cmd/ledgerd's
// schema.go, as a Table of typed Fields; the operations in this package never
// reference an entity's field names directly — they walk the Table
// descriptor the caller supplies.
//
// Values flow across the package boundary as map[string]any: string
// keys are column names, and values are int64, float64, string, or
// nil, matching SQLite's own storage classes. Callers at the handler
// edge are responsible for translating to and from their own typed
// request/response shapes.
//
// All statements are parameter-bound; no caller-supplied value is ever
// concatenated into SQL text. The multi-statement book_name/sync
// operation uses WithTransaction, which wraps the work in an immediate
// SQLite transaction and rolls back on any error. The reference-bill
// add (book_bill/add) inserts a single row and runs no transaction.
package storage
