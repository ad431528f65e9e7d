// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

// trimToRecent deletes every row in table beyond the limit most
// recent by primary key, keeping the newest. Used by the handlers
// whose add operation caps table size (appData: 500 rows; log: 5000
// rows). The billInfo cap is by time, not primary key, and is
// enforced by trimSyncedBills instead.
func trimToRecent(ctx context.Context, engine *storage.Engine, table, pkColumn string, limit int) {
	sql := fmt.Sprintf(
		"DELETE FROM %s WHERE %s NOT IN (SELECT %s FROM %s ORDER BY %s DESC LIMIT ?)",
		table, pkColumn, pkColumn, table, pkColumn,
	)
	engine.ExecuteSQL(ctx, sql, []any{limit}, false)
}

// decode unmarshals an envelope's data payload into v. Handlers call
// this once at the top of each function case; a decode failure is
// reported as a protocol-level error, not a storage error.
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding request data: %w", err)
	}
	return nil
}

// rowToMap converts a storage.Row (already a map[string]any) to a
// plain map for JSON responses. It exists to keep handler code from
// importing storage.Row at every call site where the type identity
// doesn't matter.
func rowToMap(row map[string]any) map[string]any {
	if row == nil {
		return nil
	}
	return row
}

// rowsToMaps converts a []storage.Row to a []map[string]any. storage.Row
// is a defined type with underlying type map[string]any, so a []Row is
// not itself assignable to []map[string]any — the element types must be
// identical, not just identically underlain — hence the explicit copy.
func rowsToMaps(rows []storage.Row) []map[string]any {
	maps := make([]map[string]any, len(rows))
	for i, row := range rows {
		maps[i] = row
	}
	return maps
}
