// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const billInfoTable = "billInfo"
const billInfoSyncedRetainLimit = 1000

// billHandler manages billInfo: classified transactions, their
// parent/child grouping, and the upstream sync flag.
type billHandler struct {
	svc *Service
}

func (h *billHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		var req struct {
			Page int `json:"page"`
			Size int `json:"size"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return rowsToMaps(engine.Page(ctx, billInfoTable, req.Page, req.Size, "groupId = 0", nil, "time DESC")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, billInfoTable, row)
		restoreGroupInvariant(ctx, engine)
		trimSyncedBills(ctx, engine)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "update":
		var req struct {
			Row storage.Row `json:"row"`
			ID  int64       `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Update(ctx, billInfoTable, req.Row, req.ID)
		restoreGroupInvariant(ctx, engine)
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, billInfoTable, req.ID)
		return successEnvelope(), nil

	case "group":
		var req struct {
			GroupID int64 `json:"groupId"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		return rowsToMaps(engine.SelectConditional(ctx, billInfoTable, "groupId = ?", []any{req.GroupID})), nil

	case "sync/list":
		return rowsToMaps(engine.SelectConditional(ctx, billInfoTable, "groupId = 0 AND syncFromApp = 0", nil)), nil

	case "sync/status":
		var req struct {
			ID   int64 `json:"id"`
			Sync int   `json:"sync"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		// Update replaces every non-primary-key column with what's in
		// the row passed to it, so a bare {"syncFromApp": ...} would
		// zero out the rest of the bill. Read-modify-write instead.
		if row, ok := engine.SelectByID(ctx, billInfoTable, req.ID); ok {
			row["syncFromApp"] = req.Sync
			engine.Update(ctx, billInfoTable, row, req.ID)
		}
		if req.Sync == 1 {
			trimSyncedBills(ctx, engine)
		}
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}

// restoreGroupInvariant deletes any billInfo row whose groupId
// references a non-existent top-level (groupId = 0) parent. Called
// after every insert/update so the invariant holds "after the next
// insert", as specified.
func restoreGroupInvariant(ctx context.Context, engine *storage.Engine) {
	sql := fmt.Sprintf(
		"DELETE FROM %s WHERE groupId != 0 AND groupId NOT IN (SELECT id FROM %s WHERE groupId = 0)",
		billInfoTable, billInfoTable,
	)
	engine.ExecuteSQL(ctx, sql, nil, false)
}

// trimSyncedBills keeps only the 1000 most recent (by time) billInfo
// rows with syncFromApp = 1, deleting older ones.
func trimSyncedBills(ctx context.Context, engine *storage.Engine) {
	sql := fmt.Sprintf(
		`DELETE FROM %s WHERE syncFromApp = 1 AND id NOT IN (
			SELECT id FROM %s WHERE syncFromApp = 1 ORDER BY time DESC LIMIT ?
		)`,
		billInfoTable, billInfoTable,
	)
	engine.ExecuteSQL(ctx, sql, []any{billInfoSyncedRetainLimit}, false)
}
