// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const ruleTable = "rule"

// ruleHandler manages rule: the registry of enabled extraction rules.
// name is declared unique on the schema (storage.Field.Unique), so
// add/update on a duplicate name fails at the storage layer rather
// than silently creating a second row with the same name.
type ruleHandler struct {
	svc *Service
}

func (h *ruleHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
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
		rows := rowsToMaps(engine.Page(ctx, ruleTable, req.Page, req.Size, "", nil, ""))
		for _, row := range rows {
			if name, ok := row["name"].(string); ok {
				row["description"] = h.svc.rules.Describe(name)
			}
		}
		return rows, nil

	case "get":
		var req struct {
			Name string `json:"name"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		rows := engine.SelectConditional(ctx, ruleTable, "name = ?", []any{req.Name})
		if len(rows) == 0 {
			return nil, nil
		}
		return rowToMap(rows[0]), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, ruleTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "update":
		var req struct {
			Row storage.Row `json:"row"`
			ID  int64       `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Update(ctx, ruleTable, req.Row, req.ID)
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, ruleTable, req.ID)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", ruleTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}

// ruleByName looks up a single rule row by name, returning (row,
// true) if found. Used internally by the js handler to resolve the
// "auto" flag for a matched channel.
func ruleByName(ctx context.Context, engine *storage.Engine, name string) (storage.Row, bool) {
	rows := engine.SelectConditional(ctx, ruleTable, "name = ?", []any{name})
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}
