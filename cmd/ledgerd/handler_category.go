// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const categoryTable = "category"

type categoryHandler struct {
	svc *Service
}

func (h *categoryHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		var req struct {
			Page   int    `json:"page"`
			Size   int    `json:"size"`
			Book   string `json:"book"`
			Type   *int   `json:"type"`
			Parent *int64 `json:"parent"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}

		var conditions []string
		var params []any
		if req.Book != "" {
			conditions = append(conditions, "book = ?")
			params = append(params, req.Book)
		}
		if req.Type != nil {
			conditions = append(conditions, "type = ?")
			params = append(params, *req.Type)
		}
		if req.Parent != nil {
			conditions = append(conditions, "parent = ?")
			params = append(params, *req.Parent)
		}
		condition := joinAnd(conditions)

		return rowsToMaps(engine.Page(ctx, categoryTable, req.Page, req.Size, condition, params, "")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, categoryTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "get":
		var req struct {
			Name string `json:"name"`
			Book string `json:"book"`
			Type int    `json:"type"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		rows := engine.SelectConditional(ctx, categoryTable, "name = ? AND book = ? AND type = ?",
			[]any{req.Name, req.Book, req.Type})
		if len(rows) == 0 {
			return nil, nil
		}
		return rowToMap(rows[0]), nil

	case "del":
		// The underlying convention's remove handler for this module
		// operated on assetsMap instead of category — an evident copy-paste
		// bug. This removes the category row itself, as intended.
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, categoryTable, req.ID)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", categoryTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}

func joinAnd(conditions []string) string {
	out := ""
	for i, c := range conditions {
		if i > 0 {
			out += " AND "
		}
		out += c
	}
	return out
}
