// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const customRuleTable = "customRule"

type customHandler struct {
	svc *Service
}

func (h *customHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		var req struct {
			Page int    `json:"page"`
			Size int    `json:"size"`
			Book string `json:"book"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		condition, params := "", []any(nil)
		if req.Book != "" {
			condition = "book = ?"
			params = []any{req.Book}
		}
		return rowsToMaps(engine.Page(ctx, customRuleTable, req.Page, req.Size, condition, params, "")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, customRuleTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "update":
		var req struct {
			Row storage.Row `json:"row"`
			ID  int64       `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Update(ctx, customRuleTable, req.Row, req.ID)
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, customRuleTable, req.ID)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", customRuleTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}
