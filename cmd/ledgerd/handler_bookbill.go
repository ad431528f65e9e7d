// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const bookBillTable = "bookBill"

type bookBillHandler struct {
	svc *Service
}

func (h *bookBillHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		var req struct {
			Page int    `json:"page"`
			Size int    `json:"size"`
			Book string `json:"book"`
			Type *int   `json:"type"`
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

		return rowsToMaps(engine.Page(ctx, bookBillTable, req.Page, req.Size, joinAnd(conditions), params, "")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, bookBillTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", bookBillTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}
