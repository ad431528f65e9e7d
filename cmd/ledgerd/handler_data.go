// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const appDataTable = "appData"
const appDataRetainLimit = 500

// dataHandler manages the appData table: the raw inbound captures
// before they are matched by a rule.
type dataHandler struct {
	svc *Service
}

type dataListRequest struct {
	Page  int    `json:"page"`
	Size  int    `json:"size"`
	Data  string `json:"data"`
	Match *int   `json:"match"`
}

func (h *dataHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		var req dataListRequest
		if err := decode(data, &req); err != nil {
			return nil, err
		}

		var conditions []string
		var params []any
		if req.Match != nil {
			conditions = append(conditions, "match = ?")
			params = append(params, *req.Match)
		}
		if req.Data != "" {
			conditions = append(conditions, "data LIKE ?")
			params = append(params, "%"+req.Data+"%")
		}

		condition := ""
		for i, c := range conditions {
			if i > 0 {
				condition += " AND "
			}
			condition += c
		}

		return rowsToMaps(engine.Page(ctx, appDataTable, req.Page, req.Size, condition, params, "")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, appDataTable, row)
		trimToRecent(ctx, engine, appDataTable, "id", appDataRetainLimit)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "update":
		var req struct {
			Row storage.Row `json:"row"`
			ID  int64       `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Update(ctx, appDataTable, req.Row, req.ID)
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, appDataTable, req.ID)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", appDataTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}
