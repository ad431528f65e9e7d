// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const assetsMapTable = "assetsMap"

type assetsMapHandler struct {
	svc *Service
}

func (h *assetsMapHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		return rowsToMaps(engine.SelectConditional(ctx, assetsMapTable, "", nil)), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, assetsMapTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "update":
		var req struct {
			Row storage.Row `json:"row"`
			ID  int64       `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Update(ctx, assetsMapTable, req.Row, req.ID)
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, assetsMapTable, req.ID)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", assetsMapTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}
