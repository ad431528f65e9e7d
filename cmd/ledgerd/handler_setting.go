// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"

	"github.com/autoledger/ledgerd/lib/storage"
)

const settingsTable = "settings"

// settingHandler manages the settings table: a per-app key/value bag.
// (app, key) is unique by convention of the handler, not a schema
// constraint — set is an upsert that first looks the pair up.
type settingHandler struct {
	svc *Service
}

func (h *settingHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "get":
		var req struct {
			App string `json:"app"`
			Key string `json:"key"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		rows := engine.SelectConditional(ctx, settingsTable, "app = ? AND key = ?", []any{req.App, req.Key})
		if len(rows) == 0 {
			return nil, nil
		}
		return rowToMap(rows[0]), nil

	case "set":
		var req struct {
			App string `json:"app"`
			Key string `json:"key"`
			Val string `json:"val"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}

		existing := engine.SelectConditional(ctx, settingsTable, "app = ? AND key = ?", []any{req.App, req.Key})
		if len(existing) > 0 {
			id, _ := existing[0]["id"].(int64)
			engine.Update(ctx, settingsTable, storage.Row{"app": req.App, "key": req.Key, "val": req.Val}, id)
		} else {
			engine.Insert(ctx, settingsTable, storage.Row{"app": req.App, "key": req.Key, "val": req.Val})
		}
		return successEnvelope(), nil

	case "del":
		var req struct {
			ID int64 `json:"id"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		engine.Remove(ctx, settingsTable, req.ID)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}

// settingValue looks up a single settings value for (app, key),
// returning "" if absent. Used internally by the js handler to fetch
// rule/category/custom scripts without going through the envelope
// protocol.
func settingValue(ctx context.Context, engine *storage.Engine, app, key string) string {
	rows := engine.SelectConditional(ctx, settingsTable, "app = ? AND key = ?", []any{app, key})
	if len(rows) == 0 {
		return ""
	}
	val, _ := rows[0]["val"].(string)
	return val
}
