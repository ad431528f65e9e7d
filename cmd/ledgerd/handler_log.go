// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const logTable = "log"
const logRetainLimit = 5000

func (h *logHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
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
		return rowsToMaps(engine.Page(ctx, logTable, req.Page, req.Size, "", nil, "")), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		engine.Insert(ctx, logTable, row)
		trimToRecent(ctx, engine, logTable, "id", logRetainLimit)
		return successEnvelope(), nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", logTable), nil, false)
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}

// logHandler manages the log table. The service's own structured
// logger writes here too, through lib/logging's Sink interface
// (serviceLogSink, defined in logsink.go) — this handler is the
// client-facing counterpart for listing and clearing that same data.
type logHandler struct {
	svc *Service
}
