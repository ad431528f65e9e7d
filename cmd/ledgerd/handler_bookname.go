// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/autoledger/ledgerd/lib/storage"
)

const bookNameTable = "bookName"

type bookNameHandler struct {
	svc *Service
}

func (h *bookNameHandler) handle(ctx context.Context, function string, data json.RawMessage) (any, error) {
	engine := h.svc.engine

	switch function {
	case "list":
		return rowsToMaps(engine.SelectConditional(ctx, bookNameTable, "", nil)), nil

	case "add":
		var row storage.Row
		if err := decode(data, &row); err != nil {
			return nil, err
		}
		id := engine.Insert(ctx, bookNameTable, row)
		return map[string]any{"status": 0, "message": "success", "id": id}, nil

	case "clear":
		engine.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", bookNameTable), nil, false)
		return successEnvelope(), nil

	case "sync":
		var req struct {
			Books      []storage.Row `json:"books"`
			Categories []storage.Row `json:"categories"`
		}
		if err := decode(data, &req); err != nil {
			return nil, err
		}
		err := engine.WithTransaction(ctx, func(tx *storage.Engine) error {
			tx.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", bookNameTable), nil, false)
			tx.ExecuteSQL(ctx, fmt.Sprintf("DELETE FROM %s", categoryTable), nil, false)
			for _, book := range req.Books {
				// Insert returns 0 on failure; surfacing that as an error
				// is what makes WithTransaction roll back the DELETEs
				// above instead of committing a truncated table.
				if tx.Insert(ctx, bookNameTable, book) == 0 {
					return fmt.Errorf("book_name: sync: inserting book %v failed", book)
				}
			}
			for _, category := range req.Categories {
				if tx.Insert(ctx, categoryTable, category) == 0 {
					return fmt.Errorf("book_name: sync: inserting category %v failed", category)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("book_name: sync: %w", err)
		}
		return successEnvelope(), nil

	default:
		return successEnvelope(), nil
	}
}
