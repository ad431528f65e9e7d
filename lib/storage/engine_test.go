// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func testTable() Table {
	return Table{
		Name: "widget",
		Fields: []Field{
			{Name: "id", Type: Integer, PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: Text},
			{Name: "count", Type: Integer},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	pool, err := OpenPool(PoolConfig{Path: dbPath, PoolSize: 2})
	if err != nil {
		t.Fatalf("opening pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	registry := NewRegistry(testTable())
	engine := NewEngine(pool, registry, nil)
	if err := engine.CreateTables(context.Background()); err != nil {
		t.Fatalf("creating tables: %v", err)
	}
	return engine
}

func TestInsertSelectUpdateRemove(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	id := engine.Insert(ctx, "widget", Row{"name": "gear", "count": int64(3)})
	if id == 0 {
		t.Fatalf("insert returned 0")
	}

	row, ok := engine.SelectByID(ctx, "widget", id)
	if !ok {
		t.Fatalf("selectById: not found")
	}
	if row["name"] != "gear" || row["count"] != int64(3) {
		t.Fatalf("unexpected row: %+v", row)
	}

	if !engine.Update(ctx, "widget", Row{"name": "gear2", "count": int64(4)}, id) {
		t.Fatalf("update failed")
	}
	row, _ = engine.SelectByID(ctx, "widget", id)
	if row["name"] != "gear2" || row["count"] != int64(4) {
		t.Fatalf("update did not apply: %+v", row)
	}

	if !engine.Remove(ctx, "widget", id) {
		t.Fatalf("remove failed")
	}
	if _, ok := engine.SelectByID(ctx, "widget", id); ok {
		t.Fatalf("row still present after remove")
	}
}

func TestPageOrderingAndLimit(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	for i := 0; i < 5; i++ {
		engine.Insert(ctx, "widget", Row{"name": "item", "count": int64(i)})
	}

	page := engine.Page(ctx, "widget", 1, 2, "", nil, "")
	if len(page) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page))
	}
	// Default order is primary key descending: last inserted first.
	if page[0]["count"] != int64(4) {
		t.Fatalf("expected most recent row first, got %+v", page[0])
	}

	all := engine.Page(ctx, "widget", 1, 0, "", nil, "")
	if len(all) != 5 {
		t.Fatalf("size<=0 should mean no limit, got %d rows", len(all))
	}
}

func TestSelectConditional(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	engine.Insert(ctx, "widget", Row{"name": "alpha", "count": int64(1)})
	engine.Insert(ctx, "widget", Row{"name": "beta", "count": int64(2)})

	rows := engine.SelectConditional(ctx, "widget", "name = ?", []any{"beta"})
	if len(rows) != 1 || rows[0]["name"] != "beta" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	err := engine.WithTransaction(ctx, func(tx *Engine) error {
		tx.Insert(ctx, "widget", Row{"name": "doomed", "count": int64(1)})
		return context.Canceled
	})
	if err == nil {
		t.Fatalf("expected transaction error")
	}

	rows := engine.SelectConditional(ctx, "widget", "name = ?", []any{"doomed"})
	if len(rows) != 0 {
		t.Fatalf("row should not have survived rollback: %+v", rows)
	}
}

// uniqueWidgetTable mirrors the DELETE-then-reinsert-all shape the
// book_name/sync handler runs inside WithTransaction: a unique column
// lets a mid-loop Insert fail so the rollback path is exercised with
// a genuine storage-level failure rather than a fabricated error.
func uniqueWidgetTable() Table {
	return Table{
		Name: "uniqueWidget",
		Fields: []Field{
			{Name: "id", Type: Integer, PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: Text, Unique: true},
		},
	}
}

func TestWithTransactionRollsBackDeleteThenPartialInsertFailure(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	pool, err := OpenPool(PoolConfig{Path: dbPath, PoolSize: 2})
	if err != nil {
		t.Fatalf("opening pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	registry := NewRegistry(uniqueWidgetTable())
	engine := NewEngine(pool, registry, nil)
	if err := engine.CreateTables(ctx); err != nil {
		t.Fatalf("creating tables: %v", err)
	}

	engine.Insert(ctx, "uniqueWidget", Row{"name": "alpha"})
	engine.Insert(ctx, "uniqueWidget", Row{"name": "beta"})

	err = engine.WithTransaction(ctx, func(tx *Engine) error {
		tx.ExecuteSQL(ctx, "DELETE FROM uniqueWidget", nil, false)
		if tx.Insert(ctx, "uniqueWidget", Row{"name": "gamma"}) == 0 {
			return fmt.Errorf("inserting gamma failed")
		}
		// Duplicate name collides with the UNIQUE constraint, so this
		// Insert returns 0 and the transaction must roll back — the
		// same pattern handler_bookname.go relies on for book_name/sync.
		if tx.Insert(ctx, "uniqueWidget", Row{"name": "gamma"}) == 0 {
			return fmt.Errorf("inserting duplicate gamma failed")
		}
		return nil
	})
	if err == nil {
		t.Fatalf("expected transaction error from duplicate insert")
	}

	rows := engine.SelectConditional(ctx, "uniqueWidget", "", nil)
	if len(rows) != 2 {
		t.Fatalf("expected DELETE to have rolled back, leaving the original 2 rows: got %+v", rows)
	}
	names := map[string]bool{}
	for _, r := range rows {
		names[r["name"].(string)] = true
	}
	if !names["alpha"] || !names["beta"] {
		t.Fatalf("expected original rows alpha and beta to survive rollback: %+v", rows)
	}
}

func TestWithTransactionCommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	err := engine.WithTransaction(ctx, func(tx *Engine) error {
		tx.Insert(ctx, "widget", Row{"name": "kept", "count": int64(1)})
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	rows := engine.SelectConditional(ctx, "widget", "name = ?", []any{"kept"})
	if len(rows) != 1 {
		t.Fatalf("row should have survived commit: %+v", rows)
	}
}
