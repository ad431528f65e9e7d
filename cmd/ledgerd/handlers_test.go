// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/autoledger/ledgerd/lib/notify"
	"github.com/autoledger/ledgerd/lib/storage"
)

// newTestService wires a Service directly against a temp-dir SQLite
// database, bypassing Transport — handler unit tests call handle()
// in-process instead of round-tripping envelopes over a socket.
func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, appsFileName), nil, 0644); err != nil {
		t.Fatalf("writing apps.txt: %v", err)
	}
	svc, err := NewService(context.Background(), ServiceConfig{
		Workspace:   newWorkspacePaths(dir),
		PublishRoot: filepath.Join(dir, "publish"),
		Notifier:    &notify.RecordingNotifier{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

// call invokes a handler and round-trips its result through JSON, the
// same encoding the transport applies to every reply, so callers see
// the same types (float64 for numbers, nil for a missing row) a real
// client would.
func call(t *testing.T, h Handler, function string, req any) map[string]any {
	t.Helper()
	encoded, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	result, err := h.handle(context.Background(), function, encoded)
	if err != nil {
		t.Fatalf("handle %s: %v", function, err)
	}
	bytes, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshaling result: %v", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(bytes, &m); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	return m
}

func TestAssetsAddGetUpdateDelClear(t *testing.T) {
	svc := newTestService(t)
	h := &assetsHandler{svc: svc}

	add := call(t, h, "add", map[string]any{"name": "cash", "icon": "wallet", "sort": 1, "type": 0})
	id := int64(add["id"].(float64))
	if id == 0 {
		t.Fatalf("expected non-zero id, got %+v", add)
	}

	got := call(t, h, "get", map[string]any{"name": "cash"})
	if got["name"] != "cash" {
		t.Fatalf("get returned %+v", got)
	}

	call(t, h, "update", map[string]any{"id": id, "row": map[string]any{"name": "cash", "icon": "new-icon", "sort": 1, "type": 0}})
	got = call(t, h, "get", map[string]any{"name": "cash"})
	if got["icon"] != "new-icon" {
		t.Fatalf("icon after update = %v, want new-icon", got["icon"])
	}

	call(t, h, "del", map[string]any{"id": id})
	got = call(t, h, "get", map[string]any{"name": "cash"})
	if got != nil {
		t.Fatalf("expected no row after del, got %+v", got)
	}

	call(t, h, "add", map[string]any{"name": "bank", "icon": "bank-icon", "sort": 2, "type": 0})
	call(t, h, "clear", map[string]any{})
	list, err := h.handle(context.Background(), "list", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows, ok := list.([]map[string]any); ok && len(rows) != 0 {
		t.Fatalf("expected empty list after clear, got %+v", rows)
	}
}

func TestAssetsMapAddUpdateDelClear(t *testing.T) {
	svc := newTestService(t)
	h := &assetsMapHandler{svc: svc}

	add := call(t, h, "add", map[string]any{"name": "alipay", "mapName": "Alipay"})
	id := int64(add["id"].(float64))

	call(t, h, "update", map[string]any{"id": id, "row": map[string]any{"name": "alipay", "mapName": "Alipay Wallet"}})

	rows := svc.engine.SelectConditional(context.Background(), assetsMapTable, "id = ?", []any{id})
	if len(rows) != 1 || rows[0]["mapName"] != "Alipay Wallet" {
		t.Fatalf("unexpected row after update: %+v", rows)
	}

	call(t, h, "del", map[string]any{"id": id})
	rows = svc.engine.SelectConditional(context.Background(), assetsMapTable, "id = ?", []any{id})
	if len(rows) != 0 {
		t.Fatalf("expected row removed, got %+v", rows)
	}

	call(t, h, "add", map[string]any{"name": "wechat", "mapName": "WeChat"})
	call(t, h, "clear", map[string]any{})
	rows = svc.engine.SelectConditional(context.Background(), assetsMapTable, "", nil)
	if len(rows) != 0 {
		t.Fatalf("expected empty table after clear, got %+v", rows)
	}
}

func TestCategoryListFiltersAndDelRemovesCategoryRow(t *testing.T) {
	svc := newTestService(t)
	h := &categoryHandler{svc: svc}

	add := call(t, h, "add", map[string]any{"name": "Food", "book": "Daily", "type": 0})
	id := int64(add["id"].(float64))
	call(t, h, "add", map[string]any{"name": "Salary", "book": "Daily", "type": 1})
	call(t, h, "add", map[string]any{"name": "Rent", "book": "Other", "type": 0})

	listed, err := h.handle(context.Background(), "list", mustJSON(t, map[string]any{"book": "Daily", "type": 0}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows, ok := listed.([]map[string]any)
	if !ok || len(rows) != 1 || rows[0]["name"] != "Food" {
		t.Fatalf("unexpected filtered list: %+v", listed)
	}

	got := call(t, h, "get", map[string]any{"name": "Food", "book": "Daily", "type": 0})
	if got["name"] != "Food" {
		t.Fatalf("get returned %+v", got)
	}

	call(t, h, "del", map[string]any{"id": id})

	_, stillPresent := svc.engine.SelectByID(context.Background(), categoryTable, id)
	if stillPresent {
		t.Fatalf("expected category row %d removed by del", id)
	}
}

func TestRuleAddGetUpdateDel(t *testing.T) {
	svc := newTestService(t)
	h := &ruleHandler{svc: svc}

	add := call(t, h, "add", map[string]any{"name": "alipay0_rule", "app": "alipay", "type": 0, "use": 1, "auto_record": 0})
	id := int64(add["id"].(float64))

	got := call(t, h, "get", map[string]any{"name": "alipay0_rule"})
	if got["app"] != "alipay" {
		t.Fatalf("get returned %+v", got)
	}

	call(t, h, "update", map[string]any{"id": id, "row": map[string]any{"name": "alipay0_rule", "app": "alipay", "type": 0, "use": 1, "auto_record": 1}})
	row, found := ruleByName(context.Background(), svc.engine, "alipay0_rule")
	if !found || row["auto_record"] != int64(1) {
		t.Fatalf("ruleByName after update = %+v, found=%v", row, found)
	}

	call(t, h, "del", map[string]any{"id": id})
	if _, found := ruleByName(context.Background(), svc.engine, "alipay0_rule"); found {
		t.Fatalf("expected rule removed after del")
	}
}

func TestRuleListAttachesDescriptionFromManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, appsFileName), nil, 0644); err != nil {
		t.Fatalf("writing apps.txt: %v", err)
	}
	manifest := "rules:\n  - key: alipay0_rule\n    app: alipay\n    type: 0\n    description: Alipay expense matcher\n"
	ws := newWorkspacePaths(dir)
	if err := os.WriteFile(ws.rulesConfigPath(), []byte(manifest), 0644); err != nil {
		t.Fatalf("writing rules.yaml: %v", err)
	}

	svc, err := NewService(context.Background(), ServiceConfig{
		Workspace:   ws,
		PublishRoot: filepath.Join(dir, "publish"),
		Notifier:    &notify.RecordingNotifier{},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	h := &ruleHandler{svc: svc}

	call(t, h, "add", map[string]any{"name": "alipay0_rule", "app": "alipay", "type": 0, "use": 1, "auto_record": 0})
	call(t, h, "add", map[string]any{"name": "wechat1_rule", "app": "wechat", "type": 1, "use": 1, "auto_record": 0})

	listed, err := h.handle(context.Background(), "list", mustJSON(t, map[string]any{}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows, ok := listed.([]map[string]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("unexpected list: %+v", listed)
	}
	for _, row := range rows {
		switch row["name"] {
		case "alipay0_rule":
			if row["description"] != "Alipay expense matcher" {
				t.Fatalf("description = %v, want manifest entry", row["description"])
			}
		case "wechat1_rule":
			if row["description"] != "" {
				t.Fatalf("description = %v, want empty for unlisted key", row["description"])
			}
		}
	}
}

func TestCustomRuleListFiltersByBook(t *testing.T) {
	svc := newTestService(t)
	h := &customHandler{svc: svc}

	call(t, h, "add", map[string]any{"book": "Daily", "js": "a"})
	call(t, h, "add", map[string]any{"book": "Other", "js": "b"})

	listed, err := h.handle(context.Background(), "list", mustJSON(t, map[string]any{"book": "Daily"}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows, ok := listed.([]map[string]any)
	if !ok || len(rows) != 1 || rows[0]["book"] != "Daily" {
		t.Fatalf("unexpected filtered list: %+v", listed)
	}

	call(t, h, "clear", map[string]any{})
	rows2 := svc.engine.SelectConditional(context.Background(), customRuleTable, "", nil)
	if len(rows2) != 0 {
		t.Fatalf("expected empty table after clear, got %+v", rows2)
	}
}

func TestBookBillListFiltersByBookAndType(t *testing.T) {
	svc := newTestService(t)
	h := &bookBillHandler{svc: svc}

	call(t, h, "add", map[string]any{"book": "Daily", "type": 0})
	call(t, h, "add", map[string]any{"book": "Daily", "type": 1})
	call(t, h, "add", map[string]any{"book": "Other", "type": 0})

	listed, err := h.handle(context.Background(), "list", mustJSON(t, map[string]any{"book": "Daily", "type": 0}))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	rows, ok := listed.([]map[string]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected filtered list: %+v", listed)
	}
}

func TestBookNameSyncReplacesBooksAndCategoriesAtomically(t *testing.T) {
	svc := newTestService(t)
	h := &bookNameHandler{svc: svc}

	call(t, h, "add", map[string]any{"name": "Stale"})
	categoryH := &categoryHandler{svc: svc}
	call(t, categoryH, "add", map[string]any{"name": "StaleCat", "book": "Stale", "type": 0})

	req := map[string]any{
		"books":      []map[string]any{{"name": "Daily"}, {"name": "Travel"}},
		"categories": []map[string]any{{"name": "Food", "book": "Daily", "type": 0}},
	}
	call(t, h, "sync", req)

	books := svc.engine.SelectConditional(context.Background(), bookNameTable, "", nil)
	if len(books) != 2 {
		t.Fatalf("expected 2 books after sync, got %+v", books)
	}
	cats := svc.engine.SelectConditional(context.Background(), categoryTable, "", nil)
	if len(cats) != 1 || cats[0]["name"] != "Food" {
		t.Fatalf("expected 1 category after sync, got %+v", cats)
	}
}

func TestSettingSetIsUpsertByAppAndKey(t *testing.T) {
	svc := newTestService(t)
	h := &settingHandler{svc: svc}

	call(t, h, "set", map[string]any{"app": "server", "key": "x", "val": "first"})
	call(t, h, "set", map[string]any{"app": "server", "key": "x", "val": "second"})

	rows := svc.engine.SelectConditional(context.Background(), settingsTable, "app = ? AND key = ?", []any{"server", "x"})
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row for (app, key), got %d: %+v", len(rows), rows)
	}
	if rows[0]["val"] != "second" {
		t.Fatalf("val = %v, want second", rows[0]["val"])
	}

	got := call(t, h, "get", map[string]any{"app": "server", "key": "x"})
	if got["val"] != "second" {
		t.Fatalf("get val = %v, want second", got["val"])
	}
}

func TestTrimToRecentKeepsOnlyTheNewestRowsByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 10; i++ {
		lastID = svc.engine.Insert(ctx, logTable, storage.Row{"level": "info", "log": fmt.Sprintf("entry %d", i)})
	}

	trimToRecent(ctx, svc.engine, logTable, "id", 3)

	rows := svc.engine.SelectConditional(ctx, logTable, "", nil)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows retained, got %d: %+v", len(rows), rows)
	}
	for _, row := range rows {
		id, _ := row["id"].(int64)
		if id < lastID-2 {
			t.Fatalf("row %+v should have been trimmed, only the 3 newest ids should remain", row)
		}
	}
}

func TestJSRunReturnsPrintedValueAndSurfacesEvalErrors(t *testing.T) {
	svc := newTestService(t)
	h := &jsHandler{svc: svc}

	result, err := h.handle(context.Background(), "run", mustJSON(t, map[string]any{"js": `print("hi")`}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result != "hi" {
		t.Fatalf("result = %v, want hi", result)
	}

	if _, err := h.handle(context.Background(), "run", mustJSON(t, map[string]any{"js": `this is not valid javascript {{{`})); err == nil {
		t.Fatalf("expected an error for invalid script")
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}
