// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/autoledger/ledgerd/lib/storage"
)

var tokenPattern = regexp.MustCompile(`^[0-9A-Za-z]{32}$`)

func newTestEngine(t *testing.T) *storage.Engine {
	t.Helper()
	pool, err := storage.OpenPool(storage.PoolConfig{Path: filepath.Join(t.TempDir(), "test.db"), PoolSize: 2})
	if err != nil {
		t.Fatalf("opening pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	registry := storage.NewRegistry(storage.Table{
		Name: "auth",
		Fields: []storage.Field{
			{Name: "id", Type: storage.Integer, PrimaryKey: true, AutoIncrement: true},
			{Name: "app", Type: storage.Text},
			{Name: "token", Type: storage.Text},
		},
	})
	engine := storage.NewEngine(pool, registry, nil)
	if err := engine.CreateTables(context.Background()); err != nil {
		t.Fatalf("creating tables: %v", err)
	}
	return engine
}

func TestGenerateProducesValidToken(t *testing.T) {
	tok, err := Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !tokenPattern.MatchString(tok) {
		t.Fatalf("token %q does not match expected alphabet/length", tok)
	}
}

func TestBootstrapCreatesAndPublishesToken(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	workspace := t.TempDir()
	appsFile := filepath.Join(workspace, "apps.txt")
	if err := os.WriteFile(appsFile, []byte("net.ankio.auto.helper\n\n"), 0644); err != nil {
		t.Fatalf("writing apps.txt: %v", err)
	}

	publishRoot := t.TempDir()
	manager := New(engine, nil, publishRoot)
	if err := manager.Bootstrap(ctx, appsFile); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	rows := engine.SelectConditional(ctx, "auth", "app = ?", []any{"net.ankio.auto.helper"})
	if len(rows) != 1 {
		t.Fatalf("expected 1 auth row, got %d", len(rows))
	}
	stored := rows[0]["token"].(string)
	if !tokenPattern.MatchString(stored) {
		t.Fatalf("stored token %q invalid", stored)
	}

	published, err := os.ReadFile(filepath.Join(publishRoot, "net.ankio.auto.helper", "token.txt"))
	if err != nil {
		t.Fatalf("reading published token: %v", err)
	}
	if string(published) != stored {
		t.Fatalf("published token %q does not match stored %q", published, stored)
	}
}

func TestVerifyMismatchResheals(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)
	engine.Insert(ctx, "auth", storage.Row{"app": "alipay", "token": "correct-token-value-0000000000000"[:32]})

	publishRoot := t.TempDir()
	manager := New(engine, nil, publishRoot)

	if manager.Verify(ctx, "alipay", "wrong-token") {
		t.Fatalf("expected mismatch to fail verification")
	}

	published, err := os.ReadFile(filepath.Join(publishRoot, "alipay", "token.txt"))
	if err != nil {
		t.Fatalf("reading republished token: %v", err)
	}
	if len(published) != 32 {
		t.Fatalf("republished token has unexpected length %d", len(published))
	}

	if !manager.Verify(ctx, "alipay", string(published)) {
		t.Fatalf("expected correct token to verify")
	}
}
