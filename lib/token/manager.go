// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/autoledger/ledgerd/lib/storage"
)

// alphabet is the character set tokens are drawn from: digits, then
// uppercase, then lowercase — 62 characters, so each character costs
// just under 6 bits of entropy.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// length is the fixed length of every generated token. The auth.token
// column itself is plain TEXT and does not enforce it.
const length = 32

// authTable is the table name the Manager reads and writes.
const authTable = "auth"

// Manager owns the lifecycle of per-app tokens: generation, storage in
// the auth table, and publication to a companion app's own filesystem
// path.
type Manager struct {
	engine      *storage.Engine
	logger      *slog.Logger
	publishRoot string
}

// New builds a Manager. publishRoot is the directory companion token
// files are published under, one subdirectory per app id — in
// production this is "/sdcard/Android/data"; tests substitute a
// temporary directory.
func New(engine *storage.Engine, logger *slog.Logger, publishRoot string) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{engine: engine, logger: logger, publishRoot: publishRoot}
}

// Bootstrap reads the newline-delimited app list at appsFilePath.
// Blank lines are skipped and surrounding whitespace is trimmed. For
// each app, it ensures an auth row exists (generating and inserting a
// fresh token if not) and attempts to publish the token to the
// companion's filesystem path. A publish failure is logged at ERROR
// and does not abort bootstrap for the remaining apps.
func (m *Manager) Bootstrap(ctx context.Context, appsFilePath string) error {
	data, err := os.ReadFile(appsFilePath)
	if err != nil {
		return fmt.Errorf("token: reading %s: %w", appsFilePath, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		app := strings.TrimSpace(line)
		if app == "" {
			continue
		}

		tok, err := m.ensureToken(ctx, app)
		if err != nil {
			return fmt.Errorf("token: ensuring token for %s: %w", app, err)
		}

		if err := m.publish(app, tok); err != nil {
			m.logger.Error("publishing token failed", "app", app, "error", err)
		}
	}
	return nil
}

// ensureToken returns the app's stored token, generating and
// persisting a new one if none exists yet.
func (m *Manager) ensureToken(ctx context.Context, app string) (string, error) {
	rows := m.engine.SelectConditional(ctx, authTable, "app = ?", []any{app})
	if len(rows) > 0 {
		return rows[0]["token"].(string), nil
	}

	tok, err := Generate()
	if err != nil {
		return "", err
	}
	if id := m.engine.Insert(ctx, authTable, storage.Row{"app": app, "token": tok}); id == 0 {
		return "", fmt.Errorf("token: inserting auth row for %s", app)
	}
	return tok, nil
}

// Verify checks (app, token) against the stored auth row. On a
// mismatch, it re-publishes the correct token to the companion's
// filesystem path — a stale token file on disk is self-healed as a
// side effect of a failed login — and returns false.
func (m *Manager) Verify(ctx context.Context, app, presentedToken string) bool {
	rows := m.engine.SelectConditional(ctx, authTable, "app = ?", []any{app})
	if len(rows) == 0 {
		return false
	}

	stored, _ := rows[0]["token"].(string)
	if stored == presentedToken {
		return true
	}

	if err := m.publish(app, stored); err != nil {
		m.logger.Error("republishing token after mismatch failed", "app", app, "error", err)
	}
	return false
}

// publish writes tok to <publishRoot>/<app>/token.txt, creating the
// directory if necessary, with permissions wide enough for the
// companion app to read it.
func (m *Manager) publish(app, tok string) error {
	dir := filepath.Join(m.publishRoot, app)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("token: creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, "token.txt")
	if err := os.WriteFile(path, []byte(tok), 0644); err != nil {
		return fmt.Errorf("token: writing %s: %w", path, err)
	}
	return nil
}

// Generate returns a fresh 32-character token drawn from alphabet
// using a cryptographically seeded random source.
func Generate() (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("token: reading random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range raw {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out), nil
}
