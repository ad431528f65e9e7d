// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveWorkspaceUsesArgWhenGiven(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveWorkspace(dir)
	if err != nil {
		t.Fatalf("resolveWorkspace: %v", err)
	}
	if got != dir {
		t.Fatalf("got %q, want %q", got, dir)
	}
}

func TestResolveWorkspaceRejectsMissingArg(t *testing.T) {
	if _, err := resolveWorkspace(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatalf("expected an error for a nonexistent workspace argument")
	}
}

func TestLogLevelDebugMarkerFileEnablesDebug(t *testing.T) {
	flagDebug = false
	dir := t.TempDir()
	ws := newWorkspacePaths(dir)

	if got := logLevel(ws); got != slog.LevelInfo {
		t.Fatalf("level without marker = %v, want Info", got)
	}

	if err := os.WriteFile(ws.debugMarkerPath(), nil, 0644); err != nil {
		t.Fatalf("writing debug marker: %v", err)
	}
	if got := logLevel(ws); got != slog.LevelDebug {
		t.Fatalf("level with marker = %v, want Debug", got)
	}
}
