// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package notify implements the one-shot, fire-and-forget outbound
// signal to the foreground UI: "a processed record with this id is
// ready for confirmation". The underlying requirement is a single
// shell command; Notifier exists so tests can substitute a recording
// implementation instead of actually shelling out.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Notifier signals the foreground UI that record id is ready.
// Implementations must not block the caller for longer than is needed
// to start the command — they do not wait for the UI to act.
type Notifier interface {
	Notify(ctx context.Context, id int64)
}

// ShellNotifier is the production Notifier: it runs the am start
// intent that opens the confirmation surface. Failures are logged and
// swallowed — the caller's response to the client is unaffected.
type ShellNotifier struct {
	logger *slog.Logger
}

// NewShellNotifier builds a ShellNotifier that logs failures through logger.
func NewShellNotifier(logger *slog.Logger) *ShellNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ShellNotifier{logger: logger}
}

func (n *ShellNotifier) Notify(ctx context.Context, id int64) {
	uri := fmt.Sprintf("autoaccounting://bill?id=%d", id)
	cmd := exec.CommandContext(ctx, "am", "start",
		"-a", "net.ankio.auto.ACTION_SHOW_FLOATING_WINDOW",
		"-d", uri,
		"--ez", "android.intent.extra.NO_ANIMATION", "true",
		"-f", "0x10000000",
	)
	if err := cmd.Run(); err != nil {
		n.logger.Error("notifying foreground UI failed", "id", id, "error", err)
	}
}

// RecordingNotifier is a test double that remembers every id it was
// asked to notify, instead of shelling out.
type RecordingNotifier struct {
	IDs []int64
}

func (n *RecordingNotifier) Notify(_ context.Context, id int64) {
	n.IDs = append(n.IDs, id)
}
