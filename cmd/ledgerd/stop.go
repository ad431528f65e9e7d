// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autoledger/ledgerd/lib/pidfile"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [workspace]",
		Short: "stop a running, detached service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(workspaceArg(args))
			if err != nil {
				return withExitCode(err, exitWorkspaceNotFound)
			}
			return stopWorkspace(newWorkspacePaths(workspace))
		},
	}
}

// stopWorkspace sends SIGTERM to the PID recorded for workspace and
// waits briefly for the PID file to disappear, which runDaemonChild
// removes as it exits.
func stopWorkspace(ws workspacePaths) error {
	pid, alive, err := pidfile.Alive(ws.pidPath())
	if err != nil {
		return fmt.Errorf("reading pid file: %w", err)
	}
	if !alive {
		return fmt.Errorf("service is not running")
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signaling pid %d: %w", pid, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, alive, _ := pidfile.Alive(ws.pidPath()); !alive {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("pid %d did not exit within the grace period", pid)
}
