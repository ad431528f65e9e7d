// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autoledger/ledgerd/lib/pidfile"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [workspace]",
		Short: "report whether the service is running",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(workspaceArg(args))
			if err != nil {
				return withExitCode(err, exitWorkspaceNotFound)
			}
			ws := newWorkspacePaths(workspace)

			pid, alive, err := pidfile.Alive(ws.pidPath())
			if err != nil {
				return fmt.Errorf("reading pid file: %w", err)
			}
			if alive {
				fmt.Printf("running (pid %d)\n", pid)
				return nil
			}
			if pid == 0 {
				fmt.Println("stopped (no pid file)")
				return nil
			}
			fmt.Printf("stopped (stale pid file for pid %d)\n", pid)
			return nil
		},
	}
}
