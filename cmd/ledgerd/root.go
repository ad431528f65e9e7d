// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/autoledger/ledgerd/lib/version"
)

var (
	flagPort  int
	flagDebug bool
)

// newRootCmd builds the "service <command> [workspace]" cobra tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "service",
		Short:   "autoledger background bookkeeping daemon",
		Version: version.Info(),
	}

	root.PersistentFlags().IntVar(&flagPort, "port", DefaultPort, "loopback port the transport listens on")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable DEBUG-level logging")

	if v := os.Getenv("AUTOLEDGER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			flagPort = port
		}
	}

	root.AddCommand(
		newForegroundCmd(),
		newStartCmd(),
		newStopCmd(),
		newRestartCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print detailed build version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.Full())
		},
	}
}

// logLevel reports DEBUG if the --debug flag or a "debug" marker file
// in the workspace is present — either is enough, since an operator
// may not control how the process is launched but can always drop a
// file into the workspace.
func logLevel(workspace workspacePaths) slog.Level {
	if flagDebug {
		return slog.LevelDebug
	}
	if _, err := os.Stat(workspace.debugMarkerPath()); err == nil {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func workspaceArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
