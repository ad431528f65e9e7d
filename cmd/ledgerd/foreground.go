// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/autoledger/ledgerd/lib/logging"
)

func newForegroundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "foreground [workspace]",
		Short: "run the service in this process, attached to the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := resolveWorkspace(workspaceArg(args))
			if err != nil {
				return withExitCode(err, exitWorkspaceNotFound)
			}
			ws := newWorkspacePaths(workspace)

			if isDaemonChild() {
				os.Exit(runDaemonChild(ws, flagPort))
			}

			logOut, closeLog, err := openLogOutput(os.Stdout, "")
			if err != nil {
				return err
			}
			defer closeLog()

			return runForeground(context.Background(), ws, flagPort, logOut)
		},
	}
}

// openLogOutput returns fallback when logPath is empty, otherwise
// opens logPath for appending. The returned closer is always safe to
// call.
func openLogOutput(fallback *os.File, logPath string) (*os.File, func(), error) {
	if logPath == "" {
		return fallback, func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	return f, func() { f.Close() }, nil
}

// runForeground wires a Service and Transport and serves until ctx is
// cancelled or SIGTERM/SIGINT arrives.
func runForeground(ctx context.Context, workspace workspacePaths, port int, logOut *os.File) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The storage engine's own log table sink isn't available until
	// the Service exists, so the handler is built in two steps: first
	// with a nil sink so startup messages at least reach logOut, then
	// rebound once the engine is open.
	bootLogger := slog.New(logging.NewDBHandlerToWriter(logLevel(workspace), nil, logOut))

	svc, err := NewService(ctx, ServiceConfig{
		Workspace: workspace,
		Logger:    bootLogger,
	})
	if err != nil {
		return withExitCode(err, exitBindAddressError)
	}
	defer svc.Close()

	svc.logger = slog.New(logging.NewDBHandlerToWriter(logLevel(workspace), newServiceLogSink(svc.engine), logOut))

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	transport, err := NewTransport(svc, addr)
	if err != nil {
		return withExitCode(err, exitBindAddressError)
	}
	defer transport.Shutdown()

	svc.logger.Info("listening", "addr", addr)
	err = transport.Serve(ctx)
	svc.logger.Info("stopped")
	return err
}

// exitCodeError pairs an error with the process exit code it should
// produce, so main can translate it without the CLI layer knowing
// about os.Exit directly.
type exitCodeError struct {
	err  error
	code int
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitCodeError{err: err, code: code}
}

func exitCodeOf(err error) int {
	var ece *exitCodeError
	for e := err; e != nil; {
		if asECE, ok := e.(*exitCodeError); ok {
			ece = asECE
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if ece != nil {
		return ece.code
	}
	return exitUsageError
}

