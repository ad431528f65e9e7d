// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"fmt"
	"log/slog"

	"github.com/dop251/goja"
)

// Sandbox evaluates script snippets. It carries no state between
// calls. Build one with New; the zero value has no logger.
type Sandbox struct {
	logger *slog.Logger
}

// New builds a Sandbox that logs evaluation failures through logger.
func New(logger *slog.Logger) *Sandbox {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sandbox{logger: logger}
}

// Eval runs source inside a fresh interpreter and returns whatever the
// script first passed to print(). If source never calls print, Eval
// returns the empty string without logging. If source raises an
// exception, Eval logs it at WARN (ERROR is used only when binding
// print itself fails) and returns the empty string — the caller never
// needs to branch on a sandbox error, matching the rest of this
// service's neutral-result-on-failure convention.
func (s *Sandbox) Eval(source string) string {
	vm := goja.New()

	var captured string
	var captureCalled bool

	err := vm.Set("print", func(value string) {
		if !captureCalled {
			captured = value
			captureCalled = true
		}
	})
	if err != nil {
		s.logger.Error("sandbox: binding print failed", "error", err)
		return ""
	}

	_, runErr := vm.RunString(source)
	if runErr != nil {
		if exception, ok := runErr.(*goja.Exception); ok {
			s.logger.Warn("sandbox: script raised", "error", exception.Error(), "stack", exception.String())
		} else {
			s.logger.Warn("sandbox: evaluation failed", "error", runErr)
		}
		return ""
	}

	return captured
}

// EvalError runs source the same way as Eval but returns the
// underlying error instead of logging it, for callers (tests, js/run) that want to
// distinguish "printed empty string" from "evaluation failed".
func (s *Sandbox) EvalError(source string) (string, error) {
	vm := goja.New()

	var captured string
	var captureCalled bool

	if err := vm.Set("print", func(value string) {
		if !captureCalled {
			captured = value
			captureCalled = true
		}
	}); err != nil {
		return "", fmt.Errorf("sandbox: binding print: %w", err)
	}

	if _, err := vm.RunString(source); err != nil {
		return "", fmt.Errorf("sandbox: evaluating script: %w", err)
	}

	return captured, nil
}
