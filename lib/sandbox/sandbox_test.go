// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import "testing"

func TestEvalReturnsPrintedValue(t *testing.T) {
	s := New(nil)
	got := s.Eval(`print("hello")`)
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestEvalOnlyFirstPrintCaptured(t *testing.T) {
	s := New(nil)
	got := s.Eval(`print("first"); print("second")`)
	if got != "first" {
		t.Fatalf("got %q, want %q", got, "first")
	}
}

func TestEvalWithoutPrintReturnsEmpty(t *testing.T) {
	s := New(nil)
	got := s.Eval(`var x = 1 + 1;`)
	if got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestEvalExceptionReturnsEmpty(t *testing.T) {
	s := New(nil)
	got := s.Eval(`throw new Error("boom")`)
	if got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}

func TestEvalIsStatelessBetweenCalls(t *testing.T) {
	s := New(nil)
	s.Eval(`globalThis.leaked = "yes"`)
	got := s.Eval(`print(typeof globalThis.leaked)`)
	if got != "undefined" {
		t.Fatalf("expected no state to survive between calls, got %q", got)
	}
}

func TestEvalErrorSurfacesFailure(t *testing.T) {
	s := New(nil)
	if _, err := s.EvalError(`this is not valid javascript {{{`); err == nil {
		t.Fatalf("expected a parse error")
	}
}
