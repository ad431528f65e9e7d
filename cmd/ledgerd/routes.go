// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
)

// Handler is the single polymorphic operation every module implements.
// function is the part of the envelope's type after the "/"; data is
// the envelope's raw data payload. Handlers are stateless: all state
// lives in the Service they were built from.
type Handler interface {
	handle(ctx context.Context, function string, data json.RawMessage) (any, error)
}

// HandlerFactory builds a fresh Handler bound to svc. A fresh handler
// is constructed per request rather than reused, matching the
// source's per-request handler-object convention; since handlers are
// stateless this costs nothing but a pointer.
type HandlerFactory func(svc *Service) Handler

// RouteRegistry maps a module name to the factory that builds its
// handler. Built once at service start and never mutated afterward.
type RouteRegistry struct {
	factories map[string]HandlerFactory
}

// NewRouteRegistry builds the closed registry of every module this
// service recognizes.
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{factories: map[string]HandlerFactory{
		"login":      func(svc *Service) Handler { return &loginHandler{svc: svc} },
		"data":       func(svc *Service) Handler { return &dataHandler{svc: svc} },
		"log":        func(svc *Service) Handler { return &logHandler{svc: svc} },
		"bill":       func(svc *Service) Handler { return &billHandler{svc: svc} },
		"assets":     func(svc *Service) Handler { return &assetsHandler{svc: svc} },
		"assets_map": func(svc *Service) Handler { return &assetsMapHandler{svc: svc} },
		"book_name":  func(svc *Service) Handler { return &bookNameHandler{svc: svc} },
		"category":   func(svc *Service) Handler { return &categoryHandler{svc: svc} },
		"setting":    func(svc *Service) Handler { return &settingHandler{svc: svc} },
		"custom":     func(svc *Service) Handler { return &customHandler{svc: svc} },
		"rule":       func(svc *Service) Handler { return &ruleHandler{svc: svc} },
		"book_bill":  func(svc *Service) Handler { return &bookBillHandler{svc: svc} },
		"js":         func(svc *Service) Handler { return &jsHandler{svc: svc} },
	}}
}

// Lookup returns the factory registered for module, and whether one
// was found.
func (r *RouteRegistry) Lookup(module string) (HandlerFactory, bool) {
	factory, ok := r.factories[module]
	return factory, ok
}
