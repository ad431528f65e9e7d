// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/autoledger/ledgerd/lib/notify"
	"github.com/autoledger/ledgerd/lib/rulesconfig"
	"github.com/autoledger/ledgerd/lib/sandbox"
	"github.com/autoledger/ledgerd/lib/storage"
	"github.com/autoledger/ledgerd/lib/token"
)

// tokenPublishRoot is the companion app's filesystem area token files
// are mirrored into. A deployment without an actual companion
// filesystem (a non-Android host) still writes here; it is just
// another directory in that case. Tests replace it through
// ServiceConfig.PublishRoot.
const tokenPublishRoot = "/sdcard/Android/data"

// Service is the process-scoped collection of initialized
// collaborators, wired together in the dependency order the ambient
// design calls for: Storage Engine, then the things that depend on
// it (Token Manager, Route Registry), then the things that depend on
// those (Transport Server).
type Service struct {
	workspace workspacePaths
	pool      *storage.Pool
	engine    *storage.Engine
	tokens    *token.Manager
	versions  *VersionManager
	sandbox   *sandbox.Sandbox
	notifier  notify.Notifier
	routes    *RouteRegistry
	rules     rulesconfig.Manifest
	logger    *slog.Logger
}

// ServiceConfig carries the knobs NewService needs that aren't
// derivable from the workspace path alone.
type ServiceConfig struct {
	Workspace   workspacePaths
	Logger      *slog.Logger
	PublishRoot string // overrides tokenPublishRoot; tests use a temp dir
	Notifier    notify.Notifier
	PoolSize    int
}

// NewService opens the storage engine, runs the token bootstrap, and
// wires every other collaborator. The caller is responsible for
// eventually calling Close.
func NewService(ctx context.Context, cfg ServiceConfig) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	pool, err := storage.OpenPool(storage.PoolConfig{
		Path:     cfg.Workspace.dbPath(),
		PoolSize: cfg.PoolSize,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("service: opening storage: %w", err)
	}

	registry := storage.NewRegistry(DefaultTables()...)
	engine := storage.NewEngine(pool, registry, logger)
	if err := engine.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("service: creating tables: %w", err)
	}

	publishRoot := cfg.PublishRoot
	if publishRoot == "" {
		publishRoot = tokenPublishRoot
	}
	tokens := token.New(engine, logger, publishRoot)
	if err := tokens.Bootstrap(ctx, cfg.Workspace.appsPath()); err != nil {
		logger.Error("token bootstrap failed", "error", err)
	}

	versions, err := NewVersionManager(cfg.Workspace.versionPath())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("service: opening version manager: %w", err)
	}

	manifest, err := rulesconfig.Load(cfg.Workspace.rulesConfigPath())
	if err != nil {
		logger.Error("loading rules manifest failed", "error", err)
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewShellNotifier(logger)
	}

	return &Service{
		workspace: cfg.Workspace,
		pool:      pool,
		engine:    engine,
		tokens:    tokens,
		versions:  versions,
		sandbox:   sandbox.New(logger),
		notifier:  notifier,
		routes:    NewRouteRegistry(),
		rules:     manifest,
		logger:    logger,
	}, nil
}

// Close releases the storage engine's connection pool.
func (s *Service) Close() error {
	return s.pool.Close()
}

// successEnvelope is the standard mutating-call reply body.
func successEnvelope() map[string]any {
	return map[string]any{"status": 0, "message": "success"}
}
