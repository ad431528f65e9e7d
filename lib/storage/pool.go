// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// PoolConfig holds the parameters for opening a connection pool onto
// the service's SQLite database. Path is required; all other fields
// have sensible defaults.
type PoolConfig struct {
	// Path is the filesystem path to the SQLite database file (the
	// workspace's auto_v2.db). The parent directory must exist. The
	// file is created if it does not exist. ":memory:" is accepted
	// for tests, with PoolSize forced to 1 — each in-memory connection
	// is an independent, empty database.
	Path string

	// PoolSize is the number of connections in the pool. If zero or
	// negative, defaults to max(runtime.NumCPU(), 4). SQLite
	// serializes writes regardless of pool size; extra connections
	// only help concurrent readers.
	PoolSize int

	// Logger receives pool lifecycle messages. If nil, a discarding
	// logger is used.
	Logger *slog.Logger
}

// Pool is a fixed-size pool of SQLite connections with the pragmas
// this service requires already applied. It wraps sqlitex.Pool.
//
// Pool is safe for concurrent use; individual connections are not —
// every goroutine must Take its own connection and Put it back.
type Pool struct {
	inner  *sqlitex.Pool
	logger *slog.Logger
	path   string

	// held, when non-nil, makes the Pool a thin wrapper around a
	// single already-checked-out connection instead of an actual
	// pool. Used only inside Engine.WithTransaction, so transaction
	// bodies can reuse Engine's ordinary Insert/Update/... methods
	// without a second Take that would either deadlock against a
	// single-connection pool or silently use a connection outside the
	// open transaction.
	held *sqlite.Conn
}

// OpenPool creates a connection pool and applies this service's
// pragmas to every connection as it is first used. The caller must
// call Close when the pool is no longer needed.
func OpenPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("storage: Path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	poolSize := cfg.PoolSize
	if cfg.Path == ":memory:" {
		poolSize = 1
	} else if poolSize <= 0 {
		poolSize = runtime.NumCPU()
		if poolSize < 4 {
			poolSize = 4
		}
	}

	inner, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    poolSize,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: opening %s: %w", cfg.Path, err)
	}

	logger.Info("sqlite pool opened", "path", cfg.Path, "pool_size", poolSize)

	return &Pool{inner: inner, logger: logger, path: cfg.Path}, nil
}

// Take borrows a connection from the pool. Blocks until one is
// available or ctx is cancelled. The caller must call Put when done,
// typically via defer.
func (p *Pool) Take(ctx context.Context) (*sqlite.Conn, error) {
	if p.held != nil {
		return p.held, nil
	}
	conn, err := p.inner.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: take connection: %w", err)
	}
	return conn, nil
}

// Put returns a connection to the pool. Safe to call with nil. No-op
// for a held single connection — ownership stays with whoever opened
// the transaction.
func (p *Pool) Put(conn *sqlite.Conn) {
	if p.held != nil {
		return
	}
	p.inner.Put(conn)
}

// Close closes all connections in the pool, blocking until every
// borrowed connection has been returned.
func (p *Pool) Close() error {
	if err := p.inner.Close(); err != nil {
		p.logger.Error("sqlite pool close error", "path", p.path, "error", err)
		return fmt.Errorf("storage: closing %s: %w", p.path, err)
	}
	p.logger.Info("sqlite pool closed", "path", p.path)
	return nil
}

// prepareConnection applies this service's pragmas. Runs once per
// connection, on first use.
func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=OFF",
		"PRAGMA cache_size=-8192",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}
	return nil
}
