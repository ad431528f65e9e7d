// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// Row is a single persisted record, carried as an untyped map at the
// ORM boundary. Keys are column names; values are int64, float64,
// string, or nil. Handler code translates Row to and from its own
// typed request/response shapes.
type Row map[string]any

// Engine is the storage engine of the service: a connection pool plus
// the table registry it validates operations against. Every public
// method takes a connection from the pool for the duration of a single
// prepare-bind-step-finalize cycle (or, for WithTransaction, a single
// BEGIN IMMEDIATE .. COMMIT cycle).
type Engine struct {
	pool     *Pool
	registry *Registry
	logger   *slog.Logger
}

// NewEngine builds an Engine over an already-open pool and registry.
// The caller remains responsible for Pool.Close.
func NewEngine(pool *Pool, registry *Registry, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{pool: pool, registry: registry, logger: logger}
}

// CreateTables issues CREATE TABLE IF NOT EXISTS for every table the
// registry knows about. Called once at service startup; tables are
// never dropped.
func (e *Engine) CreateTables(ctx context.Context) error {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer e.pool.Put(conn)

	for _, table := range e.registry.Tables() {
		if err := sqlitex.ExecuteTransient(conn, table.CreateStatement(), nil); err != nil {
			return fmt.Errorf("storage: creating table %s: %w", table.Name, err)
		}
	}
	return nil
}

// Insert adds a new row to table and returns its assigned id. Returns
// 0 on failure, after logging the cause at ERROR — callers never need
// to branch on a storage error at every call site.
func (e *Engine) Insert(ctx context.Context, tableName string, row Row) int64 {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("insert: unknown table", "table", tableName)
		return 0
	}

	conn, err := e.pool.Take(ctx)
	if err != nil {
		e.logger.Error("insert: take connection", "table", tableName, "error", err)
		return 0
	}
	defer e.pool.Put(conn)

	id, err := e.insertWithConn(conn, table, row)
	if err != nil {
		e.logger.Error("insert failed", "table", tableName, "error", err)
		return 0
	}
	return id
}

func (e *Engine) insertWithConn(conn *sqlite.Conn, table Table, row Row) (int64, error) {
	fields := table.DataFields()
	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
		placeholders[i] = "?"
		args[i] = bindValue(f, row[f.Name])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Name, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
		return 0, err
	}
	return conn.LastInsertRowID(), nil
}

// Update overwrites every non-primary-key column of the row with id in
// table. Returns false (and logs) on failure.
func (e *Engine) Update(ctx context.Context, tableName string, row Row, id int64) bool {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("update: unknown table", "table", tableName)
		return false
	}

	conn, err := e.pool.Take(ctx)
	if err != nil {
		e.logger.Error("update: take connection", "table", tableName, "error", err)
		return false
	}
	defer e.pool.Put(conn)

	if err := e.updateWithConn(conn, table, row, id); err != nil {
		e.logger.Error("update failed", "table", tableName, "id", id, "error", err)
		return false
	}
	return true
}

func (e *Engine) updateWithConn(conn *sqlite.Conn, table Table, row Row, id int64) error {
	fields := table.DataFields()
	assignments := make([]string, len(fields))
	args := make([]any, len(fields)+1)
	for i, f := range fields {
		assignments[i] = f.Name + " = ?"
		args[i] = bindValue(f, row[f.Name])
	}
	args[len(fields)] = id

	pk := table.PrimaryKey()
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		table.Name, strings.Join(assignments, ", "), pk.Name)

	return sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args})
}

// Remove deletes the row with id from table. Returns false on failure.
func (e *Engine) Remove(ctx context.Context, tableName string, id int64) bool {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("remove: unknown table", "table", tableName)
		return false
	}

	conn, err := e.pool.Take(ctx)
	if err != nil {
		e.logger.Error("remove: take connection", "table", tableName, "error", err)
		return false
	}
	defer e.pool.Put(conn)

	pk := table.PrimaryKey()
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table.Name, pk.Name)
	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		e.logger.Error("remove failed", "table", tableName, "id", id, "error", err)
		return false
	}
	return true
}

// SelectByID returns the row with id from table, or (nil, false) if it
// does not exist or a storage error occurs.
func (e *Engine) SelectByID(ctx context.Context, tableName string, id int64) (Row, bool) {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("selectById: unknown table", "table", tableName)
		return nil, false
	}

	pk := table.PrimaryKey()
	rows, err := e.selectWithConn(ctx, table, pk.Name+" = ?", []any{id}, "", 0, 0)
	if err != nil {
		e.logger.Error("selectById failed", "table", tableName, "id", id, "error", err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// SelectConditional returns every row in table matching a
// parameter-bound SQL condition, ordered by descending primary key.
// Returns an empty (non-nil) slice on failure, logged at ERROR.
func (e *Engine) SelectConditional(ctx context.Context, tableName, condition string, params []any) []Row {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("selectConditional: unknown table", "table", tableName)
		return []Row{}
	}

	rows, err := e.selectWithConn(ctx, table, condition, params, table.PrimaryKey().Name+" DESC", 0, 0)
	if err != nil {
		e.logger.Error("selectConditional failed", "table", tableName, "error", err)
		return []Row{}
	}
	return rows
}

// Page returns one page of rows from table. page is 1-based; size <= 0
// means no LIMIT clause is applied (the entire matching set is
// returned). condition may be empty (no WHERE clause). orderBy
// defaults to "<primary key> DESC" when empty.
func (e *Engine) Page(ctx context.Context, tableName string, page, size int, condition string, params []any, orderBy string) []Row {
	table, ok := e.registry.Table(tableName)
	if !ok {
		e.logger.Error("page: unknown table", "table", tableName)
		return []Row{}
	}

	if orderBy == "" {
		orderBy = table.PrimaryKey().Name + " DESC"
	}
	if page < 1 {
		page = 1
	}

	rows, err := e.selectWithConn(ctx, table, condition, params, orderBy, size, (page-1)*maxInt(size, 0))
	if err != nil {
		e.logger.Error("page failed", "table", tableName, "error", err)
		return []Row{}
	}
	return rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (e *Engine) selectWithConn(ctx context.Context, table Table, condition string, params []any, orderBy string, size, offset int) ([]Row, error) {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer e.pool.Put(conn)

	columns := make([]string, len(table.Fields))
	for i, f := range table.Fields {
		columns[i] = f.Name
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table.Name)
	if condition != "" {
		query += " WHERE " + condition
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}
	if size > 0 {
		query += " LIMIT ?"
		params = append(append([]any{}, params...), size)
		if offset > 0 {
			query += " OFFSET ?"
			params = append(params, offset)
		}
	}

	var rows []Row
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: params,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, scanRow(stmt, table.Fields))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// ExecuteSQL runs a caller-supplied, parameter-bound statement
// directly. If readonly, returns the matching rows generically scanned
// by the statement's own declared columns. If not readonly, executes
// the statement and returns nil, logging success or failure — never
// the rows themselves, since a write statement has none to report.
func (e *Engine) ExecuteSQL(ctx context.Context, sql string, params []any, readonly bool) []Row {
	conn, err := e.pool.Take(ctx)
	if err != nil {
		e.logger.Error("executeSQL: take connection", "error", err)
		return nil
	}
	defer e.pool.Put(conn)

	if !readonly {
		if err := sqlitex.Execute(conn, sql, &sqlitex.ExecOptions{Args: params}); err != nil {
			e.logger.Error("executeSQL failed", "error", err)
			return nil
		}
		e.logger.Debug("executeSQL succeeded")
		return nil
	}

	var rows []Row
	err = sqlitex.Execute(conn, sql, &sqlitex.ExecOptions{
		Args: params,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rows = append(rows, scanRowByColumnNames(stmt))
			return nil
		},
	})
	if err != nil {
		e.logger.Error("executeSQL failed", "error", err)
		return []Row{}
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows
}

// WithTransaction runs fn inside a single BEGIN IMMEDIATE .. COMMIT
// transaction, rolling back on any error fn returns. Used by the
// multi-statement book_name/sync operation, which must not leave a
// partial write behind.
func (e *Engine) WithTransaction(ctx context.Context, fn func(*Engine) error) (err error) {
	conn, takeErr := e.pool.Take(ctx)
	if takeErr != nil {
		return takeErr
	}
	defer e.pool.Put(conn)

	endTransaction, beginErr := sqlitex.ImmediateTransaction(conn)
	if beginErr != nil {
		return fmt.Errorf("storage: begin transaction: %w", beginErr)
	}
	defer endTransaction(&err)

	boundEngine := &Engine{pool: singleConnPool(conn), registry: e.registry, logger: e.logger}
	return fn(boundEngine)
}

// singleConnPool wraps an already-checked-out connection so a
// transaction body can reuse Engine's ordinary methods without a
// second Take/Put round trip (which would deadlock against a
// single-checkout pool and would otherwise use a different connection
// outside the open transaction).
func singleConnPool(conn *sqlite.Conn) *Pool {
	return &Pool{inner: nil, logger: slog.New(slog.DiscardHandler), path: "", held: conn}
}

// bindValue coerces a Row value to the concrete type SQLite binds:
// integer, double, string, or null. Missing map entries bind a
// type-appropriate zero value rather than null, so every column
// declared on the table descriptor is always written.
func bindValue(f Field, v any) any {
	if v == nil {
		switch f.Type {
		case Integer, Long:
			return int64(0)
		case Real:
			return float64(0)
		default:
			return ""
		}
	}
	switch value := v.(type) {
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case int64:
		return value
	case float32:
		return float64(value)
	case float64:
		return value
	case bool:
		if value {
			return int64(1)
		}
		return int64(0)
	case string:
		return value
	default:
		return fmt.Sprintf("%v", value)
	}
}

// scanRow decodes a result row into a Row keyed by the table's
// declared field names, in declaration order.
func scanRow(stmt *sqlite.Stmt, fields []Field) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[f.Name] = scanColumn(stmt, i)
	}
	return row
}

// scanRowByColumnNames decodes a result row for an ad hoc ExecuteSQL
// query, using the statement's own reported column names rather than a
// table descriptor.
func scanRowByColumnNames(stmt *sqlite.Stmt) Row {
	count := stmt.ColumnCount()
	row := make(Row, count)
	for i := 0; i < count; i++ {
		row[stmt.ColumnName(i)] = scanColumn(stmt, i)
	}
	return row
}

func scanColumn(stmt *sqlite.Stmt, i int) any {
	switch stmt.ColumnType(i) {
	case sqlite.TypeInteger:
		return stmt.ColumnInt64(i)
	case sqlite.TypeFloat:
		return stmt.ColumnFloat(i)
	case sqlite.TypeText:
		return stmt.ColumnText(i)
	case sqlite.TypeBlob:
		return stmt.ColumnText(i)
	default:
		return nil
	}
}
