// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"
	"strings"
)

// FieldType is a column's declared SQLite storage class.
type FieldType int

const (
	Integer FieldType = iota
	Long
	Real
	Text
)

func (t FieldType) sqlType() string {
	switch t {
	case Integer, Long:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// Field describes one column of a Table.
type Field struct {
	Name          string
	Type          FieldType
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
}

// Table is the declarative descriptor for one persisted entity: its
// name and its ordered field list. Every generic CRUD operation in
// this package walks Fields rather than naming columns directly.
type Table struct {
	Name   string
	Fields []Field
}

// PrimaryKey returns the table's primary key field. Every table in
// this registry has exactly one.
func (t Table) PrimaryKey() Field {
	for _, f := range t.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	panic(fmt.Sprintf("storage: table %q has no primary key field", t.Name))
}

// DataFields returns every field except the primary key, in
// declaration order. These are the columns Insert and Update write.
func (t Table) DataFields() []Field {
	fields := make([]Field, 0, len(t.Fields)-1)
	for _, f := range t.Fields {
		if !f.PrimaryKey {
			fields = append(fields, f)
		}
	}
	return fields
}

// CreateStatement renders the CREATE TABLE IF NOT EXISTS text for this
// table descriptor.
func (t Table) CreateStatement() string {
	var columns []string
	for _, f := range t.Fields {
		column := fmt.Sprintf("%s %s", f.Name, f.Type.sqlType())
		if f.PrimaryKey {
			column += " PRIMARY KEY"
			if f.AutoIncrement {
				column += " AUTOINCREMENT"
			}
		} else if f.Unique {
			column += " UNIQUE"
		}
		columns = append(columns, column)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t.Name, strings.Join(columns, ", "))
}

// Registry is the closed set of table descriptors the service
// recognizes, indexed by name.
type Registry struct {
	tables map[string]Table
	order  []string
}

// NewRegistry builds a Registry from the given table descriptors. The
// service constructs exactly one Registry, from DefaultTables, at
// startup.
func NewRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Table returns the descriptor for name, and whether it is known.
func (r *Registry) Table(name string) (Table, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// Tables returns every descriptor in registration order.
func (r *Registry) Tables() []Table {
	out := make([]Table, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tables[name])
	}
	return out
}
