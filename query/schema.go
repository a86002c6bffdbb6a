// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
)

// Altered tags of a column in a TableUpdate.
const (
	AlteredNone   = 0
	AlteredNew    = 1
	AlteredDelete = 4
	AlteredUpdate = 8
)

// Schema operations.
const (
	OpTableCreate    = "tableCreate"
	OpTableUpdate    = "tableUpdate"
	OpTableDelete    = "tableDelete"
	OpRelationCreate = "relationCreate"
	OpRelationDelete = "relationDelete"
	OpIndexCreate    = "indexCreate"
)

// Error messages.
var (
	ErrSchemaApply     = errors.New("query: schema could not be applied")
	ErrSchemaOperation = "query: schema operation %#v with payload %T is not allowed"
	ErrOriginalColumn  = "query: original column %#v of table %#v does not exist"
)

// ColumnDefinition is the physical description of a column.
type ColumnDefinition struct {
	Name         string
	OriginalName string
	UIType       string

	DT   string
	DTXP string
	DTXS string

	Default NullString
	RQD     bool
	PK      bool
	AI      bool
	UN      bool

	Altered int
}

// Equal reports if both definitions render the same column.
func (c ColumnDefinition) Equal(o ColumnDefinition) bool {
	return c.Name == o.Name &&
		c.DT == o.DT &&
		c.DTXP == o.DTXP &&
		c.DTXS == o.DTXS &&
		c.Default == o.Default &&
		c.RQD == o.RQD &&
		c.PK == o.PK &&
		c.AI == o.AI &&
		c.UN == o.UN
}

// TableCreate describes a new table.
type TableCreate struct {
	Table   string
	Columns []ColumnDefinition
}

// TableUpdate describes the changes of a table.
// OriginalColumns is the current physical state, Columns the desired one with the Altered tag set.
type TableUpdate struct {
	Table           string
	OriginalColumns []ColumnDefinition
	Columns         []ColumnDefinition
}

// Original returns the original column of the given column.
// The column is looked up by OriginalName and if not set by Name.
func (t TableUpdate) Original(c ColumnDefinition) (ColumnDefinition, bool) {
	name := c.OriginalName
	if name == "" {
		name = c.Name
	}
	for _, o := range t.OriginalColumns {
		if o.Name == name {
			return o, true
		}
	}
	return ColumnDefinition{}, false
}

// RelationDefinition describes a foreign key constraint.
type RelationDefinition struct {
	ChildTable     string
	ChildColumn    string
	ParentTable    string
	ParentColumn   string
	ForeignKeyName string
	OnUpdate       string
	OnDelete       string
}

func (r RelationDefinition) onUpdate() string {
	if r.OnUpdate == "" {
		return "NO ACTION"
	}
	return r.OnUpdate
}

func (r RelationDefinition) onDelete() string {
	if r.OnDelete == "" {
		return "NO ACTION"
	}
	return r.OnDelete
}

// IndexDefinition describes a non unique index.
type IndexDefinition struct {
	Name    string
	Table   string
	Columns []string
}

// SchemaApplyError wraps a failed DDL statement.
type SchemaApplyError struct {
	Dialect   string
	Operation string
	Statement string
	Err       error
}

// Error implements the error interface.
func (e *SchemaApplyError) Error() string {
	return fmt.Sprintf("query: %s %s failed (%s): %s", e.Dialect, e.Operation, e.Statement, e.Err)
}

// Unwrap returns the driver error.
func (e *SchemaApplyError) Unwrap() error {
	return e.Err
}

// Is reports ErrSchemaApply.
func (e *SchemaApplyError) Is(target error) bool {
	return target == ErrSchemaApply
}

// SchemaBase executes the dialect statements of the Provider.
type SchemaBase struct {
	Provider Provider
}

// Apply executes the operation with the given payload.
func (s *SchemaBase) Apply(op string, payload interface{}) error {
	switch p := payload.(type) {
	case TableCreate:
		if op == OpTableCreate {
			return s.TableCreate(p)
		}
	case TableUpdate:
		if op == OpTableUpdate {
			return s.TableUpdate(p)
		}
	case string:
		if op == OpTableDelete {
			return s.TableDelete(p)
		}
	case RelationDefinition:
		switch op {
		case OpRelationCreate:
			return s.RelationCreate(p)
		case OpRelationDelete:
			return s.RelationDelete(p)
		}
	case IndexDefinition:
		if op == OpIndexCreate {
			return s.IndexCreate(p)
		}
	}
	return fmt.Errorf(ErrSchemaOperation, op, payload)
}

// TableCreate creates a new table.
func (s *SchemaBase) TableCreate(t TableCreate) error {
	return s.exec(OpTableCreate, s.Provider.Dialect().CreateTable(t))
}

// TableUpdate adds, alters and drops the tagged columns.
// Untagged columns or columns without a difference are ignored.
func (s *SchemaBase) TableUpdate(t TableUpdate) error {
	d := s.Provider.Dialect()

	if r, ok := d.(TableRebuilder); ok {
		if stmts, rebuild := r.Rebuild(t); rebuild {
			return s.exec(OpTableUpdate, stmts)
		}
	}

	var stmts []string
	for _, c := range t.Columns {
		switch c.Altered {
		case AlteredNew:
			stmts = append(stmts, d.AddColumn(t.Table, c)...)
		case AlteredUpdate:
			original, ok := t.Original(c)
			if !ok {
				return fmt.Errorf(ErrOriginalColumn, c.OriginalName, t.Table)
			}
			if !original.Equal(c) {
				stmts = append(stmts, d.AlterColumn(t.Table, original, c)...)
			}
		case AlteredDelete:
			stmts = append(stmts, d.DropColumn(t.Table, c)...)
		}
	}
	return s.exec(OpTableUpdate, stmts)
}

// TableDelete drops the table.
func (s *SchemaBase) TableDelete(table string) error {
	return s.exec(OpTableDelete, s.Provider.Dialect().DropTable(table))
}

// RelationCreate adds the foreign key constraint.
func (s *SchemaBase) RelationCreate(r RelationDefinition) error {
	return s.exec(OpRelationCreate, s.Provider.Dialect().AddForeignKey(r))
}

// RelationDelete drops the foreign key constraint.
func (s *SchemaBase) RelationDelete(r RelationDefinition) error {
	return s.exec(OpRelationDelete, s.Provider.Dialect().DropForeignKey(r))
}

// IndexCreate creates the index.
func (s *SchemaBase) IndexCreate(i IndexDefinition) error {
	return s.exec(OpIndexCreate, s.Provider.Dialect().CreateIndex(i))
}

// exec runs the statements of the operation.
// If no statement exists, the operation is not supported by the dialect and will be logged.
func (s *SchemaBase) exec(op string, stmts []string) error {
	d := s.Provider.Dialect()
	if len(stmts) == 0 {
		if l := s.Provider.Log(); l != nil {
			l.WithFields(map[string]interface{}{"dialect": d.Family(), "operation": op}).Debug("query: no statement to apply")
		}
		return nil
	}
	// multiple statements of one operation run in a transaction, if none is set.
	// mysql and oracle commit DDL implicitly.
	tx := len(stmts) > 1 && !s.Provider.HasTx()
	if tx {
		if _, err := s.Provider.Tx(); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}
	for _, stmt := range stmts {
		if _, err := s.Provider.Exec([]string{stmt}, [][]interface{}{nil}); err != nil {
			if tx && s.Provider.HasTx() {
				_ = s.Provider.Rollback()
			}
			name := d.Family()
			if d.Variant() != "" {
				name += ":" + d.Variant()
			}
			return &SchemaApplyError{Dialect: name, Operation: op, Statement: stmt, Err: err}
		}
	}
	if tx {
		return s.Provider.Commit()
	}
	return nil
}
