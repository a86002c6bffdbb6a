// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlstore provides a meta store which persists the records in database tables.
//
// Every kind is stored in its own table. The table name is the prefix and the plural snake case kind name
// (SelectOption will be stored in nc_select_options). The tables can be created with Migrate.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
	"github.com/patrickascher/schemer/stringer"
)

// DefaultPrefix of the meta tables.
const DefaultPrefix = "nc_"

// idLength of a ksuid.
const idLength = "27"

// init registers the provider.
func init() {
	err := meta.Register(meta.SQLSTORE, New)
	if err != nil {
		panic(err)
	}
}

// Error messages.
var (
	ErrOptions = "sqlstore: options must be of type sqlstore.Options, got %T"
	ErrBuilder = errors.New("sqlstore: builder is mandatory")
)

// Options for the sql store.
type Options struct {
	Builder query.Builder
	// Prefix of the tables, DefaultPrefix is used if empty.
	Prefix string
}

// New returns a store for the given options.
func New(opt interface{}) (meta.Store, error) {
	options, ok := opt.(Options)
	if !ok {
		return nil, fmt.Errorf(ErrOptions, opt)
	}
	if options.Builder == nil {
		return nil, ErrBuilder
	}
	if options.Prefix == "" {
		options.Prefix = DefaultPrefix
	}
	return &store{builder: options.Builder, prefix: options.Prefix}, nil
}

type store struct {
	builder query.Builder
	prefix  string
}

// TableName of the kind.
func TableName(prefix string, kind meta.Kind) string {
	return stringer.TableName(prefix, string(kind))
}

// Migrate creates the tables of all kinds which do not exist yet.
func (s *store) Migrate() error {
	d := s.builder.Dialect()
	for _, kind := range meta.Kinds {
		table := TableName(s.prefix, kind)
		cols, err := s.builder.Query().Information(table).Describe()
		if err == nil && len(cols) > 0 {
			continue
		}

		fields, err := meta.Fields(kind)
		if err != nil {
			return err
		}
		t := query.TableCreate{Table: table}
		for _, f := range fields {
			t.Columns = append(t.Columns, definition(d, f))
		}
		if err = s.builder.Query().Schema().TableCreate(t); err != nil {
			return fmt.Errorf("sqlstore: %w", err)
		}
	}
	return nil
}

// definition returns the physical column of a field.
func definition(d query.Dialect, f meta.Field) query.ColumnDefinition {
	var pt query.PhysicalType
	switch f.Type {
	case meta.Int:
		pt = d.UIType(types.Number)
	case meta.Bool:
		pt = d.UIType(types.Checkbox)
	case meta.Text:
		pt = d.UIType(types.LongText)
	default:
		pt = d.UIType(types.SingleLineText)
	}
	c := query.ColumnDefinition{Name: f.Name, DT: pt.DT, DTXP: pt.DTXP, DTXS: pt.DTXS}
	if f.Name == meta.FieldID {
		c.DTXP = idLength
		c.PK = true
		c.RQD = true
	}
	return c
}

// Get a record by id.
func (s *store) Get(kind meta.Kind, id string) (meta.Record, error) {
	rv, err := s.List(kind, meta.ByID(id))
	if err != nil {
		return nil, err
	}
	if len(rv) == 0 {
		return nil, fmt.Errorf(meta.ErrReference, kind, id, meta.ErrNotFound)
	}
	return rv[0], nil
}

// Insert a record. Missing fields are inserted as NULL.
func (s *store) Insert(kind meta.Kind, r meta.Record) (string, error) {
	if err := meta.Check(kind, r); err != nil {
		return "", err
	}
	fields, _ := meta.Fields(kind)

	values := make(map[string]interface{}, len(fields))
	var columns []string
	for _, f := range fields {
		columns = append(columns, f.Name)
		values[f.Name] = r[f.Name]
	}
	id := r.ID()
	if id == "" {
		id = meta.NewID()
	}
	values[meta.FieldID] = id

	_, err := s.builder.Query().Insert(TableName(s.prefix, kind)).Columns(columns...).Values([]map[string]interface{}{values}).Exec()
	if err != nil {
		return "", fmt.Errorf("sqlstore: %w", err)
	}
	return id, nil
}

// Update the given fields of a record.
func (s *store) Update(kind meta.Kind, id string, r meta.Record) error {
	if err := meta.Check(kind, r); err != nil {
		return err
	}
	if _, err := s.Get(kind, id); err != nil {
		return err
	}

	set := make(map[string]interface{}, len(r))
	for k, v := range r {
		if k != meta.FieldID {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return nil
	}

	_, err := s.builder.Query().Update(TableName(s.prefix, kind)).Set(set).Where(s.builder.QuoteIdentifier(meta.FieldID)+" "+query.EQ, id).Exec()
	if err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}
	return nil
}

// Delete all matching records.
func (s *store) Delete(kind meta.Kind, c meta.Condition) error {
	if _, err := meta.Fields(kind); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	d := s.builder.Query().Delete(TableName(s.prefix, kind))
	for _, cl := range c {
		stmt, args := s.clause(cl)
		d.Where(stmt, args...)
	}
	if _, err := d.Exec(); err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}
	return nil
}

// List all matching records.
func (s *store) List(kind meta.Kind, c meta.Condition, orderBy ...string) ([]meta.Record, error) {
	fields, err := meta.Fields(kind)
	if err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}

	var columns []string
	for _, f := range fields {
		columns = append(columns, f.Name)
	}

	sel := s.builder.Query().Select(TableName(s.prefix, kind)).Columns(columns...)
	for _, cl := range c {
		stmt, args := s.clause(cl)
		sel.Where(stmt, args...)
	}
	var order []string
	for _, o := range orderBy {
		if strings.HasPrefix(o, "-") {
			order = append(order, s.builder.QuoteIdentifier(o[1:])+" DESC")
			continue
		}
		order = append(order, s.builder.QuoteIdentifier(o)+" ASC")
	}
	// the id is sortable by creation time.
	order = append(order, s.builder.QuoteIdentifier(meta.FieldID)+" ASC")
	sel.Order(order...)

	rows, err := sel.All()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	defer rows.Close()

	var rv []meta.Record
	for rows.Next() {
		r, err := scan(rows, fields)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: %w", err)
		}
		rv = append(rv, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	return rv, nil
}

// clause renders the condition clause.
func (s *store) clause(cl meta.Clause) (string, []interface{}) {
	stmt := s.builder.QuoteIdentifier(cl.Field) + " " + cl.Operator
	switch cl.Operator {
	case query.NULL, query.NOTNULL:
		return stmt, nil
	case query.IN, query.NOTIN:
		// an empty list can not be rendered as placeholder.
		if v := reflect.ValueOf(cl.Value); (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && v.Len() == 0 {
			if cl.Operator == query.IN {
				return "1 = 0", nil
			}
			return "1 = 1", nil
		}
	}
	return stmt, []interface{}{cl.Value}
}

// scan the row by the field types. NULL values are added as nil.
func scan(rows *sql.Rows, fields []meta.Field) (meta.Record, error) {
	dest := make([]interface{}, len(fields))
	for i, f := range fields {
		switch f.Type {
		case meta.Int:
			dest[i] = &sql.NullInt64{}
		case meta.Bool:
			dest[i] = &sql.NullBool{}
		default:
			dest[i] = &sql.NullString{}
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	r := make(meta.Record, len(fields))
	for i, f := range fields {
		r[f.Name] = nil
		switch v := dest[i].(type) {
		case *sql.NullInt64:
			if v.Valid {
				r[f.Name] = int(v.Int64)
			}
		case *sql.NullBool:
			if v.Valid {
				r[f.Name] = v.Bool
			}
		case *sql.NullString:
			if v.Valid {
				r[f.Name] = v.String
			}
		}
	}
	return r, nil
}
