// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package meta

import (
	"fmt"

	"github.com/patrickascher/schemer/mapper"
)

// Kind of a record.
type Kind string

// All stored kinds.
const (
	Base         Kind = "Base"
	Table        Kind = "Table"
	Column       Kind = "Column"
	SelectOption Kind = "SelectOption"
	Relation     Kind = "Relation"
	Lookup       Kind = "Lookup"
	Rollup       Kind = "Rollup"
	Formula      Kind = "Formula"
	QrCode       Kind = "QrCode"
	Barcode      Kind = "Barcode"
	View         Kind = "View"
)

// FieldID is the primary key of every kind.
const FieldID = "id"

// Field types.
const (
	String = "string"
	Text   = "text"
	Int    = "int"
	Bool   = "bool"
)

// Field of a kind.
type Field struct {
	Name string
	Type string
}

// Kinds in dependency order.
var Kinds = []Kind{Base, Table, Column, SelectOption, Relation, Lookup, Rollup, Formula, QrCode, Barcode, View}

// fields of every kind. The id field is added automatically.
var fields = map[Kind][]Field{
	Base: {
		{"title", String}, {"prefix", String}, {"client", String}, {"variant", String},
		{"host", String}, {"port", Int}, {"username", String}, {"password", String},
		{"database", String}, {"schema", String},
	},
	Table: {
		{"base_id", String}, {"table_name", String}, {"title", String}, {"mm", Bool}, {"position", Int},
	},
	Column: {
		{"table_id", String}, {"column_name", String}, {"title", String}, {"uidt", String},
		{"dt", String}, {"dtxp", Text}, {"dtxs", String}, {"cdf", Text},
		{"rqd", Bool}, {"pk", Bool}, {"pv", Bool}, {"ai", Bool}, {"un", Bool},
		{"virtual", Bool}, {"system", Bool}, {"position", Int},
	},
	SelectOption: {
		{"column_id", String}, {"title", String}, {"color", String}, {"position", Int},
	},
	Relation: {
		{"column_id", String}, {"type", String}, {"child_column_id", String}, {"parent_column_id", String},
		{"related_table_id", String}, {"virtual", Bool}, {"fk_index_name", String},
		{"mm_table_id", String}, {"mm_child_column_id", String}, {"mm_parent_column_id", String},
	},
	Lookup: {
		{"column_id", String}, {"relation_column_id", String}, {"lookup_column_id", String},
	},
	Rollup: {
		{"column_id", String}, {"relation_column_id", String}, {"rollup_column_id", String}, {"rollup_function", String},
	},
	Formula: {
		{"column_id", String}, {"formula", Text}, {"formula_raw", Text}, {"error", Text},
	},
	QrCode: {
		{"column_id", String}, {"value_column_id", String},
	},
	Barcode: {
		{"column_id", String}, {"value_column_id", String}, {"format", String},
	},
	View: {
		{"table_id", String}, {"type", String}, {"title", String}, {"grouping_column_id", String},
	},
}

// Fields returns all fields of the kind, starting with the id.
func Fields(kind Kind) ([]Field, error) {
	f, ok := fields[kind]
	if !ok {
		return nil, fmt.Errorf(ErrKind, string(kind))
	}
	return append([]Field{{FieldID, String}}, f...), nil
}

// Check returns an error if the record contains a field which does not exist on the kind.
func Check(kind Kind, r Record) error {
	f, err := Fields(kind)
	if err != nil {
		return err
	}
	for _, name := range mapper.SortedKeys(r) {
		exists := false
		for _, field := range f {
			if field.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			return fmt.Errorf(ErrField, name, string(kind))
		}
	}
	return nil
}
