// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package types sanitizes the database types over the different dialects
// and defines the ui types of a column.
package types

// sanitized types over multiple databases.
const (
	BOOL        = "Bool"
	INTEGER     = "Integer"
	FLOAT       = "Float"
	TEXT        = "Text"
	TEXTAREA    = "TextArea"
	TIME        = "Time"
	DATE        = "Date"
	DATETIME    = "DateTime"
	SELECT      = "Select"
	MULTISELECT = "MultiSelect"
)

// Interface of the types to access the sanitized kind and the raw sql data.
type Interface interface {
	Kind() string
	Raw() string
}

// Items is implemented by types which have a fixed value list.
type Items interface {
	Items() []string
}

// Type is a described database type.
type Type struct {
	kind string
	raw  string
	// Size of character types, 0 if unknown.
	Size int
	// Values of enum and set types.
	Values []string
}

// New returns a type of the given sanitized kind.
func New(kind string, raw string) *Type {
	return &Type{kind: kind, raw: raw}
}

// Kind returns the sanitized kind.
func (t *Type) Kind() string {
	return t.kind
}

// Raw returns the database type as described.
func (t *Type) Raw() string {
	return t.raw
}

// Items returns the enum or set values.
func (t *Type) Items() []string {
	return t.Values
}
