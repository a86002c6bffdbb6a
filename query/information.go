// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"strconv"
	"strings"
)

// Column represents a database table column.
type Column struct {
	Table         string
	Name          string
	Position      int
	NullAble      bool
	PrimaryKey    bool
	Unique        bool
	Type          Type
	DefaultValue  NullString
	Length        NullInt
	Autoincrement bool
}

// Definition converts the described column into a ColumnDefinition.
// The raw type is split into the data type and its size, precision or values.
func (c Column) Definition() ColumnDefinition {
	def := ColumnDefinition{
		Name:    c.Name,
		RQD:     !c.NullAble,
		PK:      c.PrimaryKey,
		AI:      c.Autoincrement,
		Default: c.DefaultValue,
	}
	if c.Type == nil {
		return def
	}

	raw := strings.TrimSpace(c.Type.Raw())
	if strings.HasSuffix(strings.ToLower(raw), " unsigned") {
		def.UN = true
		raw = strings.TrimSpace(raw[:len(raw)-len(" unsigned")])
	}

	open := strings.Index(raw, "(")
	if open == -1 || !strings.HasSuffix(raw, ")") {
		def.DT = strings.ToLower(raw)
		if c.Length.Valid && c.Length.Int64 > 0 {
			def.DTXP = strconv.FormatInt(c.Length.Int64, 10)
		}
		return def
	}

	def.DT = strings.ToLower(strings.TrimSpace(raw[:open]))
	size := raw[open+1 : len(raw)-1]
	// enum and set values are kept as they are.
	if strings.HasPrefix(size, "'") {
		def.DTXP = size
		return def
	}
	parts := strings.SplitN(size, ",", 2)
	def.DTXP = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		def.DTXS = strings.TrimSpace(parts[1])
	}
	return def
}

// ForeignKey represents a table relation.
type ForeignKey struct {
	Name      string
	Primary   Relation
	Secondary Relation
}

// Relation defines the table and column of a relation.
type Relation struct {
	Table  string
	Column string
}
