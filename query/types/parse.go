// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package types

import "strings"

var kinds = map[string]string{
	"bool": BOOL, "boolean": BOOL, "bit": BOOL,

	"int": INTEGER, "integer": INTEGER, "int2": INTEGER, "int4": INTEGER, "int8": INTEGER,
	"smallint": INTEGER, "mediumint": INTEGER, "bigint": INTEGER, "tinyint": INTEGER,
	"serial": INTEGER, "bigserial": INTEGER, "number": INTEGER, "year": INTEGER,

	"real": FLOAT, "float": FLOAT, "float4": FLOAT, "float8": FLOAT, "double": FLOAT,
	"double precision": FLOAT, "decimal": FLOAT, "numeric": FLOAT, "money": FLOAT,

	"text": TEXTAREA, "tinytext": TEXTAREA, "mediumtext": TEXTAREA, "longtext": TEXTAREA,
	"clob": TEXTAREA, "nclob": TEXTAREA, "ntext": TEXTAREA, "json": TEXTAREA, "jsonb": TEXTAREA, "xml": TEXTAREA,

	"time": TIME, "time without time zone": TIME, "time with time zone": TIME,
	"date": DATE,
	"datetime": DATETIME, "datetime2": DATETIME, "datetimeoffset": DATETIME, "smalldatetime": DATETIME,
	"timestamp": DATETIME, "timestamp without time zone": DATETIME, "timestamp with time zone": DATETIME, "timestamptz": DATETIME,

	"enum": SELECT,
	"set":  MULTISELECT,
}

// Parse maps a raw database type to a sanitized type.
// Size is the character length of the column, if known.
// Unknown types are mapped to Text.
func Parse(raw string, size int) Interface {
	t := strings.ToLower(strings.TrimSpace(raw))
	// mysql boolean
	if strings.HasPrefix(t, "tinyint(1)") {
		return New(BOOL, raw)
	}

	name, list := t, ""
	if i := strings.Index(t, "("); i != -1 {
		name = strings.TrimSpace(t[:i])
		if j := strings.LastIndex(raw, ")"); j > i {
			list = raw[i+1 : j]
		}
	}

	kind, ok := kinds[name]
	if !ok {
		kind = TEXT
	}
	typ := New(kind, raw)
	switch kind {
	case TEXT:
		typ.Size = size
	case SELECT, MULTISELECT:
		typ.Values = Values(list)
	}
	return typ
}

// Values splits a quoted value list ('a','it''s') into its values.
func Values(list string) []string {
	var rv []string
	var b strings.Builder
	quoted := false
	for i := 0; i < len(list); i++ {
		c := list[i]
		switch {
		case c == '\'' && quoted && i+1 < len(list) && list[i+1] == '\'':
			b.WriteByte(c)
			i++
		case c == '\'':
			quoted = !quoted
			if !quoted {
				rv = append(rv, b.String())
				b.Reset()
			}
		case quoted:
			b.WriteByte(c)
		}
	}
	return rv
}
