// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package option

import (
	"errors"
	"testing"

	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	"github.com/stretchr/testify/assert"
)

func TestRemoval(t *testing.T) {
	asserts := assert.New(t)

	// single select
	r, err := removal(query.POSTGRES, model.SingleSelect, "text", `"c"`, "Red")
	asserts.NoError(err)
	asserts.Equal([]Rewrite{{Value: nil, Where: `"c" = ?`, Args: []interface{}{"Red"}}}, r)
	r, err = removal(query.MSSQL, model.SingleSelect, "text", `[c]`, "Red")
	asserts.NoError(err)
	asserts.Equal([]Rewrite{{Value: nil, Where: `[c] LIKE ?`, Args: []interface{}{"Red"}}}, r)

	// multi select
	var tests = []struct {
		family string
		dt     string
		sql    []string
		where  []string
		args   [][]interface{}
	}{
		{family: query.MYSQL, dt: "text", sql: []string{"TRIM(BOTH ',' FROM REPLACE(CONCAT(',', c, ','), CONCAT(',', ?, ','), ','))"}, where: []string{""}, args: [][]interface{}{{"A"}}},
		{family: query.MYSQL, dt: "set", sql: []string{"TRIM(BOTH ',' FROM REPLACE(CONCAT(',', c, ','), CONCAT(',', ?, ','), ','))"}, where: []string{"FIND_IN_SET(?, c)"}, args: [][]interface{}{{"A"}}},
		{family: query.POSTGRES, dt: "text", sql: []string{"array_to_string(array_remove(string_to_array(c, ','), ?), ',')"}, where: []string{""}, args: [][]interface{}{{"A"}}},
		{family: query.MSSQL, dt: "text", sql: []string{"", "substring(replace(concat(',', c, ','), concat(',', ?, ','), ','), 2, len(replace(concat(',', c, ','), concat(',', ?, ','), ',')) - 2)"}, where: []string{"c LIKE ?", ""}, args: [][]interface{}{{"A"}, {"A", "A"}}},
		{family: query.SQLITE, dt: "text", sql: []string{"TRIM(REPLACE(',' || c || ',', ',' || ? || ',', ','), ',')"}, where: []string{""}, args: [][]interface{}{{"A"}}},
	}
	for _, test := range tests {
		t.Run(test.family+"/"+test.dt, func(t *testing.T) {
			r, err := removal(test.family, model.MultiSelect, test.dt, "c", "A")
			asserts.NoError(err)
			asserts.Equal(len(test.sql), len(r))
			for i, rw := range r {
				asserts.Equal(test.where[i], rw.Where)
				if test.sql[i] == "" {
					asserts.Nil(rw.Value)
					asserts.Equal(test.args[i], rw.Args)
					continue
				}
				expr, ok := rw.Value.(query.Expression)
				asserts.True(ok)
				asserts.Equal(test.sql[i], expr.SQL)
				asserts.Equal(test.args[i], expr.Args)
			}
		})
	}

	_, err = removal(query.ORACLE, model.MultiSelect, "varchar", "c", "A")
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))
}

func TestRename(t *testing.T) {
	asserts := assert.New(t)

	r, err := rename(query.SQLITE, model.SingleSelect, "text", "c", "Red", "Blue")
	asserts.NoError(err)
	asserts.Equal(Rewrite{Value: "Blue", Where: "c = ?", Args: []interface{}{"Red"}}, r)

	var tests = []struct {
		family string
		dt     string
		sql    string
		args   []interface{}
		where  string
	}{
		{family: query.MYSQL, dt: "text", sql: "TRIM(BOTH ',' FROM REPLACE(CONCAT(',', c, ','), CONCAT(',', ?, ','), CONCAT(',', ?, ',')))", args: []interface{}{"A", "X"}},
		{family: query.MYSQL, dt: "set", sql: "TRIM(BOTH ',' FROM REPLACE(CONCAT(',', c, ','), CONCAT(',', ?, ','), CONCAT(',', ?, ',')))", args: []interface{}{"A", "X"}, where: "FIND_IN_SET(?, c)"},
		{family: query.POSTGRES, dt: "text", sql: "array_to_string(array_replace(string_to_array(c, ','), ?, ?), ',')", args: []interface{}{"A", "X"}},
		{family: query.MSSQL, dt: "text", sql: "substring(replace(concat(',', c, ','), concat(',', ?, ','), concat(',', ?, ',')), 2, len(replace(concat(',', c, ','), concat(',', ?, ','), concat(',', ?, ','))) - 2)", args: []interface{}{"A", "X", "A", "X"}},
		{family: query.SQLITE, dt: "text", sql: "TRIM(REPLACE(',' || c || ',', ',' || ? || ',', ',' || ? || ','), ',')", args: []interface{}{"A", "X"}},
	}
	for _, test := range tests {
		t.Run(test.family+"/"+test.dt, func(t *testing.T) {
			r, err := rename(test.family, model.MultiSelect, test.dt, "c", "A", "X")
			asserts.NoError(err)
			asserts.Equal(test.where, r.Where)
			expr := r.Value.(query.Expression)
			asserts.Equal(test.sql, expr.SQL)
			asserts.Equal(test.args, expr.Args)
		})
	}

	_, err = rename(query.ORACLE, model.MultiSelect, "varchar", "c", "A", "X")
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))
}

func TestFirstToken(t *testing.T) {
	asserts := assert.New(t)

	var tests = []struct {
		family string
		sql    string
		where  string
	}{
		{family: query.MYSQL, sql: "SUBSTRING_INDEX(c, ',', 1)", where: "c LIKE '%,%'"},
		{family: query.POSTGRES, sql: "split_part(c, ',', 1)"},
		{family: query.MSSQL, sql: "LEFT(cast(c as varchar(max)), CHARINDEX(',', c) - 1)", where: "CHARINDEX(',', c) > 0"},
		{family: query.SQLITE, sql: "substr(c, 1, instr(c, ',') - 1)", where: "c LIKE '%,%'"},
	}
	for _, test := range tests {
		r, err := firstToken(test.family, "c")
		asserts.NoError(err)
		asserts.Equal(test.sql, r.Value.(query.Expression).SQL)
		asserts.Equal(test.where, r.Where)
	}

	_, err := firstToken(query.ORACLE, "c")
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))
}

func TestEncode(t *testing.T) {
	asserts := assert.New(t)
	asserts.Equal("'a','b''s'", Encode([]string{"a", "b's"}))
	asserts.Equal("", Encode(nil))
	asserts.Equal("a", Unquote("'a'"))
	asserts.Equal("b's", Unquote("'b''s'"))
	asserts.Equal("plain", Unquote("plain"))
}

func TestTemporary(t *testing.T) {
	asserts := assert.New(t)
	asserts.Equal("Red_1", temporary([]string{"Red"}, "Red"))
	asserts.Equal("Red_2", temporary([]string{"Red", "Red_1"}, "Red"))
}
