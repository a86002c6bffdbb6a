// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package formula_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/patrickascher/schemer/formula"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	_ "github.com/patrickascher/schemer/query/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialect of a family without a connection.
type dialect struct {
	query.DialectBase
	family string
}

func (d *dialect) Family() string           { return d.family }
func (d *dialect) MaxIdentifierLength() int { return 64 }

func quote(s string) string { return `"` + s + `"` }

var table = &model.Table{TableName: "orders", Columns: []*model.Column{
	{ID: "c1", ColumnName: "price", Title: "Price", Kind: model.Number},
	{ID: "c2", ColumnName: "qty", Title: "Quantity", Kind: model.Number},
	{ID: "c3", ColumnName: "name", Title: "Full Name", Kind: model.SingleLineText},
	{ID: "c4", Title: "Total", Kind: model.Formula, Virtual: true},
}}

func TestParse(t *testing.T) {
	asserts := assert.New(t)

	_, err := formula.Parse(`CONCAT({Full Name}, " - ", {Price}) `)
	asserts.NoError(err)
	_, err = formula.Parse(`IF({Price} > 10, "a", 'b')`)
	asserts.NoError(err)

	for _, f := range []string{"", "CONCAT(", "{Price} +", "1 2"} {
		_, err = formula.Parse(f)
		asserts.True(errors.Is(err, model.ErrInvalidFormula), f)
		asserts.True(errors.Is(err, model.ErrValidation), f)
	}
}

func TestToIDs(t *testing.T) {
	asserts := assert.New(t)

	f, err := formula.ToIDs(`CONCAT({Full Name},  "{Price}", {Price}) & {c2}`, table.Columns)
	asserts.NoError(err)
	asserts.Equal(`CONCAT({c3},  "{Price}", {c1}) & {c2}`, f)

	refs, err := formula.References(f)
	asserts.NoError(err)
	asserts.Equal([]string{"c3", "c1", "c2"}, refs)

	_, err = formula.ToIDs(`{Unknown} + 1`, table.Columns)
	asserts.True(errors.Is(err, model.ErrInvalidFormula))

	title, err := formula.ToTitles(f, table.Columns)
	asserts.NoError(err)
	asserts.Equal(`CONCAT({Full Name},  "{Price}", {Price}) & {Quantity}`, title)

	_, err = formula.ToTitles(`{c9}`, table.Columns)
	asserts.Error(err)
}

func TestSQL(t *testing.T) {
	asserts := assert.New(t)

	tests := []struct {
		formula string
		family  string
		sql     string
		err     bool
	}{
		{formula: `{c1} * {c2} + 1`, family: query.MYSQL, sql: `"price" * "qty" + 1`},
		{formula: `CONCAT({c3}, "'x'")`, family: query.MYSQL, sql: `CONCAT("name", '''x''')`},
		{formula: `CONCAT({c3}, 'a')`, family: query.SQLITE, sql: `("name" || 'a')`},
		{formula: `{c3} & "b"`, family: query.ORACLE, sql: `("name" || 'b')`},
		{formula: `LEN({c3})`, family: query.MSSQL, sql: `LEN("name")`},
		{formula: `LEN({c3})`, family: query.MYSQL, sql: `CHAR_LENGTH("name")`},
		{formula: `MOD({c1}, 2)`, family: query.POSTGRES, sql: `MOD("price", 2)`},
		{formula: `MOD({c1}, 2)`, family: query.MSSQL, sql: `("price" % 2)`},
		{formula: `IF({c1} >= 10, "big", "small")`, family: query.POSTGRES, sql: `CASE WHEN "price" >= 10 THEN 'big' ELSE 'small' END`},
		{formula: `IF({c1}, 1)`, family: query.POSTGRES, sql: `CASE WHEN "price" IS NOT NULL THEN 1 ELSE NULL END`},
		{formula: `AND({c1} == 1, {c2} != 2)`, family: query.SQLITE, sql: `("price" = 1 AND "qty" <> 2)`},
		{formula: `{c1} = 1`, family: query.MSSQL, sql: `CASE WHEN "price" = 1 THEN 1 ELSE 0 END`},
		{formula: `MAX({c1}, {c2})`, family: query.POSTGRES, sql: `GREATEST("price", "qty")`},
		{formula: `MIN({c1}, {c2})`, family: query.SQLITE, sql: `MIN("price", "qty")`},
		{formula: `ROUND(-{c1})`, family: query.MSSQL, sql: `ROUND(-"price", 0)`},
		{formula: `AVG({c1}, ({c2}))`, family: query.MYSQL, sql: `(("price" + ("qty")) / 2)`},
		{formula: `{c4} + 1`, family: query.MYSQL, err: true},
		{formula: `UNKNOWN({c1})`, family: query.MYSQL, err: true},
		{formula: `UPPER({c1}, {c2})`, family: query.MYSQL, err: true},
	}

	for _, test := range tests {
		sql, err := formula.SQL(&dialect{family: test.family}, quote, table, test.formula)
		if test.err {
			asserts.True(errors.Is(err, model.ErrInvalidFormula), test.formula)
			continue
		}
		asserts.NoError(err, test.formula)
		asserts.Equal(test.sql, sql, test.formula)
	}
}

func TestDryRun(t *testing.T) {
	asserts := assert.New(t)

	b, err := query.Open(query.Config{Client: "sqlite", Database: filepath.Join(t.TempDir(), "formula.db")})
	require.NoError(t, err)
	defer b.Query().DB().Close()

	require.NoError(t, b.Query().Schema().TableCreate(query.TableCreate{Table: "orders", Columns: []query.ColumnDefinition{
		{Name: "price", DT: "integer"},
		{Name: "qty", DT: "integer"},
		{Name: "name", DT: "text"},
	}}))

	asserts.NoError(formula.DryRun(b, table, `CONCAT({c3}, " x ", {c2} * {c1})`))
	asserts.NoError(formula.DryRun(b, table, `CEILING({c1} / 3)`))

	// the physical column does not exist
	missing := &model.Table{TableName: "orders", Columns: []*model.Column{{ID: "x", ColumnName: "missing", Kind: model.Number}}}
	err = formula.DryRun(b, missing, `{x} + 1`)
	asserts.True(errors.Is(err, model.ErrInvalidFormula))
}
