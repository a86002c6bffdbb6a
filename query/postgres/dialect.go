// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
)

// maxIdentifierLength of postgres.
// postgres allows 63 bytes, the rest is reserved for generated suffixes.
const maxIdentifierLength = 59

// uiTypes maps the ui types to the postgres types.
var uiTypes = map[string]query.PhysicalType{
	types.ID:             {DT: "integer"},
	types.ForeignKey:     {DT: "integer"},
	types.SingleLineText: {DT: "character varying", DTXP: "255"},
	types.LongText:       {DT: "text"},
	types.Attachment:     {DT: "text"},
	types.Checkbox:       {DT: "boolean"},
	types.MultiSelect:    {DT: "text"},
	types.SingleSelect:   {DT: "text"},
	types.Date:           {DT: "date"},
	types.Year:           {DT: "integer"},
	types.Time:           {DT: "time"},
	types.PhoneNumber:    {DT: "character varying", DTXP: "255"},
	types.Email:          {DT: "character varying", DTXP: "255"},
	types.URL:            {DT: "character varying", DTXP: "255"},
	types.Number:         {DT: "bigint"},
	types.Decimal:        {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Currency:       {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Percent:        {DT: "double precision"},
	types.Duration:       {DT: "decimal", DTXP: "20", DTXS: "4"},
	types.Rating:         {DT: "smallint"},
	types.DateTime:       {DT: "timestamp"},
	types.JSON:           {DT: "json"},
}

// dialect of the postgres family.
type dialect struct {
	query.DialectBase
}

// newDialect returns the dialect of the variant.
func newDialect(variant string, quote func(...string) string) query.Dialect {
	base := query.DialectBase{
		Quote:      quote,
		SizedTypes: []string{"character varying", "varchar", "character", "char", "decimal", "numeric", "bit", "bit varying"},
		Types:      uiTypes,
	}
	if variant == Yugabyte {
		y := &yugabyte{dialect: dialect{DialectBase: base}}
		y.Self = y
		return y
	}
	d := &dialect{DialectBase: base}
	d.Self = d
	return d
}

// Family returns postgres.
func (d *dialect) Family() string {
	return query.POSTGRES
}

// MaxIdentifierLength of postgres.
func (d *dialect) MaxIdentifierLength() int {
	return maxIdentifierLength
}

// ColumnType uses serial types for auto increment columns.
func (d *dialect) ColumnType(c query.ColumnDefinition) string {
	if c.AI {
		if strings.ToLower(c.DT) == "bigint" {
			return "bigserial"
		}
		return "serial"
	}
	return d.DialectBase.ColumnType(c)
}

// AlterColumn renders a rename and the changed type with an explicit cast, nullability and default.
func (d *dialect) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	var stmts []string
	alter := "ALTER TABLE " + d.Quote(table)
	if original.Name != c.Name {
		stmts = append(stmts, alter+" RENAME COLUMN "+d.Quote(original.Name)+" TO "+d.Quote(c.Name))
	}
	if typ := d.ColumnType(c); d.ColumnType(original) != typ {
		stmts = append(stmts, alter+" ALTER COLUMN "+d.Quote(c.Name)+" TYPE "+typ+" USING "+d.Quote(c.Name)+"::"+typ)
	}
	if original.RQD != c.RQD {
		action := "DROP NOT NULL"
		if c.RQD {
			action = "SET NOT NULL"
		}
		stmts = append(stmts, alter+" ALTER COLUMN "+d.Quote(c.Name)+" "+action)
	}
	if original.Default != c.Default {
		action := "DROP DEFAULT"
		if c.Default.Valid {
			action = "SET DEFAULT " + query.DefaultValue(c.Default.String)
		}
		stmts = append(stmts, alter+" ALTER COLUMN "+d.Quote(c.Name)+" "+action)
	}
	return stmts
}

// yugabyte creates indexes non concurrently.
type yugabyte struct {
	dialect
}

// Variant returns yugabyte.
func (y *yugabyte) Variant() string {
	return Yugabyte
}

// CreateIndex renders CREATE INDEX NONCONCURRENTLY.
func (y *yugabyte) CreateIndex(i query.IndexDefinition) []string {
	return []string{"CREATE INDEX NONCONCURRENTLY " + y.Quote(i.Name) + " ON " + y.Quote(i.Table) + " (" + y.Quote(i.Columns...) + ")"}
}
