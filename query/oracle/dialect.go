// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package oracle

import (
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
)

// maxIdentifierLength of oracle.
const maxIdentifierLength = 30

// uiTypes maps the ui types to the oracle types.
var uiTypes = map[string]query.PhysicalType{
	types.ID:             {DT: "number", DTXP: "10"},
	types.ForeignKey:     {DT: "number", DTXP: "10"},
	types.SingleLineText: {DT: "varchar2", DTXP: "255"},
	types.LongText:       {DT: "clob"},
	types.Attachment:     {DT: "clob"},
	types.Checkbox:       {DT: "number", DTXP: "1"},
	types.MultiSelect:    {DT: "varchar2"},
	types.SingleSelect:   {DT: "varchar2"},
	types.Date:           {DT: "date"},
	types.Year:           {DT: "number", DTXP: "4"},
	types.Time:           {DT: "timestamp"},
	types.PhoneNumber:    {DT: "varchar2", DTXP: "255"},
	types.Email:          {DT: "varchar2", DTXP: "255"},
	types.URL:            {DT: "varchar2", DTXP: "255"},
	types.Number:         {DT: "number"},
	types.Decimal:        {DT: "number", DTXP: "10", DTXS: "2"},
	types.Currency:       {DT: "number", DTXP: "10", DTXS: "2"},
	types.Percent:        {DT: "float"},
	types.Duration:       {DT: "number", DTXP: "20", DTXS: "4"},
	types.Rating:         {DT: "number", DTXP: "3"},
	types.DateTime:       {DT: "timestamp"},
	types.JSON:           {DT: "clob"},
}

// dialect of oracle.
type dialect struct {
	query.DialectBase
}

// newDialect returns the oracle dialect.
func newDialect(quote func(...string) string) query.Dialect {
	d := &dialect{DialectBase: query.DialectBase{
		Quote:      quote,
		SizedTypes: []string{"varchar2", "nvarchar2", "char", "nchar", "number", "float", "raw"},
		Types:      uiTypes,
	}}
	d.Self = d
	return d
}

// Family returns oracle.
func (d *dialect) Family() string {
	return query.ORACLE
}

// MaxIdentifierLength of oracle.
func (d *dialect) MaxIdentifierLength() int {
	return maxIdentifierLength
}

// ColumnType returns varchar2(4000) if a varchar2 has no valid size.
func (d *dialect) ColumnType(c query.ColumnDefinition) string {
	typ := d.DialectBase.ColumnType(c)
	if typ == "varchar2" {
		return "varchar2(4000)"
	}
	return typ
}

// ColumnDefinition renders an oracle column, the default must be defined before the constraint.
func (d *dialect) ColumnDefinition(c query.ColumnDefinition) string {
	def := d.Quote(c.Name) + " " + d.ColumnType(c)
	if c.AI {
		def += " GENERATED BY DEFAULT AS IDENTITY"
	}
	if c.Default.Valid {
		def += " DEFAULT " + query.DefaultValue(c.Default.String)
	}
	if c.RQD || c.PK {
		def += " NOT NULL"
	}
	return def
}

// AddColumn uses ADD (...).
func (d *dialect) AddColumn(table string, c query.ColumnDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(table) + " ADD (" + d.ColumnDefinition(c) + ")"}
}

// AlterColumn renames and modifies the column.
// The null constraint is only added if it changed, oracle fails otherwise.
func (d *dialect) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	var stmts []string
	if original.Name != c.Name {
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" RENAME COLUMN "+d.Quote(original.Name)+" TO "+d.Quote(c.Name))
	}

	var modify string
	if d.ColumnType(original) != d.ColumnType(c) {
		modify += " " + d.ColumnType(c)
	}
	if original.Default != c.Default {
		if c.Default.Valid {
			modify += " DEFAULT " + query.DefaultValue(c.Default.String)
		} else {
			modify += " DEFAULT NULL"
		}
	}
	if original.RQD != c.RQD {
		if c.RQD {
			modify += " NOT NULL"
		} else {
			modify += " NULL"
		}
	}
	if modify != "" {
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" MODIFY ("+d.Quote(c.Name)+modify+")")
	}
	return stmts
}

// AddForeignKey renders the constraint without ON UPDATE, which oracle does not support.
func (d *dialect) AddForeignKey(r query.RelationDefinition) []string {
	stmt := "ALTER TABLE " + d.Quote(r.ChildTable) + " ADD CONSTRAINT " + d.Quote(r.ForeignKeyName) +
		" FOREIGN KEY (" + d.Quote(r.ChildColumn) + ") REFERENCES " + d.Quote(r.ParentTable) + " (" + d.Quote(r.ParentColumn) + ")"
	if r.OnDelete != "" && r.OnDelete != "NO ACTION" {
		stmt += " ON DELETE " + r.OnDelete
	}
	return []string{stmt}
}
