// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
)

// maxIdentifierLength of mysql.
const maxIdentifierLength = 64

// uiTypes maps the ui types to the mysql types.
var uiTypes = map[string]query.PhysicalType{
	types.ID:             {DT: "int"},
	types.ForeignKey:     {DT: "int"},
	types.SingleLineText: {DT: "varchar", DTXP: "255"},
	types.LongText:       {DT: "text"},
	types.Attachment:     {DT: "text"},
	types.Checkbox:       {DT: "tinyint", DTXP: "1"},
	types.MultiSelect:    {DT: "set"},
	types.SingleSelect:   {DT: "enum"},
	types.Date:           {DT: "date"},
	types.Year:           {DT: "year"},
	types.Time:           {DT: "time"},
	types.PhoneNumber:    {DT: "varchar", DTXP: "255"},
	types.Email:          {DT: "varchar", DTXP: "255"},
	types.URL:            {DT: "varchar", DTXP: "255"},
	types.Number:         {DT: "bigint"},
	types.Decimal:        {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Currency:       {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Percent:        {DT: "double"},
	types.Duration:       {DT: "decimal", DTXP: "20", DTXS: "4"},
	types.Rating:         {DT: "int"},
	types.DateTime:       {DT: "datetime"},
	types.JSON:           {DT: "json"},
}

// noDefault are types which can not have a default value.
var noDefault = map[string]bool{"text": true, "tinytext": true, "mediumtext": true, "longtext": true, "blob": true, "json": true, "geometry": true}

// dialect of the mysql family.
type dialect struct {
	query.DialectBase
}

// newDialect returns the dialect of the variant.
func newDialect(variant string, quote func(...string) string) query.Dialect {
	var d query.Dialect
	base := query.DialectBase{
		Quote:      quote,
		SizedTypes: []string{"varchar", "char", "varbinary", "binary", "decimal", "numeric", "float", "double", "int", "tinyint", "smallint", "mediumint", "bigint", "bit"},
		Types:      uiTypes,
	}
	switch variant {
	case TiDB:
		t := &tidb{dialect: dialect{DialectBase: base}}
		t.Self = t
		d = t
	case Vitess:
		v := &vitess{dialect: dialect{DialectBase: base}}
		v.Self = v
		d = v
	default:
		m := &dialect{DialectBase: base}
		m.Self = m
		d = m
	}
	return d
}

// Family returns mysql.
func (d *dialect) Family() string {
	return query.MYSQL
}

// MaxIdentifierLength of mysql.
func (d *dialect) MaxIdentifierLength() int {
	return maxIdentifierLength
}

// ColumnType adds the values of enum and set.
func (d *dialect) ColumnType(c query.ColumnDefinition) string {
	switch strings.ToLower(c.DT) {
	case "enum", "set":
		if c.DTXP == "" {
			return c.DT + "('')"
		}
		return c.DT + "(" + c.DTXP + ")"
	}
	return d.DialectBase.ColumnType(c)
}

// ColumnDefinition renders a mysql column.
func (d *dialect) ColumnDefinition(c query.ColumnDefinition) string {
	def := d.Quote(c.Name) + " " + d.Self.ColumnType(c)
	if c.UN {
		def += " unsigned"
	}
	if c.RQD || c.PK {
		def += " NOT NULL"
	} else {
		def += " NULL"
	}
	if c.Default.Valid && !noDefault[strings.ToLower(c.DT)] {
		def += " DEFAULT " + query.DefaultValue(c.Default.String)
	}
	if c.AI {
		def += " AUTO_INCREMENT"
	}
	return def
}

// AlterColumn uses CHANGE COLUMN, which renames and modifies the column at once.
func (d *dialect) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(table) + " CHANGE COLUMN " + d.Quote(original.Name) + " " + d.Self.ColumnDefinition(c)}
}

// DropForeignKey uses DROP FOREIGN KEY.
func (d *dialect) DropForeignKey(r query.RelationDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(r.ChildTable) + " DROP FOREIGN KEY " + d.Quote(r.ForeignKeyName)}
}

// tidb only allows one change per statement.
type tidb struct {
	dialect
}

// Variant returns tidb.
func (t *tidb) Variant() string {
	return TiDB
}

// AlterColumn splits a rename and modification into separate statements.
func (t *tidb) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	var stmts []string
	if original.Name != c.Name {
		stmts = append(stmts, "ALTER TABLE "+t.Quote(table)+" RENAME COLUMN "+t.Quote(original.Name)+" TO "+t.Quote(c.Name))
	}
	renamed := original
	renamed.Name = c.Name
	if !renamed.Equal(c) {
		stmts = append(stmts, "ALTER TABLE "+t.Quote(table)+" MODIFY COLUMN "+t.Self.ColumnDefinition(c))
	}
	return stmts
}

// vitess does not support foreign key constraints.
type vitess struct {
	dialect
}

// Variant returns vitess.
func (v *vitess) Variant() string {
	return Vitess
}

// AddForeignKey is not supported.
func (v *vitess) AddForeignKey(r query.RelationDefinition) []string {
	return nil
}

// DropForeignKey is not supported.
func (v *vitess) DropForeignKey(r query.RelationDefinition) []string {
	return nil
}
