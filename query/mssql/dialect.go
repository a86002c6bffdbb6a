// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
	"github.com/patrickascher/schemer/stringer"
)

// maxIdentifierLength of sql server.
const maxIdentifierLength = 128

// uiTypes maps the ui types to the sql server types.
// Select types are stored as text, therefore rows are matched with LIKE.
var uiTypes = map[string]query.PhysicalType{
	types.ID:             {DT: "int"},
	types.ForeignKey:     {DT: "int"},
	types.SingleLineText: {DT: "varchar", DTXP: "255"},
	types.LongText:       {DT: "varchar", DTXP: "max"},
	types.Attachment:     {DT: "varchar", DTXP: "max"},
	types.Checkbox:       {DT: "bit"},
	types.MultiSelect:    {DT: "text"},
	types.SingleSelect:   {DT: "text"},
	types.Date:           {DT: "date"},
	types.Year:           {DT: "int"},
	types.Time:           {DT: "time"},
	types.PhoneNumber:    {DT: "varchar", DTXP: "255"},
	types.Email:          {DT: "varchar", DTXP: "255"},
	types.URL:            {DT: "varchar", DTXP: "255"},
	types.Number:         {DT: "bigint"},
	types.Decimal:        {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Currency:       {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Percent:        {DT: "float"},
	types.Duration:       {DT: "decimal", DTXP: "20", DTXS: "4"},
	types.Rating:         {DT: "int"},
	types.DateTime:       {DT: "datetime2"},
	types.JSON:           {DT: "varchar", DTXP: "max"},
}

// dialect of sql server.
type dialect struct {
	query.DialectBase
}

// newDialect returns the sql server dialect.
func newDialect(quote func(...string) string) query.Dialect {
	d := &dialect{DialectBase: query.DialectBase{
		Quote:      quote,
		SizedTypes: []string{"varchar", "nvarchar", "char", "nchar", "varbinary", "decimal", "numeric"},
		Types:      uiTypes,
	}}
	d.Self = d
	return d
}

// Family returns mssql.
func (d *dialect) Family() string {
	return query.MSSQL
}

// MaxIdentifierLength of sql server.
func (d *dialect) MaxIdentifierLength() int {
	return maxIdentifierLength
}

// ColumnType returns varchar(max) if a varchar has no valid size.
func (d *dialect) ColumnType(c query.ColumnDefinition) string {
	typ := d.DialectBase.ColumnType(c)
	if typ == "varchar" {
		return "varchar(max)"
	}
	return typ
}

// ColumnDefinition renders a sql server column.
// The default is added without a constraint name, CreateTable and AddColumn name it.
func (d *dialect) ColumnDefinition(c query.ColumnDefinition) string {
	return d.definition("", c)
}

// definition renders the column with a named default constraint if the table is set.
func (d *dialect) definition(table string, c query.ColumnDefinition) string {
	def := d.Quote(c.Name) + " " + d.ColumnType(c)
	if c.AI {
		def += " IDENTITY(1,1)"
	}
	if c.RQD || c.PK {
		def += " NOT NULL"
	} else {
		def += " NULL"
	}
	if c.Default.Valid {
		if table != "" {
			def += " CONSTRAINT " + d.Quote(defaultName(table, c.Name))
		}
		def += " DEFAULT " + query.DefaultValue(c.Default.String)
	}
	return def
}

// CreateTable renders the columns with named default constraints.
func (d *dialect) CreateTable(t query.TableCreate) []string {
	var defs []string
	var pks []string
	for _, c := range t.Columns {
		defs = append(defs, d.definition(t.Table, c))
		if c.PK {
			pks = append(pks, c.Name)
		}
	}
	if len(pks) > 0 {
		defs = append(defs, "PRIMARY KEY ("+d.Quote(pks...)+")")
	}
	return []string{"CREATE TABLE " + d.Quote(t.Table) + " (" + strings.Join(defs, ", ") + ")"}
}

// AddColumn uses ADD without the COLUMN keyword.
func (d *dialect) AddColumn(table string, c query.ColumnDefinition) []string {
	return []string{"ALTER TABLE " + d.Quote(table) + " ADD " + d.definition(table, c)}
}

// AlterColumn renames with sp_rename and modifies the type and nullability.
// The default constraint depends on the column, it is dropped before and added again after the change.
func (d *dialect) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	renamed := original.Name != c.Name
	modified := d.ColumnType(original) != d.ColumnType(c) || original.RQD != c.RQD
	recreate := original.Default != c.Default || (original.Default.Valid && (renamed || modified))

	var stmts []string
	if recreate {
		stmts = append(stmts, d.dropDefault(table, original.Name))
	}
	if renamed {
		stmts = append(stmts, "EXEC sp_rename '"+query.EscapeLiteral(table+"."+original.Name)+"', '"+query.EscapeLiteral(c.Name)+"', 'COLUMN'")
	}
	if modified {
		null := " NULL"
		if c.RQD {
			null = " NOT NULL"
		}
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" ALTER COLUMN "+d.Quote(c.Name)+" "+d.ColumnType(c)+null)
	}
	if recreate && c.Default.Valid {
		stmts = append(stmts, "ALTER TABLE "+d.Quote(table)+" ADD CONSTRAINT "+d.Quote(defaultName(table, c.Name))+
			" DEFAULT "+query.DefaultValue(c.Default.String)+" FOR "+d.Quote(c.Name))
	}
	return stmts
}

// DropColumn drops the default constraint of the column first.
func (d *dialect) DropColumn(table string, c query.ColumnDefinition) []string {
	return []string{d.dropDefault(table, c.Name), "ALTER TABLE " + d.Quote(table) + " DROP COLUMN " + d.Quote(c.Name)}
}

// dropDefault drops the default constraint of the column if it exists.
func (d *dialect) dropDefault(table string, column string) string {
	name := defaultName(table, column)
	return "IF OBJECT_ID('" + query.EscapeLiteral(name) + "', 'D') IS NOT NULL ALTER TABLE " + d.Quote(table) + " DROP CONSTRAINT " + d.Quote(name)
}

// defaultName of the default constraint of a column.
func defaultName(table string, column string) string {
	return stringer.Truncate("DF_"+table+"_"+column, maxIdentifierLength)
}
