// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"strings"

	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/query/types"
)

// maxIdentifierLength of sqlite.
const maxIdentifierLength = 255

// rebuildPrefix of the temporary table during a rebuild.
const rebuildPrefix = "__rebuild_"

// uiTypes maps the ui types to the sqlite types.
var uiTypes = map[string]query.PhysicalType{
	types.ID:             {DT: "integer"},
	types.ForeignKey:     {DT: "integer"},
	types.SingleLineText: {DT: "varchar", DTXP: "255"},
	types.LongText:       {DT: "text"},
	types.Attachment:     {DT: "text"},
	types.Checkbox:       {DT: "boolean"},
	types.MultiSelect:    {DT: "text"},
	types.SingleSelect:   {DT: "text"},
	types.Date:           {DT: "date"},
	types.Year:           {DT: "integer"},
	types.Time:           {DT: "time"},
	types.PhoneNumber:    {DT: "varchar", DTXP: "255"},
	types.Email:          {DT: "varchar", DTXP: "255"},
	types.URL:            {DT: "varchar", DTXP: "255"},
	types.Number:         {DT: "bigint"},
	types.Decimal:        {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Currency:       {DT: "decimal", DTXP: "10", DTXS: "2"},
	types.Percent:        {DT: "double"},
	types.Duration:       {DT: "decimal", DTXP: "20", DTXS: "4"},
	types.Rating:         {DT: "integer"},
	types.DateTime:       {DT: "datetime"},
	types.JSON:           {DT: "text"},
}

// dialect of sqlite.
// sqlite has no ALTER TABLE ADD CONSTRAINT and can only rename, add or drop columns.
// All other column changes are done by rebuilding the table.
type dialect struct {
	query.DialectBase
	indexes func(table string, column string) []string
}

// newDialect returns the sqlite dialect.
func newDialect(quote func(...string) string, indexes func(string, string) []string) query.Dialect {
	d := &dialect{
		DialectBase: query.DialectBase{
			Quote:      quote,
			SizedTypes: []string{"varchar", "char", "decimal", "numeric"},
			Types:      uiTypes,
		},
		indexes: indexes,
	}
	d.Self = d
	return d
}

// Family returns sqlite3.
func (d *dialect) Family() string {
	return query.SQLITE
}

// MaxIdentifierLength of sqlite.
func (d *dialect) MaxIdentifierLength() int {
	return maxIdentifierLength
}

// ColumnDefinition renders an auto increment column as integer primary key.
func (d *dialect) ColumnDefinition(c query.ColumnDefinition) string {
	if c.AI {
		return d.Quote(c.Name) + " integer PRIMARY KEY AUTOINCREMENT"
	}
	return d.DialectBase.ColumnDefinition(c)
}

// CreateTable adds the primary key constraint only if no auto increment column exists.
func (d *dialect) CreateTable(t query.TableCreate) []string {
	var defs []string
	var pks []string
	ai := false
	for _, c := range t.Columns {
		defs = append(defs, d.ColumnDefinition(c))
		if c.PK {
			pks = append(pks, c.Name)
		}
		ai = ai || c.AI
	}
	if len(pks) > 0 && !ai {
		defs = append(defs, "PRIMARY KEY ("+d.Quote(pks...)+")")
	}
	return []string{"CREATE TABLE " + d.Quote(t.Table) + " (" + strings.Join(defs, ", ") + ")"}
}

// AddColumn can not add a required column without a default value.
func (d *dialect) AddColumn(table string, c query.ColumnDefinition) []string {
	if !c.Default.Valid {
		c.RQD = false
		c.PK = false
	}
	return d.DialectBase.AddColumn(table, c)
}

// AlterColumn only renames the column.
// Type changes are handled by Rebuild.
func (d *dialect) AlterColumn(table string, original query.ColumnDefinition, c query.ColumnDefinition) []string {
	if original.Name == c.Name {
		return nil
	}
	return []string{"ALTER TABLE " + d.Quote(table) + " RENAME COLUMN " + d.Quote(original.Name) + " TO " + d.Quote(c.Name)}
}

// DropColumn drops all indexes of the column first.
func (d *dialect) DropColumn(table string, c query.ColumnDefinition) []string {
	var stmts []string
	if d.indexes != nil {
		for _, idx := range d.indexes(table, c.Name) {
			stmts = append(stmts, "DROP INDEX IF EXISTS "+d.Quote(idx))
		}
	}
	return append(stmts, d.DialectBase.DropColumn(table, c)...)
}

// AddForeignKey is not supported by sqlite.
func (d *dialect) AddForeignKey(r query.RelationDefinition) []string {
	return nil
}

// DropForeignKey is not supported by sqlite.
func (d *dialect) DropForeignKey(r query.RelationDefinition) []string {
	return nil
}

// Rebuild recreates the table if a column changes more than its name.
// The data is copied into a new table, the old table gets dropped and the new one renamed.
func (d *dialect) Rebuild(t query.TableUpdate) ([]string, bool) {
	rebuild := false
	for _, c := range t.Columns {
		if c.Altered != query.AlteredUpdate {
			continue
		}
		original, ok := t.Original(c)
		if !ok {
			return nil, false
		}
		original.Name = c.Name
		if !original.Equal(c) {
			rebuild = true
		}
	}
	if !rebuild {
		return nil, false
	}

	// final columns in the original order, new columns at the end.
	var final []query.ColumnDefinition
	var src, dst []string
	for _, o := range t.OriginalColumns {
		c, ok := changed(t.Columns, o.Name)
		if !ok {
			final = append(final, o)
			src = append(src, o.Name)
			dst = append(dst, o.Name)
			continue
		}
		if c.Altered == query.AlteredDelete {
			continue
		}
		if c.Altered != query.AlteredUpdate {
			c = o
		}
		final = append(final, c)
		src = append(src, o.Name)
		dst = append(dst, c.Name)
	}
	for _, c := range t.Columns {
		if c.Altered == query.AlteredNew {
			final = append(final, c)
		}
	}

	tmp := rebuildPrefix + t.Table
	stmts := d.CreateTable(query.TableCreate{Table: tmp, Columns: final})
	if len(src) > 0 {
		stmts = append(stmts, "INSERT INTO "+d.Quote(tmp)+" ("+d.Quote(dst...)+") SELECT "+d.Quote(src...)+" FROM "+d.Quote(t.Table))
	}
	stmts = append(stmts,
		"DROP TABLE "+d.Quote(t.Table),
		"ALTER TABLE "+d.Quote(tmp)+" RENAME TO "+d.Quote(t.Table),
	)
	return stmts, true
}

// changed returns the column which references the original column name.
func changed(columns []query.ColumnDefinition, original string) (query.ColumnDefinition, bool) {
	for _, c := range columns {
		name := c.OriginalName
		if name == "" {
			name = c.Name
		}
		if name == original {
			return c, true
		}
	}
	return query.ColumnDefinition{}, false
}
