// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package option migrates the options of SingleSelect and MultiSelect columns.
//
// Prepare validates and normalizes the options before a column is created or altered.
// Update rewrites the stored row values when options are removed or renamed.
// Renames which collide with an existing title are resolved over a temporary title.
package option

import (
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/slicer"
)

// maxSetOptions is the maximum of members of a mysql set.
const maxSetOptions = 64

// Error messages.
const (
	msgDuplicate = "Duplicates are not allowed!"
	msgEmpty     = "Empty options are not allowed!"
	msgComma     = "Illegal char(',') for MultiSelect"
	msgDefault   = "Default value %#v is not a select option"
)

// Migrator of select options.
type Migrator struct {
	builder query.Builder
	logger  logger.Manager
}

// New returns a migrator on the given builder.
// If the logger is nil, the log output is discarded.
func New(b query.Builder, l logger.Manager) *Migrator {
	if l == nil {
		l = logger.Discard()
	}
	return &Migrator{builder: b, logger: l}
}

// Prepare validates the options of the column and sets the dtxp, dtxs and default.
func (m *Migrator) Prepare(c *model.Column) error {
	if !c.Kind.Select() {
		return nil
	}
	opts := c.SelectOptions()
	family := m.builder.Dialect().Family()

	// trailing whitespaces are removed by mysql on enum and set.
	if c.DT == "enum" || c.DT == "set" {
		for i := range opts.Options {
			opts.Options[i].Title = strings.TrimRight(opts.Options[i].Title, " \t\r\n")
		}
	}

	titles := opts.Titles()
	if len(slicer.StringDuplicates(titles)) > 0 {
		return model.NewValidationError("options", msgDuplicate)
	}
	for _, t := range titles {
		if t == "" {
			return model.NewValidationError("options", msgEmpty)
		}
		if c.Kind == model.MultiSelect && strings.Contains(t, ",") {
			return model.NewValidationError("options", msgComma)
		}
	}

	if err := m.prepareDefault(c, family, titles); err != nil {
		return err
	}

	c.DTXP = Encode(titles)
	c.DTXS = ""
	if family == query.MYSQL {
		if len(titles) == 0 {
			c.DTXP = "''"
		}
		if c.DT == "set" && len(titles) > maxSetOptions {
			c.DT = "text"
		}
	}
	return nil
}

// prepareDefault checks if the default is a configured option and escapes it for the dialect.
func (m *Migrator) prepareDefault(c *model.Column, family string, titles []string) error {
	if !c.CDF.Valid || c.CDF.String == "" {
		return nil
	}

	value := Unquote(c.CDF.String)
	values := []string{value}
	if c.Kind == model.MultiSelect {
		values = strings.Split(value, ",")
	}
	for _, v := range values {
		if _, ok := slicer.StringExists(titles, v); !ok {
			return model.NewValidationError("cdf", msgDefault, v)
		}
	}

	switch family {
	case query.MYSQL:
	case query.POSTGRES:
		value = "'" + query.EscapeLiteral(value) + "'"
	default:
		value = query.EscapeLiteral(value)
	}
	c.CDF = query.NewNullString(value, true)
	return nil
}

// Unquote returns the raw default value. Surrounding quotes are removed and escaped quotes are unescaped.
func Unquote(v string) string {
	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = v[1 : len(v)-1]
	}
	return strings.ReplaceAll(v, "''", "'")
}

// rename of an option title.
type renaming struct {
	from string
	to   string
}

// Update rewrites the row values of the column from the current to the updated options.
// Removed options are deleted from the rows first, then the renamed options are replaced.
// A rename to a title which is currently in use, is done over a temporary title which
// is resolved after all other renames.
// Only a deletion or rename of a MultiSelect option requires a dialect with a row rewrite.
func (m *Migrator) Update(table *model.Table, current *model.Column, updated *model.Column) error {
	family := m.builder.Dialect().Family()
	col := m.builder.QuoteIdentifier(current.ColumnName)
	cur := current.SelectOptions()
	upd := updated.SelectOptions()

	// deletions
	for _, o := range cur.Options {
		if _, ok := upd.ByID(o.ID); ok {
			continue
		}
		if err := rewritable(family, updated.Kind); err != nil {
			return err
		}
		rewrites, err := removal(family, current.Kind, current.DT, col, o.Title)
		if err != nil {
			return err
		}
		m.logger.WithFields(logger.Fields{"table": table.TableName, "column": current.ColumnName, "option": o.Title}).Debug("option removed")
		for _, r := range rewrites {
			if err = m.exec(table.TableName, current.ColumnName, r); err != nil {
				return err
			}
		}
	}

	// renames
	oldTitles := cur.Titles()
	newTitles := upd.Titles()
	used := append(append([]string{}, oldTitles...), newTitles...)
	widened := append([]model.SelectOption{}, cur.Options...)
	var swaps []renaming
	for _, o := range upd.Options {
		old, ok := cur.ByID(o.ID)
		if !ok || old.Title == o.Title {
			continue
		}
		if err := rewritable(family, updated.Kind); err != nil {
			return err
		}

		target := o.Title
		if _, ok := slicer.StringExists(oldTitles, target); ok {
			target = temporary(used, o.Title)
			used = append(used, target)
			swaps = append(swaps, renaming{from: target, to: o.Title})
		}

		if m.enumerated(current) {
			widened = append(widened, model.SelectOption{Title: target})
			if err := m.widen(table, current, widened); err != nil {
				return err
			}
		}
		if err := m.rename(table, current, col, old.Title, target); err != nil {
			return err
		}
	}

	// swap resolution
	for _, s := range swaps {
		if m.enumerated(current) {
			widened = append(widened, model.SelectOption{Title: s.to})
			if err := m.widen(table, current, widened); err != nil {
				return err
			}
		}
		if err := m.rename(table, current, col, s.from, s.to); err != nil {
			return err
		}
	}

	return nil
}

// ConvertMultiToSingle keeps only the first token of every row value.
func (m *Migrator) ConvertMultiToSingle(table *model.Table, c *model.Column) error {
	r, err := firstToken(m.builder.Dialect().Family(), m.builder.QuoteIdentifier(c.ColumnName))
	if err != nil {
		return fmt.Errorf("option: %w", err)
	}
	m.logger.WithFields(logger.Fields{"table": table.TableName, "column": c.ColumnName}).Debug("multi select converted")
	return m.exec(table.TableName, c.ColumnName, r)
}

// rename the title in all rows.
func (m *Migrator) rename(table *model.Table, c *model.Column, col string, from string, to string) error {
	r, err := rename(m.builder.Dialect().Family(), c.Kind, c.DT, col, from, to)
	if err != nil {
		return err
	}
	m.logger.WithFields(logger.Fields{"table": table.TableName, "column": c.ColumnName, "from": from, "to": to}).Debug("option renamed")
	return m.exec(table.TableName, c.ColumnName, r)
}

// enumerated reports if the column values are restricted by the column type.
func (m *Migrator) enumerated(c *model.Column) bool {
	return m.builder.Dialect().Family() == query.MYSQL && (c.DT == "enum" || c.DT == "set")
}

// widen alters the column to allow the given options.
// Otherwise mysql would reject the renamed values.
func (m *Migrator) widen(table *model.Table, c *model.Column, opts []model.SelectOption) error {
	titles := make([]string, 0, len(opts))
	for _, o := range opts {
		titles = append(titles, o.Title)
	}

	def := c.Definition()
	def.OriginalName = c.ColumnName
	def.DTXP = Encode(slicer.StringUnique(titles))
	def.Altered = query.AlteredUpdate

	update := query.TableUpdate{Table: table.TableName, OriginalColumns: table.Definitions()}
	for _, o := range update.OriginalColumns {
		if o.Name == c.ColumnName {
			update.Columns = append(update.Columns, def)
			continue
		}
		update.Columns = append(update.Columns, o)
	}
	return m.builder.Query().Schema().TableUpdate(update)
}

// exec the rewrite on the table.
func (m *Migrator) exec(table string, column string, r Rewrite) error {
	u := m.builder.Query().Update(table).Set(map[string]interface{}{column: r.Value})
	if r.Where != "" {
		u.Where(r.Where, r.Args...)
	}
	if _, err := u.Exec(); err != nil {
		return fmt.Errorf("option: %s.%s: %w", table, column, err)
	}
	return nil
}

// temporary returns a title which is not used yet.
func temporary(used []string, title string) string {
	for i := 1; ; i++ {
		t := fmt.Sprintf("%s_%d", title, i)
		if _, ok := slicer.StringExists(used, t); !ok {
			return t
		}
	}
}
