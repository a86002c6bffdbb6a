// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

// Table with its ordered columns.
// MM is set for junction tables of a many to many relation.
type Table struct {
	ID        string `mapstructure:"id"`
	BaseID    string `mapstructure:"base_id"`
	TableName string `mapstructure:"table_name"`
	Title     string `mapstructure:"title"`
	MM        bool   `mapstructure:"mm"`
	Order     int    `mapstructure:"position"`

	Columns []*Column `mapstructure:"-"`
}

// Column returns the column by id or nil.
func (t *Table) Column(id string) *Column {
	for _, c := range t.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ColumnByName returns the column by its physical name or nil.
func (t *Table) ColumnByName(name string) *Column {
	for _, c := range t.Columns {
		if c.ColumnName == name && !c.IsVirtual() {
			return c
		}
	}
	return nil
}

// ColumnByTitle returns the column by title or nil.
func (t *Table) ColumnByTitle(title string) *Column {
	for _, c := range t.Columns {
		if c.Title == title {
			return c
		}
	}
	return nil
}

// PrimaryKey returns the first primary key column or nil.
func (t *Table) PrimaryKey() *Column {
	for _, c := range t.Columns {
		if c.PK {
			return c
		}
	}
	return nil
}

// Display returns the display column or nil.
func (t *Table) Display() *Column {
	for _, c := range t.Columns {
		if c.PV {
			return c
		}
	}
	return nil
}

// Titles of all columns.
func (t *Table) Titles() []string {
	rv := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		rv = append(rv, c.Title)
	}
	return rv
}

// ColumnNames of all physical columns.
func (t *Table) ColumnNames() []string {
	var rv []string
	for _, c := range t.Columns {
		if !c.IsVirtual() {
			rv = append(rv, c.ColumnName)
		}
	}
	return rv
}

// Definitions of all physical columns.
func (t *Table) Definitions() []query.ColumnDefinition {
	var rv []query.ColumnDefinition
	for _, c := range t.Columns {
		if !c.IsVirtual() {
			rv = append(rv, c.Definition())
		}
	}
	return rv
}

func (t *Table) record() meta.Record {
	return meta.Record{
		meta.FieldID: t.ID,
		"base_id":    t.BaseID,
		"table_name": t.TableName,
		"title":      t.Title,
		"mm":         t.MM,
		"position":   t.Order,
	}
}
