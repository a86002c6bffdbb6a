// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

// Column of a table.
// ColumnName is the physical name, Title the alias which is shown to the user.
type Column struct {
	ID         string `mapstructure:"id"`
	TableID    string `mapstructure:"table_id"`
	ColumnName string `mapstructure:"column_name"`
	Title      string `mapstructure:"title"`
	Kind       Kind   `mapstructure:"uidt"`

	DT   string           `mapstructure:"dt"`
	DTXP string           `mapstructure:"dtxp"`
	DTXS string           `mapstructure:"dtxs"`
	CDF  query.NullString `mapstructure:"cdf"`

	RQD     bool `mapstructure:"rqd"`
	PK      bool `mapstructure:"pk"`
	PV      bool `mapstructure:"pv"`
	AI      bool `mapstructure:"ai"`
	UN      bool `mapstructure:"un"`
	Virtual bool `mapstructure:"virtual"`
	System  bool `mapstructure:"system"`
	Order   int  `mapstructure:"position"`

	Options Options `mapstructure:"-"`
}

// IsVirtual reports if the column has no physical column.
func (c *Column) IsVirtual() bool {
	return c.Virtual || c.Kind.Virtual()
}

// Definition returns the physical description of the column.
func (c *Column) Definition() query.ColumnDefinition {
	return query.ColumnDefinition{
		Name:    c.ColumnName,
		UIType:  c.Kind.String(),
		DT:      c.DT,
		DTXP:    c.DTXP,
		DTXS:    c.DTXS,
		Default: c.CDF,
		RQD:     c.RQD,
		PK:      c.PK,
		AI:      c.AI,
		UN:      c.UN,
	}
}

// SelectOptions returns the options of a select column.
// An empty SelectOptions returns if none are set.
func (c *Column) SelectOptions() *SelectOptions {
	if o, ok := c.Options.(*SelectOptions); ok && o != nil {
		return o
	}
	return &SelectOptions{}
}

// LinkOptions returns the relation options or nil.
func (c *Column) LinkOptions() *LinkOptions {
	o, _ := c.Options.(*LinkOptions)
	return o
}

// FormulaOptions returns the formula options or nil.
func (c *Column) FormulaOptions() *FormulaOptions {
	o, _ := c.Options.(*FormulaOptions)
	return o
}

// Copy returns a copy of the column. Select options are copied, all other options are shared.
func (c *Column) Copy() *Column {
	cp := *c
	if o, ok := c.Options.(*SelectOptions); ok && o != nil {
		cp.Options = &SelectOptions{Options: append([]SelectOption(nil), o.Options...)}
	}
	return &cp
}

// record of the column without the options.
func (c *Column) record() meta.Record {
	return meta.Record{
		meta.FieldID:  c.ID,
		"table_id":    c.TableID,
		"column_name": c.ColumnName,
		"title":       c.Title,
		"uidt":        c.Kind.String(),
		"dt":          c.DT,
		"dtxp":        c.DTXP,
		"dtxs":        c.DTXS,
		"cdf":         nullable(c.CDF),
		"rqd":         c.RQD,
		"pk":          c.PK,
		"pv":          c.PV,
		"ai":          c.AI,
		"un":          c.UN,
		"virtual":     c.Virtual,
		"system":      c.System,
		"position":    c.Order,
	}
}
