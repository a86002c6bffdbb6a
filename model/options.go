// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/patrickascher/schemer/meta"
)

// RelationType of a LinkToAnotherRecord column.
type RelationType string

// Relation types.
const (
	BelongsTo  RelationType = "bt"
	HasMany    RelationType = "hm"
	ManyToMany RelationType = "mm"
)

// Rollup functions.
var RollupFunctions = []string{"count", "min", "max", "avg", "sum", "countDistinct", "sumDistinct", "avgDistinct"}

// Options is the kind specific part of a column.
// The implementations are SelectOptions, LinkOptions, LookupOptions, RollupOptions,
// FormulaOptions, QrCodeOptions and BarcodeOptions.
type Options interface {
	// MetaKind returns the kind the options are stored as.
	MetaKind() meta.Kind
	// insert the options for the column and set the generated ids.
	insert(s meta.Store, columnID string) error
}

// SelectOption is a choice of a SingleSelect or MultiSelect column.
type SelectOption struct {
	ID       string `json:"id" mapstructure:"id"`
	ColumnID string `json:"-" mapstructure:"column_id"`
	Title    string `json:"title" mapstructure:"title"`
	Color    string `json:"color" mapstructure:"color"`
	Order    int    `json:"order" mapstructure:"position"`
}

// SelectOptions of a select column.
type SelectOptions struct {
	Options []SelectOption
}

// Titles of all options.
func (o *SelectOptions) Titles() []string {
	rv := make([]string, 0, len(o.Options))
	for _, opt := range o.Options {
		rv = append(rv, opt.Title)
	}
	return rv
}

// ByID returns the option with the given id.
func (o *SelectOptions) ByID(id string) (SelectOption, bool) {
	for _, opt := range o.Options {
		if id != "" && opt.ID == id {
			return opt, true
		}
	}
	return SelectOption{}, false
}

func (o *SelectOptions) MetaKind() meta.Kind { return meta.SelectOption }

func (o *SelectOptions) insert(s meta.Store, columnID string) error {
	for i := range o.Options {
		opt := &o.Options[i]
		opt.ColumnID = columnID
		if opt.Order == 0 {
			opt.Order = i + 1
		}
		id, err := s.Insert(meta.SelectOption, meta.Record{
			meta.FieldID: opt.ID,
			"column_id":  columnID,
			"title":      opt.Title,
			"color":      opt.Color,
			"position":   opt.Order,
		})
		if err != nil {
			return err
		}
		opt.ID = id
	}
	return nil
}

// LinkOptions describe a relation.
// For a bt and hm relation the child column is the foreign key column and the parent column the primary key
// of the parent table. For a mm relation the MM fields reference the junction table and its columns.
type LinkOptions struct {
	ID               string       `mapstructure:"id"`
	ColumnID         string       `mapstructure:"column_id"`
	Type             RelationType `mapstructure:"type"`
	ChildColumnID    string       `mapstructure:"child_column_id"`
	ParentColumnID   string       `mapstructure:"parent_column_id"`
	RelatedTableID   string       `mapstructure:"related_table_id"`
	Virtual          bool         `mapstructure:"virtual"`
	FkIndexName      string       `mapstructure:"fk_index_name"`
	MMTableID        string       `mapstructure:"mm_table_id"`
	MMChildColumnID  string       `mapstructure:"mm_child_column_id"`
	MMParentColumnID string       `mapstructure:"mm_parent_column_id"`
}

func (o *LinkOptions) MetaKind() meta.Kind { return meta.Relation }

func (o *LinkOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.Relation, meta.Record{
		meta.FieldID:          o.ID,
		"column_id":           columnID,
		"type":                string(o.Type),
		"child_column_id":     o.ChildColumnID,
		"parent_column_id":    o.ParentColumnID,
		"related_table_id":    o.RelatedTableID,
		"virtual":             o.Virtual,
		"fk_index_name":       o.FkIndexName,
		"mm_table_id":         o.MMTableID,
		"mm_child_column_id":  o.MMChildColumnID,
		"mm_parent_column_id": o.MMParentColumnID,
	})
	o.ID = id
	return err
}

// LookupOptions reference a column of a related table.
type LookupOptions struct {
	ID               string `mapstructure:"id"`
	ColumnID         string `mapstructure:"column_id"`
	RelationColumnID string `mapstructure:"relation_column_id"`
	LookupColumnID   string `mapstructure:"lookup_column_id"`
}

func (o *LookupOptions) MetaKind() meta.Kind { return meta.Lookup }

func (o *LookupOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.Lookup, meta.Record{
		meta.FieldID:         o.ID,
		"column_id":          columnID,
		"relation_column_id": o.RelationColumnID,
		"lookup_column_id":   o.LookupColumnID,
	})
	o.ID = id
	return err
}

// RollupOptions aggregate a column of a related table.
type RollupOptions struct {
	ID               string `mapstructure:"id"`
	ColumnID         string `mapstructure:"column_id"`
	RelationColumnID string `mapstructure:"relation_column_id"`
	RollupColumnID   string `mapstructure:"rollup_column_id"`
	RollupFunction   string `mapstructure:"rollup_function"`
}

func (o *RollupOptions) MetaKind() meta.Kind { return meta.Rollup }

func (o *RollupOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.Rollup, meta.Record{
		meta.FieldID:         o.ID,
		"column_id":          columnID,
		"relation_column_id": o.RelationColumnID,
		"rollup_column_id":   o.RollupColumnID,
		"rollup_function":    o.RollupFunction,
	})
	o.ID = id
	return err
}

// FormulaOptions hold the formula in the id form and the raw form with column titles.
type FormulaOptions struct {
	ID         string `mapstructure:"id"`
	ColumnID   string `mapstructure:"column_id"`
	Formula    string `mapstructure:"formula"`
	FormulaRaw string `mapstructure:"formula_raw"`
	Error      string `mapstructure:"error"`
}

func (o *FormulaOptions) MetaKind() meta.Kind { return meta.Formula }

func (o *FormulaOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.Formula, meta.Record{
		meta.FieldID:  o.ID,
		"column_id":   columnID,
		"formula":     o.Formula,
		"formula_raw": o.FormulaRaw,
		"error":       o.Error,
	})
	o.ID = id
	return err
}

// QrCodeOptions reference the value column.
type QrCodeOptions struct {
	ID            string `mapstructure:"id"`
	ColumnID      string `mapstructure:"column_id"`
	ValueColumnID string `mapstructure:"value_column_id"`
}

func (o *QrCodeOptions) MetaKind() meta.Kind { return meta.QrCode }

func (o *QrCodeOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.QrCode, meta.Record{
		meta.FieldID:      o.ID,
		"column_id":       columnID,
		"value_column_id": o.ValueColumnID,
	})
	o.ID = id
	return err
}

// BarcodeOptions reference the value column and the barcode format.
type BarcodeOptions struct {
	ID            string `mapstructure:"id"`
	ColumnID      string `mapstructure:"column_id"`
	ValueColumnID string `mapstructure:"value_column_id"`
	Format        string `mapstructure:"format"`
}

func (o *BarcodeOptions) MetaKind() meta.Kind { return meta.Barcode }

func (o *BarcodeOptions) insert(s meta.Store, columnID string) error {
	o.ColumnID = columnID
	id, err := s.Insert(meta.Barcode, meta.Record{
		meta.FieldID:      o.ID,
		"column_id":       columnID,
		"value_column_id": o.ValueColumnID,
		"format":          o.Format,
	})
	o.ID = id
	return err
}

// optionKind returns the meta kind of the column options.
// False returns if the kind has no options.
func optionKind(k Kind) (meta.Kind, bool) {
	switch k {
	case SingleSelect, MultiSelect:
		return meta.SelectOption, true
	case LinkToAnotherRecord:
		return meta.Relation, true
	case Lookup:
		return meta.Lookup, true
	case Rollup:
		return meta.Rollup, true
	case Formula:
		return meta.Formula, true
	case QrCode:
		return meta.QrCode, true
	case Barcode:
		return meta.Barcode, true
	}
	return "", false
}
