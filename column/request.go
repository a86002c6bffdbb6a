// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package column

import (
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// Request to add or update a column.
// Only the fields of the requested kind are used.
type Request struct {
	ColumnName string     `json:"column_name" validate:"omitempty,max=255"`
	Title      string     `json:"title" validate:"required,max=255"`
	Kind       model.Kind `json:"uidt" validate:"required"`

	DT   string  `json:"dt"`
	DTXP string  `json:"dtxp"`
	DTXS string  `json:"dtxs"`
	CDF  *string `json:"cdf"`

	RQD bool `json:"rqd"`
	PK  bool `json:"pk"`
	PV  bool `json:"pv"`
	AI  bool `json:"ai"`
	UN  bool `json:"un"`

	// SingleSelect and MultiSelect
	Options []model.SelectOption `json:"options" validate:"omitempty,dive"`

	// LinkToAnotherRecord
	Type     model.RelationType `json:"type" validate:"omitempty,oneof=bt hm mm"`
	ParentID string             `json:"parentId"`
	ChildID  string             `json:"childId"`
	Virtual  *bool              `json:"virtual"`

	// Lookup and Rollup
	RelationColumnID string `json:"fk_relation_column_id"`
	LookupColumnID   string `json:"fk_lookup_column_id"`
	RollupColumnID   string `json:"fk_rollup_column_id"`
	RollupFunction   string `json:"rollup_function"`

	// Formula in the title form.
	Formula string `json:"formula_raw"`

	// QrCode and Barcode
	ValueColumnID string `json:"fk_value_column_id"`
	BarcodeFormat string `json:"barcode_format"`
}

// column returns the column of the request without options.
func (r Request) column() *model.Column {
	c := &model.Column{
		ColumnName: r.ColumnName,
		Title:      r.Title,
		Kind:       r.Kind,
		DT:         r.DT,
		DTXP:       r.DTXP,
		DTXS:       r.DTXS,
		RQD:        r.RQD,
		PK:         r.PK,
		PV:         r.PV,
		AI:         r.AI,
		UN:         r.UN,
	}
	if r.CDF != nil {
		c.CDF = query.NewNullString(*r.CDF, true)
	}
	return c
}

// selectOptions returns a copy of the requested options.
func (r Request) selectOptions() *model.SelectOptions {
	opts := &model.SelectOptions{Options: make([]model.SelectOption, len(r.Options))}
	copy(opts.Options, r.Options)
	for i := range opts.Options {
		if opts.Options[i].Order == 0 {
			opts.Options[i].Order = i + 1
		}
	}
	return opts
}
