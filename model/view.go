// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import "github.com/patrickascher/schemer/meta"

// ViewType of a view.
type ViewType string

// View types.
const (
	Grid    ViewType = "grid"
	Form    ViewType = "form"
	Gallery ViewType = "gallery"
	Kanban  ViewType = "kanban"
)

// View of a table. Kanban views are grouped by a SingleSelect column.
type View struct {
	ID               string   `mapstructure:"id"`
	TableID          string   `mapstructure:"table_id"`
	Type             ViewType `mapstructure:"type"`
	Title            string   `mapstructure:"title"`
	GroupingColumnID string   `mapstructure:"grouping_column_id"`
}

func (v *View) record() meta.Record {
	var grouping interface{}
	if v.GroupingColumnID != "" {
		grouping = v.GroupingColumnID
	}
	return meta.Record{
		meta.FieldID:         v.ID,
		"table_id":           v.TableID,
		"type":               string(v.Type),
		"title":              v.Title,
		"grouping_column_id": grouping,
	}
}
