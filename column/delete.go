// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"

	"github.com/patrickascher/schemer/audit"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// Delete the column and returns the reloaded table.
// If the column was the display column, the first remaining physical column is promoted.
func (s *Service) Delete(scope *model.Scope, columnID string) (*model.Table, error) {
	c, err := scope.Column(columnID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	table, err := scope.Table(c.TableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}

	switch c.Kind {
	case model.Lookup, model.Rollup, model.Formula, model.QrCode, model.Barcode:
		err = scope.DeleteColumn(c.ID)
	case model.LinkToAnotherRecord:
		err = s.relations.Delete(scope, c)
	case model.ForeignKey:
		return nil, fmt.Errorf("column: delete of %s: %w", c.Kind, model.ErrNotImplemented)
	default:
		if c.Kind == model.SingleSelect {
			if err = grouped(scope, c); err != nil {
				return nil, err
			}
		}
		if err = s.drop(table, c); err != nil {
			return nil, err
		}
		err = scope.DeleteColumn(c.ID)
	}
	if err != nil {
		return nil, wrap(err)
	}

	if c.PV {
		if err = s.promoteDisplay(scope, table.ID); err != nil {
			return nil, err
		}
	}

	s.log(table, c).Info("column deleted")
	if err = s.audit(audit.ColumnDeleted, scope, c, fmt.Sprintf("column %s deleted on table %s", c.Title, table.Title)); err != nil {
		return nil, err
	}
	return reload(scope, table.ID)
}

// grouped returns a conflict if a kanban view is grouped by the column.
func grouped(scope *model.Scope, c *model.Column) error {
	views, err := scope.ViewsGroupedBy(c.ID)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	for _, v := range views {
		if v.Type == model.Kanban {
			return fmt.Errorf("column: %s is used by the kanban view %s: %w", c.Title, v.Title, model.ErrConflict)
		}
	}
	return nil
}

// drop the physical column.
func (s *Service) drop(table *model.Table, c *model.Column) error {
	def := c.Definition()
	def.Altered = query.AlteredDelete

	update := query.TableUpdate{Table: table.TableName, OriginalColumns: table.Definitions()}
	for _, o := range update.OriginalColumns {
		if o.Name == c.ColumnName {
			update.Columns = append(update.Columns, def)
			continue
		}
		update.Columns = append(update.Columns, o)
	}
	return s.builder.Query().Schema().TableUpdate(update)
}

// promoteDisplay flags the first physical column which is no primary key or system column as display column.
func (s *Service) promoteDisplay(scope *model.Scope, tableID string) error {
	table, err := scope.Table(tableID)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	if table.Display() != nil {
		return nil
	}
	for _, c := range table.Columns {
		if c.IsVirtual() || c.PK || c.System {
			continue
		}
		_, err = s.SetAsDisplay(scope, c.ID)
		return err
	}
	return nil
}
