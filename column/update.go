// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package column

import (
	"fmt"

	"github.com/patrickascher/schemer/audit"
	"github.com/patrickascher/schemer/formula"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/slicer"
	"github.com/patrickascher/schemer/structer"
)

// Update the column and returns the reloaded table.
// The kind can only change from MultiSelect to SingleSelect.
func (s *Service) Update(scope *model.Scope, columnID string, req Request) (*model.Table, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}
	current, err := scope.Column(columnID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}
	table, err := scope.Table(current.TableID)
	if err != nil {
		return nil, fmt.Errorf("column: %w", err)
	}

	updated, err := merge(current, req)
	if err != nil {
		return nil, err
	}
	if updated.Kind != current.Kind && !(current.Kind == model.MultiSelect && updated.Kind == model.SingleSelect) {
		return nil, fmt.Errorf("column: %s to %s: %w", current.Kind, updated.Kind, model.ErrUnsupportedTransition)
	}
	if err = checkTitle(table, updated.Title, current.ID); err != nil {
		return nil, err
	}
	if !current.IsVirtual() {
		if err = s.checkName(table, updated, current.ID); err != nil {
			return nil, err
		}
	}

	switch current.Kind {
	case model.QrCode, model.Barcode:
		if updated.Options, err = valueOptions(table, req); err != nil {
			return nil, err
		}
		err = scope.UpdateColumn(updated)
	case model.Formula:
		if updated.Options, err = s.formula(table, req.Formula); err != nil {
			return nil, err
		}
		err = scope.UpdateColumn(updated)
	case model.Lookup, model.Rollup:
		if updated.Options, err = s.reference(scope, table, req); err != nil {
			return nil, err
		}
		err = scope.UpdateColumn(updated)
	case model.LinkToAnotherRecord:
		if err = linkChanged(current, req); err != nil {
			return nil, err
		}
		updated.Options = nil
		err = scope.UpdateColumn(updated)
	case model.SingleSelect, model.MultiSelect:
		err = s.updateSelect(scope, table, current, updated, req)
	default:
		if current.IsVirtual() {
			return nil, fmt.Errorf("column: %s: %w", current.Kind, model.ErrUnsupportedTransition)
		}
		if err = s.alter(table, current, updated); err != nil {
			return nil, err
		}
		err = scope.UpdateColumn(updated)
	}
	if err != nil {
		return nil, wrap(err)
	}

	if updated.Title != current.Title || updated.ColumnName != current.ColumnName {
		if err = s.retitleFormulas(scope, table.ID, current.ID); err != nil {
			return nil, err
		}
	}
	if updated.PV && !current.PV {
		if _, err = s.SetAsDisplay(scope, updated.ID); err != nil {
			return nil, err
		}
	}

	s.log(table, updated).Info("column updated")
	if err = s.audit(audit.ColumnUpdated, scope, updated, fmt.Sprintf("column %s updated on table %s", updated.Title, table.Title)); err != nil {
		return nil, err
	}
	return reload(scope, table.ID)
}

// merge the request over a copy of the current column.
// Boolean flags are always taken from the request.
func merge(current *model.Column, req Request) (*model.Column, error) {
	updated := current.Copy()
	src := req.column()
	if src.Kind == "" {
		src.Kind = current.Kind
	}
	if err := structer.Merge(updated, *src, structer.Override); err != nil {
		return nil, err
	}
	updated.RQD, updated.PK, updated.PV, updated.AI, updated.UN = req.RQD, req.PK, req.PV, req.AI, req.UN
	if req.CDF != nil {
		updated.CDF = src.CDF
	}
	return updated, nil
}

// linkChanged returns an error if anything else than the title of a relation column is changed.
// Type and virtual are only compared if they are set.
func linkChanged(current *model.Column, req Request) error {
	opts := current.LinkOptions()
	if opts == nil {
		return fmt.Errorf("column: %s: %w", current.Title, model.ErrUnsupportedTransition)
	}
	if (req.Type != "" && req.Type != opts.Type) || (req.Virtual != nil && *req.Virtual != opts.Virtual) {
		return fmt.Errorf("column: relation %s: %w", current.Title, model.ErrUnsupportedTransition)
	}
	return nil
}

// updateSelect migrates the options and alters the column.
// A title change alone only renames the alias.
func (s *Service) updateSelect(scope *model.Scope, table *model.Table, current *model.Column, updated *model.Column, req Request) error {
	updated.Options = req.selectOptions()
	if req.Options == nil {
		updated.Options = current.Copy().Options
	}
	if titleOnly(current, updated) {
		updated.Options = nil
		return scope.UpdateColumn(updated)
	}

	rewrite := current
	if current.Kind != updated.Kind {
		if current.DT == s.builder.Dialect().UIType(current.Kind.String()).DT {
			updated.DT = s.builder.Dialect().UIType(updated.Kind.String()).DT
		}
		if err := s.options.ConvertMultiToSingle(table, current); err != nil {
			return err
		}
		rewrite = current.Copy()
		rewrite.Kind = updated.Kind
	}

	if err := s.options.Prepare(updated); err != nil {
		return err
	}
	if err := s.options.Update(table, rewrite, updated); err != nil {
		return err
	}
	if err := s.alter(table, current, updated); err != nil {
		return err
	}
	return scope.UpdateColumn(updated)
}

// titleOnly reports if only the title differs.
func titleOnly(current *model.Column, updated *model.Column) bool {
	if current.Kind != updated.Kind || !current.Definition().Equal(updated.Definition()) || current.PV != updated.PV {
		return false
	}
	a, b := current.SelectOptions().Options, updated.SelectOptions().Options
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Title != b[i].Title || a[i].Color != b[i].Color {
			return false
		}
	}
	return true
}

// alter the physical column from the current to the updated definition.
func (s *Service) alter(table *model.Table, current *model.Column, updated *model.Column) error {
	def := updated.Definition()
	def.OriginalName = current.ColumnName
	def.Altered = query.AlteredUpdate

	update := query.TableUpdate{Table: table.TableName, OriginalColumns: table.Definitions()}
	for _, o := range update.OriginalColumns {
		if o.Name == current.ColumnName {
			update.Columns = append(update.Columns, def)
			continue
		}
		update.Columns = append(update.Columns, o)
	}
	return s.builder.Query().Schema().TableUpdate(update)
}

// retitleFormulas recomputes the raw form of all formulas of the table which reference the column.
func (s *Service) retitleFormulas(scope *model.Scope, tableID string, columnID string) error {
	table, err := scope.Table(tableID)
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	for _, c := range table.Columns {
		opts := c.FormulaOptions()
		if opts == nil {
			continue
		}
		refs, err := formula.References(opts.Formula)
		if err != nil {
			return err
		}
		if _, ok := slicer.StringExists(refs, columnID); !ok {
			continue
		}
		raw, err := formula.ToTitles(opts.Formula, table.Columns)
		if err != nil {
			return err
		}
		opts.FormulaRaw = raw
		if err = scope.UpdateColumn(c); err != nil {
			return fmt.Errorf("column: %w", err)
		}
	}
	return nil
}
