// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package relation

import (
	"errors"
	"fmt"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// foreignKey describes the physical part of a bt/hm relation.
type foreignKey struct {
	child        *model.Table
	parent       *model.Table
	childColumn  *model.Column
	parentColumn *model.Column
	virtual      bool
}

// Delete the relation of the link column.
func (m *Manager) Delete(scope *model.Scope, c *model.Column) error {
	opts := c.LinkOptions()
	if opts == nil {
		return ErrOptions
	}
	if opts.Type == model.ManyToMany {
		return m.deleteManyToMany(scope, c, opts)
	}

	fk, err := m.foreignKey(scope, opts.ChildColumnID, opts.ParentColumnID, opts.Virtual)
	if err != nil {
		return err
	}
	return m.deleteBelongsTo(scope, fk, c, opts)
}

// foreignKey loads the tables and columns of a relation.
func (m *Manager) foreignKey(scope *model.Scope, childColumnID string, parentColumnID string, virtual bool) (foreignKey, error) {
	fk := foreignKey{virtual: virtual}
	var err error
	if fk.childColumn, err = scope.Column(childColumnID); err != nil {
		return fk, fmt.Errorf("relation: %w", err)
	}
	if fk.parentColumn, err = scope.Column(parentColumnID); err != nil {
		return fk, fmt.Errorf("relation: %w", err)
	}
	if fk.child, err = scope.Table(fk.childColumn.TableID); err != nil {
		return fk, fmt.Errorf("relation: %w", err)
	}
	if fk.parent, err = scope.Table(fk.parentColumn.TableID); err != nil {
		return fk, fmt.Errorf("relation: %w", err)
	}
	return fk, nil
}

// deleteBelongsTo drops the constraint of the foreign key.
// If the link column is set, the column, its mirror and the foreign key column are deleted as well.
func (m *Manager) deleteBelongsTo(scope *model.Scope, fk foreignKey, c *model.Column, opts *model.LinkOptions) error {
	name := ""
	if opts != nil {
		name = opts.FkIndexName
	}
	if name == "" {
		name = m.constraintOf(fk)
	}
	if name == "" && !fk.virtual {
		name = m.describedConstraint(fk)
	}

	log := m.logger.WithFields(logger.Fields{"parent": fk.parent.TableName, "child": fk.child.TableName, "column": fk.childColumn.ColumnName, "constraint": name})
	if !fk.virtual && name != "" {
		err := m.builder.Query().Schema().RelationDelete(query.RelationDefinition{
			ChildTable:     fk.child.TableName,
			ChildColumn:    fk.childColumn.ColumnName,
			ParentTable:    fk.parent.TableName,
			ParentColumn:   fk.parentColumn.ColumnName,
			ForeignKeyName: name,
		})
		if err != nil {
			log.WithError(err).Warning("foreign key could not be dropped")
		}
	}
	if opts == nil {
		return nil
	}

	// mirror column on the related table.
	mirror := model.HasMany
	if opts.Type == model.HasMany {
		mirror = model.BelongsTo
	}
	links, err := scope.Links(linkCondition(mirror, opts.ChildColumnID, opts.ParentColumnID))
	if err != nil {
		return fmt.Errorf("relation: %w", err)
	}
	for _, l := range links {
		if err = m.deleteColumn(scope, l.ColumnID); err != nil {
			return err
		}
	}
	if err = m.deleteColumn(scope, c.ID); err != nil {
		return err
	}

	// foreign key column
	def := fk.childColumn.Definition()
	def.Altered = query.AlteredDelete
	update := query.TableUpdate{Table: fk.child.TableName, OriginalColumns: fk.child.Definitions()}
	for _, o := range update.OriginalColumns {
		if o.Name == def.Name {
			update.Columns = append(update.Columns, def)
			continue
		}
		update.Columns = append(update.Columns, o)
	}
	if err = m.builder.Query().Schema().TableUpdate(update); err != nil {
		return err
	}
	if err = m.deleteColumn(scope, fk.childColumn.ID); err != nil {
		return err
	}

	log.Info("relation deleted")
	return nil
}

// constraintOf returns the constraint name of a bt column on the child table which matches the foreign key.
func (m *Manager) constraintOf(fk foreignKey) string {
	for _, c := range fk.child.Columns {
		o := c.LinkOptions()
		if o == nil || o.Type != model.BelongsTo {
			continue
		}
		if o.RelatedTableID == fk.parent.ID && o.ChildColumnID == fk.childColumn.ID && o.ParentColumnID == fk.parentColumn.ID {
			return o.FkIndexName
		}
	}
	return ""
}

// describedConstraint reads the constraint name of the foreign key from the database.
// An empty string is returned if the database does not report it.
func (m *Manager) describedConstraint(fk foreignKey) string {
	fks, err := m.builder.Query().Information(fk.child.TableName).ForeignKey()
	if err != nil {
		m.logger.WithFields(logger.Fields{"table": fk.child.TableName}).Debug(err.Error())
		return ""
	}
	for _, f := range fks {
		if f.Primary.Column == fk.childColumn.ColumnName && f.Secondary.Table == fk.parent.TableName && f.Secondary.Column == fk.parentColumn.ColumnName {
			return f.Name
		}
	}
	return ""
}

// deleteManyToMany drops the junction constraints and deletes the mm columns and the junction links.
// The junction table is dropped if only the two foreign keys are left.
func (m *Manager) deleteManyToMany(scope *model.Scope, c *model.Column, opts *model.LinkOptions) error {
	junction, err := scope.Table(opts.MMTableID)
	if err != nil {
		return fmt.Errorf("relation: %w", err)
	}

	// constraints of both junction foreign keys.
	for _, ids := range [][2]string{{opts.MMChildColumnID, opts.ChildColumnID}, {opts.MMParentColumnID, opts.ParentColumnID}} {
		fk, err := m.foreignKey(scope, ids[0], ids[1], opts.Virtual)
		if err != nil {
			return err
		}
		if err = m.deleteBelongsTo(scope, fk, nil, nil); err != nil {
			return err
		}
	}

	// mirror and own mm column.
	links, err := scope.Links(meta.Where("type", query.EQ, string(model.ManyToMany)).And("mm_table_id", query.EQ, junction.ID))
	if err != nil {
		return fmt.Errorf("relation: %w", err)
	}
	for _, l := range links {
		if l.ColumnID == c.ID {
			continue
		}
		if err = m.deleteColumn(scope, l.ColumnID); err != nil {
			return err
		}
	}
	if err = m.deleteColumn(scope, c.ID); err != nil {
		return err
	}

	// bt columns on the junction and hm columns on the endpoints.
	fks := []string{opts.MMChildColumnID, opts.MMParentColumnID}
	links, err = scope.Links(meta.Where("child_column_id", query.IN, fks).And("type", query.IN, []string{string(model.BelongsTo), string(model.HasMany)}))
	if err != nil {
		return fmt.Errorf("relation: %w", err)
	}
	for _, l := range links {
		if err = m.deleteColumn(scope, l.ColumnID); err != nil {
			return err
		}
	}

	cols, err := scope.Columns(junction.ID)
	if err != nil {
		return fmt.Errorf("relation: %w", err)
	}
	if len(cols) == junctionColumns {
		if err = m.builder.Query().Schema().TableDelete(junction.TableName); err != nil {
			return err
		}
		if err = scope.DeleteTable(junction.ID); err != nil {
			return fmt.Errorf("relation: %w", err)
		}
		m.logger.WithFields(logger.Fields{"junction": junction.TableName}).Info("junction table dropped")
	}
	return nil
}

// deleteColumn deletes the column metadata. Already deleted columns are ignored.
func (m *Manager) deleteColumn(scope *model.Scope, id string) error {
	if err := scope.DeleteColumn(id); err != nil && !isNotFound(err) {
		return fmt.Errorf("relation: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, meta.ErrNotFound)
}
