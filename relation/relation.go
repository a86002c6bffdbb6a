// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package relation creates and deletes the relations between tables.
//
// A belongs-to/has-many relation adds a foreign key column to the child table and a
// virtual link column on both tables. A many-to-many relation creates a junction table
// with two foreign keys and links the junction to both tables.
package relation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	"github.com/patrickascher/schemer/stringer"
	"github.com/segmentio/ksuid"
)

// junctionColumns is the number of columns of an unused junction table.
const junctionColumns = 2

// Junction column names.
const (
	JunctionParent = "table1_id"
	JunctionChild  = "table2_id"
)

// Error messages.
var (
	ErrOptions    = errors.New("relation: column has no relation options")
	ErrPrimaryKey = "table %#v has no primary key"
)

// Request to create a relation.
// The parent is the referenced table, the child holds the foreign key.
// The title is used as alias for the column of the requesting side.
type Request struct {
	Title    string             `json:"title" validate:"required,max=255"`
	Type     model.RelationType `json:"type" validate:"required,oneof=bt hm mm"`
	ParentID string             `json:"parentId" validate:"required"`
	ChildID  string             `json:"childId" validate:"required"`
	Virtual  bool               `json:"virtual"`
}

// Manager of the relation lifecycle.
type Manager struct {
	builder query.Builder
	logger  logger.Manager
}

// New returns a relation manager on the given builder.
// If the logger is nil, the log output is discarded.
func New(b query.Builder, l logger.Manager) *Manager {
	if l == nil {
		l = logger.Discard()
	}
	return &Manager{builder: b, logger: l}
}

// Create the relation and returns the link column of the requesting side.
// This is the child column for bt and the parent column for hm and mm.
func (m *Manager) Create(scope *model.Scope, req Request) (*model.Column, error) {
	if err := model.Validate(req); err != nil {
		return nil, err
	}

	parent, err := scope.Table(req.ParentID)
	if err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	child := parent
	if req.ChildID != req.ParentID {
		if child, err = scope.Table(req.ChildID); err != nil {
			return nil, fmt.Errorf("relation: %w", err)
		}
	}

	if req.Type == model.ManyToMany {
		return m.createManyToMany(scope, parent, child, req)
	}

	pk := parent.PrimaryKey()
	if pk == nil {
		return nil, model.NewValidationError("parentId", ErrPrimaryKey, parent.TableName)
	}
	fk, err := m.addForeignKey(scope, child, parent.TableName+"_id", pk, false)
	if err != nil {
		return nil, err
	}
	bt, hm, err := m.link(scope, parent, child, pk, fk, req.Type, req.Title, req.Virtual, false)
	if err != nil {
		return nil, err
	}
	if req.Type == model.BelongsTo {
		return bt, nil
	}
	return hm, nil
}

// addForeignKey adds a column of the pk type to the table.
func (m *Manager) addForeignKey(scope *model.Scope, t *model.Table, name string, pk *model.Column, required bool) (*model.Column, error) {
	fk := &model.Column{
		TableID:    t.ID,
		ColumnName: stringer.UniqueName(t.ColumnNames(), name, m.builder.Dialect().MaxIdentifierLength()),
		Kind:       model.ForeignKey,
		DT:         pk.DT,
		DTXP:       pk.DTXP,
		DTXS:       pk.DTXS,
		UN:         pk.UN,
		RQD:        required,
		System:     true,
	}
	fk.Title = stringer.UniqueTitle(t.Titles(), fk.ColumnName)

	def := fk.Definition()
	def.Altered = query.AlteredNew
	update := query.TableUpdate{Table: t.TableName, OriginalColumns: t.Definitions()}
	update.Columns = append(append(update.Columns, update.OriginalColumns...), def)
	if err := m.builder.Query().Schema().TableUpdate(update); err != nil {
		return nil, err
	}

	if err := scope.InsertColumn(fk); err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	t.Columns = append(t.Columns, fk)
	return fk, nil
}

// link creates the constraint of the foreign key and the bt column on the child and hm column on the parent.
// The alias is used for the column of the given relation type.
func (m *Manager) link(scope *model.Scope, parent *model.Table, child *model.Table, pk *model.Column, fk *model.Column, typ model.RelationType, alias string, virtual bool, system bool) (*model.Column, *model.Column, error) {
	var fkName string
	if !virtual {
		fkName = m.constraintName(parent.TableName, child.TableName)
		err := m.builder.Query().Schema().RelationCreate(query.RelationDefinition{
			ChildTable:     child.TableName,
			ChildColumn:    fk.ColumnName,
			ParentTable:    parent.TableName,
			ParentColumn:   pk.ColumnName,
			ForeignKeyName: fkName,
			OnUpdate:       "NO ACTION",
			OnDelete:       "NO ACTION",
		})
		if err != nil {
			return nil, nil, err
		}
	}
	if virtual || m.builder.Dialect().Family() == query.POSTGRES {
		if err := m.index(child.TableName, fk.ColumnName); err != nil {
			return nil, nil, err
		}
	}

	btTitle := parent.Title
	if typ == model.BelongsTo && alias != "" {
		btTitle = alias
	}
	bt := &model.Column{
		TableID: child.ID,
		Title:   stringer.UniqueTitle(child.Titles(), btTitle),
		Kind:    model.LinkToAnotherRecord,
		Virtual: true,
		Options: &model.LinkOptions{
			Type:           model.BelongsTo,
			ChildColumnID:  fk.ID,
			ParentColumnID: pk.ID,
			RelatedTableID: parent.ID,
			Virtual:        virtual,
			FkIndexName:    fkName,
		},
	}
	if err := scope.InsertColumn(bt); err != nil {
		return nil, nil, fmt.Errorf("relation: %w", err)
	}
	child.Columns = append(child.Columns, bt)

	hmTitle := child.Title + " List"
	if typ == model.HasMany && alias != "" {
		hmTitle = alias
	}
	hm := &model.Column{
		TableID: parent.ID,
		Title:   stringer.UniqueTitle(parent.Titles(), hmTitle),
		Kind:    model.LinkToAnotherRecord,
		Virtual: true,
		System:  system,
		Options: &model.LinkOptions{
			Type:           model.HasMany,
			ChildColumnID:  fk.ID,
			ParentColumnID: pk.ID,
			RelatedTableID: child.ID,
			Virtual:        virtual,
			FkIndexName:    fkName,
		},
	}
	if err := scope.InsertColumn(hm); err != nil {
		return nil, nil, fmt.Errorf("relation: %w", err)
	}
	parent.Columns = append(parent.Columns, hm)

	m.logger.WithFields(logger.Fields{"parent": parent.TableName, "child": child.TableName, "column": fk.ColumnName, "constraint": fkName}).Info("relation created")
	return bt, hm, nil
}

// createManyToMany creates the junction table, its relations and the mm columns.
func (m *Manager) createManyToMany(scope *model.Scope, parent *model.Table, child *model.Table, req Request) (*model.Column, error) {
	parentPK, childPK := parent.PrimaryKey(), child.PrimaryKey()
	if parentPK == nil {
		return nil, model.NewValidationError("parentId", ErrPrimaryKey, parent.TableName)
	}
	if childPK == nil {
		return nil, model.NewValidationError("childId", ErrPrimaryKey, child.TableName)
	}

	junction := &model.Table{
		TableName: m.junctionName(scope.Prefix()),
		MM:        true,
	}
	junction.Title = junction.TableName
	for _, c := range []struct {
		name string
		pk   *model.Column
	}{{JunctionParent, parentPK}, {JunctionChild, childPK}} {
		junction.Columns = append(junction.Columns, &model.Column{
			ColumnName: c.name,
			Title:      c.name,
			Kind:       model.ForeignKey,
			DT:         c.pk.DT,
			DTXP:       c.pk.DTXP,
			DTXS:       c.pk.DTXS,
			UN:         c.pk.UN,
			RQD:        true,
			PK:         true,
		})
	}
	err := m.builder.Query().Schema().TableCreate(query.TableCreate{Table: junction.TableName, Columns: junction.Definitions()})
	if err != nil {
		return nil, err
	}
	if err = scope.InsertTable(junction); err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	parentCol, childCol := junction.Columns[0], junction.Columns[1]

	// junction relations, the hm columns on the endpoints are system columns.
	// link indexes both junction foreign keys on postgres.
	if _, _, err = m.link(scope, parent, junction, parentPK, parentCol, model.BelongsTo, "", req.Virtual, true); err != nil {
		return nil, err
	}
	if _, _, err = m.link(scope, child, junction, childPK, childCol, model.BelongsTo, "", req.Virtual, true); err != nil {
		return nil, err
	}

	childTitle := parent.Title + " List"
	childMM := &model.Column{
		TableID: child.ID,
		Title:   stringer.UniqueTitle(child.Titles(), childTitle),
		Kind:    model.LinkToAnotherRecord,
		Virtual: true,
		Options: &model.LinkOptions{
			Type:             model.ManyToMany,
			ChildColumnID:    childPK.ID,
			ParentColumnID:   parentPK.ID,
			RelatedTableID:   parent.ID,
			Virtual:          req.Virtual,
			MMTableID:        junction.ID,
			MMChildColumnID:  childCol.ID,
			MMParentColumnID: parentCol.ID,
		},
	}
	if err = scope.InsertColumn(childMM); err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	child.Columns = append(child.Columns, childMM)

	parentTitle := child.Title + " List"
	if req.Title != "" {
		parentTitle = req.Title
	}
	parentMM := &model.Column{
		TableID: parent.ID,
		Title:   stringer.UniqueTitle(parent.Titles(), parentTitle),
		Kind:    model.LinkToAnotherRecord,
		Virtual: true,
		Options: &model.LinkOptions{
			Type:             model.ManyToMany,
			ChildColumnID:    parentPK.ID,
			ParentColumnID:   childPK.ID,
			RelatedTableID:   child.ID,
			Virtual:          req.Virtual,
			MMTableID:        junction.ID,
			MMChildColumnID:  parentCol.ID,
			MMParentColumnID: childCol.ID,
		},
	}
	if err = scope.InsertColumn(parentMM); err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	parent.Columns = append(parent.Columns, parentMM)

	m.logger.WithFields(logger.Fields{"parent": parent.TableName, "child": child.TableName, "junction": junction.TableName}).Info("many to many relation created")
	return parentMM, nil
}

// index creates a non unique index on the column.
func (m *Manager) index(table string, column string) error {
	name := stringer.Truncate(fmt.Sprintf("%s_%s_index", table, column), m.builder.Dialect().MaxIdentifierLength())
	return m.builder.Query().Schema().IndexCreate(query.IndexDefinition{Name: name, Table: table, Columns: []string{column}})
}

// constraintName returns a unique foreign key name.
func (m *Manager) constraintName(parent string, child string) string {
	name := fmt.Sprintf("fk_%s_%s_%s", stringer.Truncate(parent, 10), stringer.Truncate(child, 10), random(5))
	return stringer.Truncate(name, m.builder.Dialect().MaxIdentifierLength())
}

// junctionName returns a unique junction table name.
func (m *Manager) junctionName(prefix string) string {
	return stringer.Truncate(prefix+"nc_m2m_"+random(8), m.builder.Dialect().MaxIdentifierLength())
}

// random returns n lower case characters of the random payload of a ksuid.
func random(n int) string {
	id := ksuid.New().String()
	return strings.ToLower(id[len(id)-n:])
}

// linkCondition of the relation columns with the given foreign key.
func linkCondition(typ model.RelationType, childColumnID string, parentColumnID string) meta.Condition {
	return meta.Where("type", query.EQ, string(typ)).
		And("child_column_id", query.EQ, childColumnID).
		And("parent_column_id", query.EQ, parentColumnID)
}
