// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package relation_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/meta/memory"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	_ "github.com/patrickascher/schemer/query/sqlite"
	"github.com/patrickascher/schemer/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScope returns a sqlite builder and a scope with the tables customers and orders.
func newScope(t *testing.T) (query.Builder, *model.Scope, *model.Table, *model.Table) {
	b, err := query.Open(query.Config{Client: "sqlite", Database: filepath.Join(t.TempDir(), "relation.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Query().DB().Close() })

	store, err := memory.New(nil)
	require.NoError(t, err)
	scope := model.NewScope(store, nil, &model.Base{ID: "b1", Prefix: "p_"})

	var tables []*model.Table
	for _, name := range [][2]string{{"customers", "Customers"}, {"orders", "Orders"}} {
		tbl := &model.Table{TableName: name[0], Title: name[1], Columns: []*model.Column{
			{ColumnName: "id", Title: "Id", Kind: model.ID, DT: "integer", PK: true, AI: true, RQD: true},
			{ColumnName: "title", Title: "Title", Kind: model.SingleLineText, DT: "varchar", DTXP: "255", PV: true},
		}}
		require.NoError(t, b.Query().Schema().TableCreate(query.TableCreate{Table: name[0], Columns: tbl.Definitions()}))
		require.NoError(t, scope.InsertTable(tbl))
		tables = append(tables, tbl)
	}
	return b, scope, tables[0], tables[1]
}

// physicalTables returns the number of user tables.
func physicalTables(t *testing.T, b query.Builder) int {
	var n int
	require.NoError(t, b.Query().DB().QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`).Scan(&n))
	return n
}

func count(t *testing.T, store meta.Store, kind meta.Kind) int {
	records, err := store.List(kind, meta.All())
	require.NoError(t, err)
	return len(records)
}

func TestManager_Create_Validation(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)
	m := relation.New(b, nil)

	_, err := m.Create(scope, relation.Request{Title: "Orders", Type: "xx", ParentID: customers.ID, ChildID: orders.ID})
	asserts.True(errors.Is(err, model.ErrValidation))

	_, err = m.Create(scope, relation.Request{Title: "Orders", Type: model.HasMany, ParentID: "unknown", ChildID: orders.ID})
	asserts.True(errors.Is(err, meta.ErrNotFound))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
}

func TestManager_BelongsTo(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)
	m := relation.New(b, nil)

	hm, err := m.Create(scope, relation.Request{Title: "Orders", Type: model.HasMany, ParentID: customers.ID, ChildID: orders.ID, Virtual: true})
	asserts.NoError(err)
	asserts.Equal("Orders", hm.Title)
	asserts.Equal(customers.ID, hm.TableID)

	// foreign key column
	cols, err := b.Query().Information("orders").Describe()
	asserts.NoError(err)
	asserts.Equal(3, len(cols))
	child, err := scope.Table(orders.ID)
	asserts.NoError(err)
	fk := child.ColumnByName("customers_id")
	if asserts.NotNil(fk) {
		asserts.Equal(model.ForeignKey, fk.Kind)
		asserts.True(fk.System)
	}
	bt := child.ColumnByTitle("Customers")
	if asserts.NotNil(bt) {
		asserts.Equal(model.BelongsTo, bt.LinkOptions().Type)
		asserts.Equal(customers.ID, bt.LinkOptions().RelatedTableID)
		asserts.Equal(fk.ID, bt.LinkOptions().ChildColumnID)
	}
	asserts.Equal(2, count(t, scope.Meta, meta.Relation))

	// a second relation gets a unique column name and title
	bt2, err := m.Create(scope, relation.Request{Title: "Buyer", Type: model.BelongsTo, ParentID: customers.ID, ChildID: orders.ID, Virtual: true})
	asserts.NoError(err)
	asserts.Equal("Buyer", bt2.Title)
	child, err = scope.Table(orders.ID)
	asserts.NoError(err)
	asserts.NotNil(child.ColumnByName("customers_id_1"))
	parent, err := scope.Table(customers.ID)
	asserts.NoError(err)
	asserts.NotNil(parent.ColumnByTitle("Orders List"))

	// delete removes the mirror and the foreign key.
	asserts.NoError(m.Delete(scope, hm))
	asserts.NoError(m.Delete(scope, bt2))
	cols, err = b.Query().Information("orders").Describe()
	asserts.NoError(err)
	asserts.Equal(2, len(cols))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
	asserts.Equal(0, count(t, scope.Meta, meta.Relation))

	// not a link column
	asserts.True(errors.Is(m.Delete(scope, &model.Column{}), relation.ErrOptions))
}

func TestManager_ManyToMany(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)
	m := relation.New(b, nil)

	asserts.Equal(2, physicalTables(t, b))

	mm, err := m.Create(scope, relation.Request{Title: "Orders", Type: model.ManyToMany, ParentID: customers.ID, ChildID: orders.ID})
	asserts.NoError(err)
	asserts.Equal("Orders", mm.Title)
	opts := mm.LinkOptions()
	asserts.Equal(model.ManyToMany, opts.Type)
	asserts.Equal(orders.ID, opts.RelatedTableID)

	// junction
	asserts.Equal(3, physicalTables(t, b))
	junction, err := scope.Table(opts.MMTableID)
	asserts.NoError(err)
	asserts.True(junction.MM)
	asserts.True(strings.HasPrefix(junction.TableName, "p_nc_m2m_"))
	asserts.NotNil(junction.ColumnByName(relation.JunctionParent))
	asserts.NotNil(junction.ColumnByName(relation.JunctionChild))
	asserts.Equal(4, len(junction.Columns))

	// mirror
	child, err := scope.Table(orders.ID)
	asserts.NoError(err)
	mirror := child.ColumnByTitle("Customers List")
	if asserts.NotNil(mirror) {
		asserts.Equal(opts.MMChildColumnID, mirror.LinkOptions().MMParentColumnID)
		asserts.Equal(opts.MMParentColumnID, mirror.LinkOptions().MMChildColumnID)
		asserts.Equal(opts.ChildColumnID, mirror.LinkOptions().ParentColumnID)
	}

	// 3 tables with 2 columns, 2 mm columns, 2 junction fks, 2 bt and 2 hm columns.
	asserts.Equal(3, count(t, scope.Meta, meta.Table))
	asserts.Equal(12, count(t, scope.Meta, meta.Column))
	asserts.Equal(6, count(t, scope.Meta, meta.Relation))

	// round trip
	asserts.NoError(m.Delete(scope, mm))
	asserts.Equal(2, physicalTables(t, b))
	asserts.Equal(2, count(t, scope.Meta, meta.Table))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
	asserts.Equal(0, count(t, scope.Meta, meta.Relation))
}

// familyBuilder reports the given family on the dialect of the wrapped builder.
type familyBuilder struct {
	query.Builder
	family string
}

func (b familyBuilder) Dialect() query.Dialect {
	return familyDialect{Dialect: b.Builder.Dialect(), family: b.family}
}

type familyDialect struct {
	query.Dialect
	family string
}

func (d familyDialect) Family() string { return d.family }

// failingBuilder returns a schema on which every constraint drop fails.
type failingBuilder struct {
	query.Builder
}

func (b failingBuilder) Query(tx ...query.Tx) query.Query {
	return failingQuery{Query: b.Builder.Query(tx...)}
}

type failingQuery struct {
	query.Query
}

func (q failingQuery) Schema() query.Schema {
	return failingSchema{Schema: q.Query.Schema()}
}

type failingSchema struct {
	query.Schema
}

func (s failingSchema) RelationDelete(query.RelationDefinition) error {
	return errors.New("constraint does not exist")
}

// indexes returns the names of the user indexes of the table.
func indexes(t *testing.T, b query.Builder, table string) []string {
	rows, err := b.Query().DB().Query(`SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name NOT LIKE 'sqlite_%'`, table)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestManager_ManyToMany_Postgres(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)
	m := relation.New(familyBuilder{Builder: b, family: query.POSTGRES}, nil)

	mm, err := m.Create(scope, relation.Request{Title: "Orders", Type: model.ManyToMany, ParentID: customers.ID, ChildID: orders.ID})
	asserts.NoError(err)
	if !asserts.NotNil(mm) {
		return
	}
	junction, err := scope.Table(mm.LinkOptions().MMTableID)
	asserts.NoError(err)

	// exactly one index per junction foreign key.
	asserts.ElementsMatch([]string{
		junction.TableName + "_" + relation.JunctionParent + "_index",
		junction.TableName + "_" + relation.JunctionChild + "_index",
	}, indexes(t, b, junction.TableName))
	asserts.Equal(3, physicalTables(t, b))
	asserts.Equal(12, count(t, scope.Meta, meta.Column))
	asserts.Equal(6, count(t, scope.Meta, meta.Relation))

	// round trip
	asserts.NoError(m.Delete(scope, mm))
	asserts.Equal(2, physicalTables(t, b))
	asserts.Equal(2, count(t, scope.Meta, meta.Table))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
	asserts.Equal(0, count(t, scope.Meta, meta.Relation))
}

func TestManager_BelongsTo_Postgres(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)
	m := relation.New(familyBuilder{Builder: b, family: query.POSTGRES}, nil)

	bt, err := m.Create(scope, relation.Request{Title: "Customer", Type: model.BelongsTo, ParentID: customers.ID, ChildID: orders.ID})
	asserts.NoError(err)
	asserts.Equal([]string{"orders_customers_id_index"}, indexes(t, b, "orders"))

	asserts.NoError(m.Delete(scope, bt))
	asserts.Empty(indexes(t, b, "orders"))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
}

func TestManager_Delete_ConstraintError(t *testing.T) {
	asserts := assert.New(t)
	b, scope, customers, orders := newScope(t)

	// bt/hm
	hm, err := relation.New(b, nil).Create(scope, relation.Request{Title: "Orders", Type: model.HasMany, ParentID: customers.ID, ChildID: orders.ID})
	asserts.NoError(err)
	asserts.NotEmpty(hm.LinkOptions().FkIndexName)

	m := relation.New(failingBuilder{Builder: b}, nil)
	asserts.NoError(m.Delete(scope, hm))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
	asserts.Equal(0, count(t, scope.Meta, meta.Relation))
	cols, err := b.Query().Information("orders").Describe()
	asserts.NoError(err)
	asserts.Equal(2, len(cols))

	// mm
	mm, err := relation.New(b, nil).Create(scope, relation.Request{Title: "Orders", Type: model.ManyToMany, ParentID: customers.ID, ChildID: orders.ID})
	asserts.NoError(err)
	asserts.NoError(m.Delete(scope, mm))
	asserts.Equal(2, physicalTables(t, b))
	asserts.Equal(4, count(t, scope.Meta, meta.Column))
	asserts.Equal(0, count(t, scope.Meta, meta.Relation))
}
