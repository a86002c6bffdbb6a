// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/patrickascher/schemer/query"
	_ "github.com/patrickascher/schemer/query/sqlite"
	"github.com/patrickascher/schemer/query/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// open helper returns a builder on a temporary database file.
func open(t *testing.T) query.Builder {
	b, err := query.Open(query.Config{Client: "sqlite", Database: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Query().DB().Close() })
	return b
}

// columns helper returns the column names of the table.
func columns(t *testing.T, b query.Builder, table string) []string {
	cols, err := b.Query().Information(table).Describe()
	require.NoError(t, err)
	var names []string
	for _, c := range cols {
		names = append(names, c.Name)
	}
	return names
}

var (
	id    = query.ColumnDefinition{Name: "id", DT: "integer", PK: true, AI: true}
	title = query.ColumnDefinition{Name: "title", DT: "varchar", DTXP: "255"}
)

func TestDialect(t *testing.T) {
	asserts := assert.New(t)
	b := open(t)
	d := b.Dialect()

	asserts.Equal(query.SQLITE, d.Family())
	asserts.Equal(255, d.MaxIdentifierLength())
	asserts.Equal(query.PhysicalType{DT: "text"}, d.UIType(types.MultiSelect))
	asserts.Equal([]string{`CREATE TABLE "t" ("id" integer PRIMARY KEY AUTOINCREMENT, "title" varchar(255))`}, d.CreateTable(query.TableCreate{Table: "t", Columns: []query.ColumnDefinition{id, title}}))
	asserts.Equal([]string{`ALTER TABLE "t" ADD COLUMN "n" integer`}, d.AddColumn("t", query.ColumnDefinition{Name: "n", DT: "integer", RQD: true}))
	asserts.Nil(d.AddForeignKey(query.RelationDefinition{ChildTable: "c"}))
	asserts.Nil(d.DropForeignKey(query.RelationDefinition{ChildTable: "c"}))

	// junction tables have a composite primary key.
	junction := d.CreateTable(query.TableCreate{Table: "j", Columns: []query.ColumnDefinition{
		{Name: "table1_id", DT: "integer", PK: true, RQD: true},
		{Name: "table2_id", DT: "integer", PK: true, RQD: true},
	}})
	asserts.Equal([]string{`CREATE TABLE "j" ("table1_id" integer NOT NULL, "table2_id" integer NOT NULL, PRIMARY KEY ("table1_id", "table2_id"))`}, junction)
}

func TestSchema(t *testing.T) {
	asserts := assert.New(t)
	b := open(t)
	s := b.Query().Schema()

	// create
	asserts.NoError(s.Apply(query.OpTableCreate, query.TableCreate{Table: "t", Columns: []query.ColumnDefinition{id, title}}))
	_, err := b.Query().Insert("t").Values([]map[string]interface{}{{"title": "a"}, {"title": "b"}}).Exec()
	asserts.NoError(err)

	// add
	status := query.ColumnDefinition{Name: "status", DT: "text", Altered: query.AlteredNew}
	asserts.NoError(s.TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, title}, Columns: []query.ColumnDefinition{id, title, status}}))
	asserts.Equal([]string{"id", "title", "status"}, columns(t, b, "t"))
	status.Altered = query.AlteredNone

	// rename only
	renamed := title
	renamed.Name = "name"
	renamed.OriginalName = "title"
	renamed.Altered = query.AlteredUpdate
	asserts.NoError(s.TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, title, status}, Columns: []query.ColumnDefinition{id, renamed, status}}))
	asserts.Equal([]string{"id", "name", "status"}, columns(t, b, "t"))

	// type change rebuilds the table and keeps the data.
	name := query.ColumnDefinition{Name: "name", DT: "varchar", DTXP: "255"}
	retyped := query.ColumnDefinition{Name: "label", OriginalName: "name", DT: "text", Default: query.NewNullString("x", true), Altered: query.AlteredUpdate}
	asserts.NoError(s.TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, name, status}, Columns: []query.ColumnDefinition{id, retyped, status}}))
	asserts.Equal([]string{"id", "label", "status"}, columns(t, b, "t"))
	cols, err := b.Query().Information("t").Describe("label")
	asserts.NoError(err)
	asserts.Equal("text", cols[0].Definition().DT)
	asserts.Equal("'x'", cols[0].DefaultValue.String)
	asserts.True(cols[0].NullAble)

	var count int
	asserts.NoError(b.Query().DB().QueryRow(`SELECT COUNT(*) FROM "t" WHERE "label" IN ('a', 'b')`).Scan(&count))
	asserts.Equal(2, count)

	// drop an indexed column
	asserts.NoError(s.IndexCreate(query.IndexDefinition{Name: "idx_status", Table: "t", Columns: []string{"status"}}))
	status.Altered = query.AlteredDelete
	asserts.NoError(s.TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, retyped, status}, Columns: []query.ColumnDefinition{id, status}}))
	asserts.Equal([]string{"id", "label"}, columns(t, b, "t"))

	// relations are skipped
	asserts.NoError(s.RelationCreate(query.RelationDefinition{ChildTable: "t", ChildColumn: "label", ParentTable: "x", ParentColumn: "id", ForeignKeyName: "fk"}))
	asserts.NoError(s.RelationDelete(query.RelationDefinition{ChildTable: "t", ForeignKeyName: "fk"}))

	// missing original column
	err = s.TableUpdate(query.TableUpdate{Table: "t", Columns: []query.ColumnDefinition{{Name: "x", DT: "text", Altered: query.AlteredUpdate}}})
	asserts.Error(err)

	// wrong payload
	asserts.Error(s.Apply(query.OpTableCreate, "t"))

	// apply error
	err = s.TableDelete("does_not_exist")
	asserts.True(errors.Is(err, query.ErrSchemaApply))
	var applyErr *query.SchemaApplyError
	asserts.True(errors.As(err, &applyErr))
	asserts.Equal(query.SQLITE, applyErr.Dialect)
	asserts.Equal(`DROP TABLE "does_not_exist"`, applyErr.Statement)
	asserts.NotNil(errors.Unwrap(err))

	asserts.NoError(s.Apply(query.OpTableDelete, "t"))
	_, err = b.Query().Information("t").Describe()
	asserts.Error(err)
}

func TestQuery(t *testing.T) {
	asserts := assert.New(t)
	b := open(t)
	asserts.NoError(b.Query().Schema().TableCreate(query.TableCreate{Table: "t", Columns: []query.ColumnDefinition{id, title}}))

	var lastID int64
	_, err := b.Query().Insert("t").Values([]map[string]interface{}{{"title": "a"}}).LastInsertedID(&lastID).Exec()
	asserts.NoError(err)
	asserts.Equal(int64(1), lastID)

	_, err = b.Query().Update("t").Set(map[string]interface{}{"title": query.Expr(`"title" || ?`, "b")}).Where("id = ?", lastID).Exec()
	asserts.NoError(err)

	var v string
	row, err := b.Query().Select("t").Columns("title").Where("id = ?", lastID).First()
	asserts.NoError(err)
	asserts.NoError(row.Scan(&v))
	asserts.Equal("ab", v)

	// transaction rollback
	tx, err := b.Query().Tx()
	asserts.NoError(err)
	_, err = tx.Delete("t").Where("id = ?", lastID).Exec()
	asserts.NoError(err)
	asserts.NoError(tx.Rollback())
	row, err = b.Query().Select("t").Columns(query.DbExpr("COUNT(*)")).First()
	asserts.NoError(err)
	var count int
	asserts.NoError(row.Scan(&count))
	asserts.Equal(1, count)

	_, err = b.Query().Information("t").ForeignKey()
	asserts.Error(err)
}

func TestSchema_Rollback(t *testing.T) {
	asserts := assert.New(t)
	b := open(t)
	asserts.NoError(b.Query().Schema().TableCreate(query.TableCreate{Table: "t", Columns: []query.ColumnDefinition{id, title}}))

	// the second statement fails, the first one gets rolled back.
	a := query.ColumnDefinition{Name: "a", DT: "text", Altered: query.AlteredNew}
	err := b.Query().Schema().TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, title}, Columns: []query.ColumnDefinition{id, title, a, a}})
	var applyErr *query.SchemaApplyError
	asserts.True(errors.As(err, &applyErr))
	asserts.Equal(query.OpTableUpdate, applyErr.Operation)
	asserts.Equal([]string{"id", "title"}, columns(t, b, "t"))

	// the query instance can be used again.
	asserts.NoError(b.Query().Schema().TableUpdate(query.TableUpdate{Table: "t", OriginalColumns: []query.ColumnDefinition{id, title}, Columns: []query.ColumnDefinition{id, title, a}}))
	asserts.Equal([]string{"id", "title", "a"}, columns(t, b, "t"))
}
