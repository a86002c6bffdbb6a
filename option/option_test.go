// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package option_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/option"
	"github.com/patrickascher/schemer/query"
	_ "github.com/patrickascher/schemer/query/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialect of a family without a connection.
type dialect struct {
	query.DialectBase
	family string
}

func (d *dialect) Family() string           { return d.family }
func (d *dialect) MaxIdentifierLength() int { return 64 }

// builder which only reports the dialect.
type builder struct {
	query.Builder
	family string
}

func (b *builder) Dialect() query.Dialect { return &dialect{family: b.family} }

func (b *builder) QuoteIdentifier(s string) string { return `"` + s + `"` }

func selectColumn(kind model.Kind, dt string, titles ...string) *model.Column {
	opts := &model.SelectOptions{}
	for i, t := range titles {
		opts.Options = append(opts.Options, model.SelectOption{ID: t, Title: t, Order: i + 1})
	}
	return &model.Column{ID: "c1", ColumnName: "status", Title: "Status", Kind: kind, DT: dt, Options: opts}
}

func TestMigrator_Prepare(t *testing.T) {
	asserts := assert.New(t)

	pg := option.New(&builder{family: query.POSTGRES}, nil)
	mysql := option.New(&builder{family: query.MYSQL}, nil)
	sqlite := option.New(&builder{family: query.SQLITE}, nil)

	// dtxp
	c := selectColumn(model.SingleSelect, "text", "Red", "Bob's")
	c.DTXS = "2"
	asserts.NoError(pg.Prepare(c))
	asserts.Equal("'Red','Bob''s'", c.DTXP)
	asserts.Equal("", c.DTXS)

	// duplicates
	err := pg.Prepare(selectColumn(model.SingleSelect, "text", "Red", "Red"))
	asserts.True(errors.Is(err, model.ErrValidation))
	asserts.Contains(err.Error(), "Duplicates are not allowed!")

	// empty title
	err = pg.Prepare(selectColumn(model.SingleSelect, "text", "Red", ""))
	asserts.True(errors.Is(err, model.ErrValidation))
	asserts.Contains(err.Error(), "Empty options are not allowed!")

	// comma in multi select
	err = pg.Prepare(selectColumn(model.MultiSelect, "text", "Red,Blue"))
	asserts.True(errors.Is(err, model.ErrValidation))
	asserts.Contains(err.Error(), "Illegal char(',') for MultiSelect")
	asserts.NoError(pg.Prepare(selectColumn(model.SingleSelect, "text", "Red,Blue")))

	// trailing whitespaces on enum
	c = selectColumn(model.SingleSelect, "enum", "Red  ", "Blue")
	asserts.NoError(mysql.Prepare(c))
	asserts.Equal("'Red','Blue'", c.DTXP)
	c = selectColumn(model.SingleSelect, "enum", "Red ", "Red")
	asserts.Error(mysql.Prepare(c))

	// mysql empty list and large sets
	c = selectColumn(model.SingleSelect, "enum")
	asserts.NoError(mysql.Prepare(c))
	asserts.Equal("''", c.DTXP)
	var many []string
	for i := 0; i < 65; i++ {
		many = append(many, string(rune('A'+i%26))+string(rune('a'+i/26)))
	}
	c = selectColumn(model.MultiSelect, "set", many...)
	asserts.NoError(mysql.Prepare(c))
	asserts.Equal("text", c.DT)

	// defaults
	c = selectColumn(model.SingleSelect, "text", "Red", "Bob's")
	c.CDF = query.NewNullString("Bob's", true)
	asserts.NoError(pg.Prepare(c))
	asserts.Equal("'Bob''s'", c.CDF.String)

	c = selectColumn(model.SingleSelect, "text", "Red", "Bob's")
	c.CDF = query.NewNullString("'Bob''s'", true)
	asserts.NoError(sqlite.Prepare(c))
	asserts.Equal("Bob''s", c.CDF.String)

	c = selectColumn(model.SingleSelect, "enum", "Red", "Bob's")
	c.CDF = query.NewNullString("Bob's", true)
	asserts.NoError(mysql.Prepare(c))
	asserts.Equal("Bob's", c.CDF.String)

	c = selectColumn(model.MultiSelect, "text", "Red", "Blue")
	c.CDF = query.NewNullString("Red,Blue", true)
	asserts.NoError(sqlite.Prepare(c))

	c = selectColumn(model.MultiSelect, "text", "Red", "Blue")
	c.CDF = query.NewNullString("Red,Green", true)
	err = sqlite.Prepare(c)
	asserts.True(errors.Is(err, model.ErrValidation))
	var vErr *model.ValidationError
	asserts.True(errors.As(err, &vErr))
	asserts.Equal("cdf", vErr.Field)

	// not a select column
	c = &model.Column{Kind: model.SingleLineText, DTXP: "255"}
	asserts.NoError(pg.Prepare(c))
	asserts.Equal("255", c.DTXP)
}

func TestMigrator_Update_Unsupported(t *testing.T) {
	asserts := assert.New(t)

	m := option.New(&builder{family: query.ORACLE}, nil)
	table := &model.Table{TableName: "tasks"}
	err := m.Update(table, selectColumn(model.MultiSelect, "varchar", "A"), selectColumn(model.MultiSelect, "varchar"))
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))

	// rename
	renamed := selectColumn(model.MultiSelect, "varchar", "A")
	renamed.SelectOptions().Options[0].Title = "B"
	err = m.Update(table, selectColumn(model.MultiSelect, "varchar", "A"), renamed)
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))

	// adding, reordering or recoloring needs no row rewrite.
	asserts.NoError(m.Update(table, selectColumn(model.MultiSelect, "varchar", "A"), selectColumn(model.MultiSelect, "varchar", "A", "B")))
	reordered := selectColumn(model.MultiSelect, "varchar", "A", "B")
	reordered.SelectOptions().Options[0].Order = 3
	reordered.SelectOptions().Options[1].Color = "#cfdffe"
	asserts.NoError(m.Update(table, selectColumn(model.MultiSelect, "varchar", "A", "B"), reordered))

	err = m.ConvertMultiToSingle(table, selectColumn(model.MultiSelect, "varchar", "A"))
	asserts.True(errors.Is(err, model.ErrDialectUnsupported))
}

// newTable creates a sqlite table with the given values of the status column.
func newTable(t *testing.T, values ...interface{}) (query.Builder, *model.Table) {
	b, err := query.Open(query.Config{Client: "sqlite", Database: filepath.Join(t.TempDir(), "option.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Query().DB().Close() })

	_, err = b.Query().DB().Exec(`CREATE TABLE "tasks" ("id" INTEGER PRIMARY KEY, "status" TEXT)`)
	require.NoError(t, err)
	for i, v := range values {
		_, err = b.Query().DB().Exec(`INSERT INTO "tasks" ("id", "status") VALUES (?, ?)`, i+1, v)
		require.NoError(t, err)
	}
	return b, &model.Table{TableName: "tasks"}
}

// values of the status column ordered by id.
func values(t *testing.T, b query.Builder) []interface{} {
	rows, err := b.Query().DB().Query(`SELECT "status" FROM "tasks" ORDER BY "id"`)
	require.NoError(t, err)
	defer rows.Close()

	var rv []interface{}
	for rows.Next() {
		var v *string
		require.NoError(t, rows.Scan(&v))
		if v == nil {
			rv = append(rv, nil)
			continue
		}
		rv = append(rv, *v)
	}
	require.NoError(t, rows.Err())
	return rv
}

func TestMigrator_Update_MultiSelect(t *testing.T) {
	asserts := assert.New(t)
	b, table := newTable(t, "A,AB", "AB", "A", "B,A,AB", nil)
	m := option.New(b, nil)

	// rename A to X keeps AB untouched.
	current := selectColumn(model.MultiSelect, "text", "A", "AB", "B")
	updated := current.Copy()
	updated.SelectOptions().Options[0].Title = "X"
	asserts.NoError(m.Update(table, current, updated))
	asserts.Equal([]interface{}{"X,AB", "AB", "X", "B,X,AB", nil}, values(t, b))

	// delete AB
	current = updated
	updated = selectColumn(model.MultiSelect, "text")
	updated.Options = &model.SelectOptions{Options: []model.SelectOption{current.SelectOptions().Options[0], current.SelectOptions().Options[2]}}
	asserts.NoError(m.Update(table, current, updated))
	asserts.Equal([]interface{}{"X", "", "X", "B,X", nil}, values(t, b))

	// convert to single select
	asserts.NoError(m.ConvertMultiToSingle(table, updated))
	asserts.Equal([]interface{}{"X", "", "X", "B", nil}, values(t, b))
}

func TestMigrator_Update_Swap(t *testing.T) {
	asserts := assert.New(t)
	b, table := newTable(t, "Red", "Blue", "Green", nil)
	m := option.New(b, nil)

	current := selectColumn(model.SingleSelect, "text", "Red", "Blue", "Green")
	updated := current.Copy()
	updated.SelectOptions().Options[0].Title = "Blue"
	updated.SelectOptions().Options[1].Title = "Red"
	asserts.NoError(m.Update(table, current, updated))
	asserts.Equal([]interface{}{"Blue", "Red", "Green", nil}, values(t, b))

	// multi select swap
	b, table = newTable(t, "Red,Blue", "Blue", "Green,Red")
	m = option.New(b, nil)
	current = selectColumn(model.MultiSelect, "text", "Red", "Blue", "Green")
	updated = current.Copy()
	updated.SelectOptions().Options[0].Title = "Blue"
	updated.SelectOptions().Options[1].Title = "Red"
	asserts.NoError(m.Update(table, current, updated))
	asserts.Equal([]interface{}{"Blue,Red", "Red", "Green,Blue"}, values(t, b))
}

func TestMigrator_Update_SingleSelectDelete(t *testing.T) {
	asserts := assert.New(t)
	b, table := newTable(t, "Red", "Blue", "Red")
	m := option.New(b, nil)

	current := selectColumn(model.SingleSelect, "text", "Red", "Blue")
	updated := selectColumn(model.SingleSelect, "text", "Blue")
	asserts.NoError(m.Update(table, current, updated))
	asserts.Equal([]interface{}{nil, "Blue", nil}, values(t, b))
}
