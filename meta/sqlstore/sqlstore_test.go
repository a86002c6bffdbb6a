// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlstore_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/meta/sqlstore"
	"github.com/patrickascher/schemer/query"
	_ "github.com/patrickascher/schemer/query/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (meta.Store, query.Builder) {
	b, err := query.Open(query.Config{Client: "sqlite", Database: filepath.Join(t.TempDir(), "meta.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Query().DB().Close() })

	store, err := meta.New(meta.SQLSTORE, sqlstore.Options{Builder: b})
	require.NoError(t, err)
	require.NoError(t, store.(meta.Migrator).Migrate())
	return store, b
}

func TestNew(t *testing.T) {
	asserts := assert.New(t)

	_, err := meta.New(meta.SQLSTORE, nil)
	asserts.Error(err)
	_, err = meta.New(meta.SQLSTORE, sqlstore.Options{})
	asserts.True(errors.Is(err, sqlstore.ErrBuilder))
	asserts.Equal("nc_select_options", sqlstore.TableName(sqlstore.DefaultPrefix, meta.SelectOption))
	asserts.Equal("nc_qr_codes", sqlstore.TableName(sqlstore.DefaultPrefix, meta.QrCode))
}

func TestStore(t *testing.T) {
	asserts := assert.New(t)
	store, b := newStore(t)

	// migrate is idempotent
	asserts.NoError(store.(meta.Migrator).Migrate())
	cols, err := b.Query().Information("nc_columns").Describe()
	asserts.NoError(err)
	asserts.True(len(cols) > 10)

	// insert
	id, err := store.Insert(meta.Column, meta.Record{"table_id": "t1", "title": "Status", "position": 2, "rqd": true})
	asserts.NoError(err)
	asserts.Equal(27, len(id))
	_, err = store.Insert(meta.Column, meta.Record{"id": "c2", "table_id": "t1", "title": "Name", "position": 1})
	asserts.NoError(err)
	_, err = store.Insert(meta.Column, meta.Record{"unknown": 1})
	asserts.Error(err)

	// get
	r, err := store.Get(meta.Column, id)
	asserts.NoError(err)
	asserts.Equal("Status", r["title"])
	asserts.Equal(2, r["position"])
	asserts.Equal(true, r["rqd"])
	asserts.Nil(r["cdf"])
	_, err = store.Get(meta.Column, "nope")
	asserts.True(errors.Is(err, meta.ErrNotFound))

	// update
	asserts.NoError(store.Update(meta.Column, id, meta.Record{"cdf": "'a'", "rqd": false}))
	r, _ = store.Get(meta.Column, id)
	asserts.Equal("'a'", r["cdf"])
	asserts.Equal(false, r["rqd"])
	asserts.Equal("Status", r["title"])
	asserts.True(errors.Is(store.Update(meta.Column, "nope", meta.Record{"title": "x"}), meta.ErrNotFound))

	// list
	list, err := store.List(meta.Column, meta.Where("table_id", query.EQ, "t1"), "position")
	asserts.NoError(err)
	asserts.Equal(2, len(list))
	asserts.Equal("c2", list[0].ID())
	list, err = store.List(meta.Column, meta.Where("id", query.IN, []string{"c2", id}), "-position")
	asserts.NoError(err)
	asserts.Equal(2, len(list))
	asserts.Equal(id, list[0].ID())
	list, err = store.List(meta.Column, meta.Where("id", query.IN, []string{}))
	asserts.NoError(err)
	asserts.Equal(0, len(list))
	list, err = store.List(meta.Column, meta.Where("cdf", query.NULL, nil))
	asserts.NoError(err)
	asserts.Equal(1, len(list))

	// delete
	asserts.NoError(store.Delete(meta.Column, meta.ByID("c2")))
	list, _ = store.List(meta.Column, meta.All())
	asserts.Equal(1, len(list))
	asserts.NoError(store.Delete(meta.Column, meta.All()))
	list, _ = store.List(meta.Column, meta.All())
	asserts.Equal(0, len(list))
}
