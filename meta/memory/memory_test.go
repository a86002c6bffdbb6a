// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package memory_test

import (
	"errors"
	"testing"

	"github.com/patrickascher/schemer/meta"
	_ "github.com/patrickascher/schemer/meta/memory"
	"github.com/patrickascher/schemer/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	asserts := assert.New(t)

	store, err := meta.New(meta.MEMORY, nil)
	require.NoError(t, err)

	// insert with and without id
	id, err := store.Insert(meta.Column, meta.Record{"table_id": "t1", "title": "B", "position": 2})
	asserts.NoError(err)
	asserts.NotEmpty(id)
	_, err = store.Insert(meta.Column, meta.Record{"id": "c2", "table_id": "t1", "title": "A", "position": 1, "cdf": nil})
	asserts.NoError(err)
	_, err = store.Insert(meta.Column, meta.Record{"id": "c3", "table_id": "t2", "title": "C", "position": 3})
	asserts.NoError(err)

	// unknown kind
	_, err = store.Insert(meta.Kind("Unknown"), meta.Record{})
	asserts.Error(err)

	// get
	r, err := store.Get(meta.Column, "c2")
	asserts.NoError(err)
	asserts.Equal("A", r.String("title"))
	_, err = store.Get(meta.Column, "nope")
	asserts.True(errors.Is(err, meta.ErrNotFound))

	// returned records are copies
	r["title"] = "changed"
	r, _ = store.Get(meta.Column, "c2")
	asserts.Equal("A", r["title"])

	// update is partial
	asserts.NoError(store.Update(meta.Column, "c2", meta.Record{"title": "AA"}))
	r, _ = store.Get(meta.Column, "c2")
	asserts.Equal("AA", r["title"])
	asserts.Equal(1, r["position"])
	asserts.True(errors.Is(store.Update(meta.Column, "nope", meta.Record{}), meta.ErrNotFound))

	// list with order and conditions
	list, err := store.List(meta.Column, meta.Where("table_id", query.EQ, "t1"), "position")
	asserts.NoError(err)
	asserts.Equal(2, len(list))
	asserts.Equal("c2", list[0].ID())

	list, err = store.List(meta.Column, meta.All(), "-position")
	asserts.NoError(err)
	asserts.Equal("c3", list[0].ID())

	list, err = store.List(meta.Column, meta.Where("id", query.IN, []string{"c2", "c3"}))
	asserts.NoError(err)
	asserts.Equal(2, len(list))
	asserts.Equal("c2", list[0].ID())

	list, err = store.List(meta.Column, meta.Where("table_id", query.EQ, "t1").And("cdf", query.NULL, nil))
	asserts.NoError(err)
	asserts.Equal(2, len(list))

	_, err = store.List(meta.Column, meta.Where("position", query.GT, 1))
	asserts.Error(err)

	// delete
	asserts.NoError(store.Delete(meta.Column, meta.Where("table_id", query.NEQ, "t2")))
	list, _ = store.List(meta.Column, meta.All())
	asserts.Equal(1, len(list))
	asserts.NoError(store.Delete(meta.Column, meta.ByID("c3")))
	list, _ = store.List(meta.Column, meta.All())
	asserts.Equal(0, len(list))
}

func TestMemory_UnknownField(t *testing.T) {
	asserts := assert.New(t)

	store, err := meta.New(meta.MEMORY, nil)
	require.NoError(t, err)

	_, err = store.Insert(meta.View, meta.Record{"color": "red"})
	asserts.Error(err)

	id, err := store.Insert(meta.View, meta.Record{"title": "Kanban"})
	asserts.NoError(err)
	asserts.Error(store.Update(meta.View, id, meta.Record{"color": "red"}))
}
