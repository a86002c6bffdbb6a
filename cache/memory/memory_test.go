// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/patrickascher/schemer/cache"
	"github.com/patrickascher/schemer/cache/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	asserts := assert.New(t)

	mem, err := memory.New(memory.Options{GCInterval: 10 * time.Millisecond})
	require.NoError(t, err)
	go mem.GC()

	// set and redefine
	asserts.NoError(mem.Set("table_users", "users", cache.NoExpiration))
	asserts.NoError(mem.Set("table_users", "USERS", cache.NoExpiration))
	asserts.NoError(mem.Set("column_email", "email", cache.NoExpiration))

	// get
	v, err := mem.Get("table_users")
	asserts.NoError(err)
	asserts.Equal("USERS", v.Value())
	asserts.Equal("table_users", v.Name())
	asserts.False(v.Created().IsZero())
	asserts.Equal(time.Duration(cache.NoExpiration), v.Expiration())

	v, err = mem.Get("baz")
	asserts.Equal(fmt.Sprintf(memory.ErrNameNotExist, "baz"), err.Error())
	asserts.Nil(v)

	// expired items are not returned and collected by the gc
	asserts.NoError(mem.Set("gc", "val", 20*time.Millisecond))
	time.Sleep(100 * time.Millisecond)
	_, err = mem.Get("gc")
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(memory.ErrNameNotExist, "gc"), mem.Delete("gc").Error())

	// delete
	asserts.NoError(mem.Delete("column_email"))
	asserts.Equal(fmt.Sprintf(memory.ErrNameNotExist, "column_email"), mem.Delete("column_email").Error())
	_, err = mem.Get("table_users")
	asserts.NoError(err)
}

func TestNew(t *testing.T) {
	asserts := assert.New(t)

	_, err := memory.New(nil)
	asserts.NoError(err)

	_, err = memory.New("wrong")
	asserts.Equal(fmt.Sprintf(memory.ErrOptions, "wrong"), err.Error())

	// registered provider
	m, err := cache.New(cache.MEMORY, memory.Options{GCInterval: time.Minute})
	asserts.NoError(err)
	m2, err := cache.New(cache.MEMORY, nil)
	asserts.NoError(err)
	asserts.True(m == m2)
}

// TestManagerLists tests the list and deep delete behaviour of the manager with the memory provider.
func TestManagerLists(t *testing.T) {
	asserts := assert.New(t)
	mem, err := memory.New(nil)
	require.NoError(t, err)
	m := cache.NewManager(mem)

	asserts.NoError(m.Set("table", "t1", "users", cache.NoExpiration))
	asserts.NoError(m.Set("column", "c1", "id", cache.NoExpiration))
	asserts.NoError(m.Set("column", "c2", "email", cache.NoExpiration))

	// append to a not existing list is a no-op.
	asserts.NoError(m.AppendToList("column", []string{"t1"}, "c1"))
	_, err = m.List("column", []string{"t1"})
	asserts.Error(err)

	// set the list and append a member
	asserts.NoError(m.SetList("column", []string{"t1"}, []string{"c1"}))
	asserts.NoError(m.AppendToList("column", []string{"t1"}, "c2"))
	asserts.NoError(m.AppendToList("column", []string{"t1"}, "c2"))
	items, err := m.List("column", []string{"t1"})
	asserts.NoError(err)
	asserts.Equal(2, len(items))
	asserts.Equal("id", items[0].Value())
	asserts.Equal("email", items[1].Value())

	// child to parent: the column is removed from the table list.
	asserts.NoError(m.DeepDel("column", "c2", cache.ChildToParent))
	asserts.False(m.Exist("column", "c2"))
	items, err = m.List("column", []string{"t1"})
	asserts.NoError(err)
	asserts.Equal(1, len(items))

	// parent to child: the table list and all columns are removed.
	asserts.NoError(m.DeepDel("table", "t1", cache.ParentToChild))
	asserts.False(m.Exist("table", "t1"))
	asserts.False(m.Exist("column", "c1"))
	_, err = m.List("column", []string{"t1"})
	asserts.Error(err)

	// deleting a not existing entry is no error.
	asserts.NoError(m.DeepDel("table", "t1", cache.ParentToChild))

	// unknown direction
	asserts.Equal(cache.ErrDirection, m.DeepDel("table", "t1", cache.Direction(0)))
}

// TestManagerExpiration tests that the default expiration is resolved by the manager.
func TestManagerExpiration(t *testing.T) {
	asserts := assert.New(t)
	mem, err := memory.New(nil)
	require.NoError(t, err)
	m := cache.NewManager(mem)

	asserts.NoError(m.Set("base", "b1", "p1", cache.DefaultExpiration))
	item, err := m.Get("base", "b1")
	asserts.NoError(err)
	asserts.Equal(time.Hour, item.Expiration())
	asserts.Equal("base_b1", item.Name())

	asserts.NoError(m.Set("base", "b2", "p1", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)
	asserts.False(m.Exist("base", "b2"))

	asserts.NoError(m.Delete("base", "b1"))
	asserts.Error(m.Delete("base", "b1"))
}
