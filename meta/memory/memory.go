// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memory provides an in process meta store.
package memory

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

// init registers the provider.
func init() {
	err := meta.Register(meta.MEMORY, New)
	if err != nil {
		panic(err)
	}
}

// New returns an empty memory store.
// The options are not used.
func New(opt interface{}) (meta.Store, error) {
	return &memory{kinds: make(map[meta.Kind]map[string]*entry)}, nil
}

// entry keeps the insert sequence for the default order.
type entry struct {
	seq    int
	record meta.Record
}

type memory struct {
	mutex sync.RWMutex
	seq   int
	kinds map[meta.Kind]map[string]*entry
}

// Get a record by id.
func (m *memory) Get(kind meta.Kind, id string) (meta.Record, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	e, ok := m.kinds[kind][id]
	if !ok {
		return nil, fmt.Errorf(meta.ErrReference, kind, id, meta.ErrNotFound)
	}
	return e.record.Copy(), nil
}

// Insert a record.
func (m *memory) Insert(kind meta.Kind, r meta.Record) (string, error) {
	if err := meta.Check(kind, r); err != nil {
		return "", err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	r = r.Copy()
	id := r.ID()
	if id == "" {
		id = meta.NewID()
		r[meta.FieldID] = id
	}

	if _, ok := m.kinds[kind]; !ok {
		m.kinds[kind] = make(map[string]*entry)
	}
	m.seq++
	m.kinds[kind][id] = &entry{seq: m.seq, record: r}
	return id, nil
}

// Update the given fields of a record.
func (m *memory) Update(kind meta.Kind, id string, r meta.Record) error {
	if err := meta.Check(kind, r); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	e, ok := m.kinds[kind][id]
	if !ok {
		return fmt.Errorf(meta.ErrReference, kind, id, meta.ErrNotFound)
	}
	for k, v := range r {
		if k == meta.FieldID {
			continue
		}
		e.record[k] = v
	}
	return nil
}

// Delete all matching records.
func (m *memory) Delete(kind meta.Kind, c meta.Condition) error {
	if err := c.Validate(); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for id, e := range m.kinds[kind] {
		if match(e.record, c) {
			delete(m.kinds[kind], id)
		}
	}
	return nil
}

// List all matching records.
func (m *memory) List(kind meta.Kind, c meta.Condition, orderBy ...string) ([]meta.Record, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	m.mutex.RLock()
	var entries []*entry
	for _, e := range m.kinds[kind] {
		if match(e.record, c) {
			entries = append(entries, &entry{seq: e.seq, record: e.record.Copy()})
		}
	}
	m.mutex.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		for _, field := range orderBy {
			desc := strings.HasPrefix(field, "-")
			field = strings.TrimPrefix(field, "-")
			cmp := compare(entries[i].record[field], entries[j].record[field])
			if cmp == 0 {
				continue
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return entries[i].seq < entries[j].seq
	})

	rv := make([]meta.Record, 0, len(entries))
	for _, e := range entries {
		rv = append(rv, e.record)
	}
	return rv, nil
}

// match checks all clauses against the record.
func match(r meta.Record, c meta.Condition) bool {
	for _, cl := range c {
		v := r[cl.Field]
		switch cl.Operator {
		case query.EQ:
			if !equal(v, cl.Value) {
				return false
			}
		case query.NEQ:
			if equal(v, cl.Value) {
				return false
			}
		case query.NULL:
			if v != nil {
				return false
			}
		case query.NOTNULL:
			if v == nil {
				return false
			}
		case query.IN, query.NOTIN:
			if in(v, cl.Value) != (cl.Operator == query.IN) {
				return false
			}
		}
	}
	return true
}

// equal compares the string representation, nil is only equal to nil.
func equal(a interface{}, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// in checks if the value exists in the slice.
func in(v interface{}, list interface{}) bool {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return equal(v, list)
	}
	for i := 0; i < rv.Len(); i++ {
		if equal(v, rv.Index(i).Interface()) {
			return true
		}
	}
	return false
}

// compare returns -1, 0 or 1. Numbers are compared numeric, everything else as string.
// Nil values are sorted first.
func compare(a interface{}, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	af, aok := number(a)
	bf, bok := number(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// number converts all int and float types.
func number(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
