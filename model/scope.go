// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/patrickascher/schemer/cache"
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

// Cache scopes.
const (
	CacheTable  = "table"
	CacheColumn = "column"
)

// Scope of a request.
// Entities are loaded and written over the scope. The cache is optional and only used for table and column records.
type Scope struct {
	Meta  meta.Store
	Cache cache.Manager
	Base  *Base
}

// NewScope returns a scope for the base.
func NewScope(store meta.Store, c cache.Manager, base *Base) *Scope {
	return &Scope{Meta: store, Cache: c, Base: base}
}

// Prefix of the base.
func (s *Scope) Prefix() string {
	if s.Base == nil {
		return ""
	}
	return s.Base.Prefix
}

// Table returns the table with all columns and their options.
func (s *Scope) Table(id string) (*Table, error) {
	r, err := s.record(CacheTable, meta.Table, id)
	if err != nil {
		return nil, err
	}
	t := &Table{}
	if err = decode(r, t); err != nil {
		return nil, err
	}
	if t.Columns, err = s.Columns(id); err != nil {
		return nil, err
	}
	return t, nil
}

// Tables of the base, without columns.
func (s *Scope) Tables() ([]*Table, error) {
	c := meta.All()
	if s.Base != nil {
		c = meta.Where("base_id", query.EQ, s.Base.ID)
	}
	records, err := s.Meta.List(meta.Table, c, "position")
	if err != nil {
		return nil, err
	}
	rv := make([]*Table, 0, len(records))
	for _, r := range records {
		t := &Table{}
		if err = decode(r, t); err != nil {
			return nil, err
		}
		rv = append(rv, t)
	}
	return rv, nil
}

// InsertTable inserts the table and all of its columns.
func (s *Scope) InsertTable(t *Table) error {
	if t.BaseID == "" && s.Base != nil {
		t.BaseID = s.Base.ID
	}
	id, err := s.Meta.Insert(meta.Table, t.record())
	if err != nil {
		return err
	}
	t.ID = id
	for i, c := range t.Columns {
		c.TableID = id
		if c.Order == 0 {
			c.Order = i + 1
		}
		if err = s.InsertColumn(c); err != nil {
			return err
		}
	}
	return nil
}

// DeleteTable deletes the table, its columns and the column options.
func (s *Scope) DeleteTable(id string) error {
	cols, err := s.Columns(id)
	if err != nil {
		return err
	}
	for _, c := range cols {
		if err = s.deleteOptions(c); err != nil {
			return err
		}
	}
	if err = s.Meta.Delete(meta.Column, meta.Where("table_id", query.EQ, id)); err != nil {
		return err
	}
	if err = s.Meta.Delete(meta.View, meta.Where("table_id", query.EQ, id)); err != nil {
		return err
	}
	if err = s.Meta.Delete(meta.Table, meta.ByID(id)); err != nil {
		return err
	}
	if s.Cache != nil {
		_ = s.Cache.DeepDel(CacheTable, id, cache.ParentToChild)
	}
	return nil
}

// Column returns the column with its options.
func (s *Scope) Column(id string) (*Column, error) {
	r, err := s.record(CacheColumn, meta.Column, id)
	if err != nil {
		return nil, err
	}
	c := &Column{}
	if err = decode(r, c); err != nil {
		return nil, err
	}
	if err = s.loadOptions(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Columns of the table in order.
func (s *Scope) Columns(tableID string) ([]*Column, error) {
	records := s.cachedColumns(tableID)
	if records == nil {
		var err error
		records, err = s.Meta.List(meta.Column, meta.Where("table_id", query.EQ, tableID), "position")
		if err != nil {
			return nil, err
		}
		if s.Cache != nil {
			ids := make([]string, 0, len(records))
			for _, r := range records {
				_ = s.Cache.Set(CacheColumn, r.ID(), r, cache.DefaultExpiration)
				ids = append(ids, r.ID())
			}
			_ = s.Cache.SetList(CacheColumn, []string{tableID}, ids)
		}
	}

	rv := make([]*Column, 0, len(records))
	for _, r := range records {
		c := &Column{}
		if err := decode(r, c); err != nil {
			return nil, err
		}
		if err := s.loadOptions(c); err != nil {
			return nil, err
		}
		rv = append(rv, c)
	}
	sort.SliceStable(rv, func(i, j int) bool { return rv[i].Order < rv[j].Order })
	return rv, nil
}

// InsertColumn inserts the column and its options.
// If no order is set, the column is added at the end.
func (s *Scope) InsertColumn(c *Column) error {
	if c.Order == 0 {
		cols, err := s.Columns(c.TableID)
		if err != nil {
			return err
		}
		for _, col := range cols {
			if col.Order > c.Order {
				c.Order = col.Order
			}
		}
		c.Order++
	}

	r := c.record()
	id, err := s.Meta.Insert(meta.Column, r)
	if err != nil {
		return err
	}
	c.ID = id
	r[meta.FieldID] = id

	if c.Options != nil {
		if err = c.Options.insert(s.Meta, id); err != nil {
			return err
		}
	}

	if s.Cache != nil {
		_ = s.Cache.Set(CacheColumn, id, r, cache.DefaultExpiration)
		_ = s.Cache.AppendToList(CacheColumn, []string{c.TableID}, id)
	}
	return nil
}

// UpdateColumn replaces the column record.
// The options are only replaced if they are set.
func (s *Scope) UpdateColumn(c *Column) error {
	r := c.record()
	delete(r, meta.FieldID)
	if err := s.Meta.Update(meta.Column, c.ID, r); err != nil {
		return err
	}

	if c.Options != nil {
		if err := s.deleteOptions(c); err != nil {
			return err
		}
		if err := c.Options.insert(s.Meta, c.ID); err != nil {
			return err
		}
	}

	if s.Cache != nil {
		r[meta.FieldID] = c.ID
		_ = s.Cache.Set(CacheColumn, c.ID, r, cache.DefaultExpiration)
	}
	return nil
}

// DeleteColumn deletes the column, its options and all references to it.
// Lookup and rollup columns which depend on the column are deleted, view groupings are removed
// and formulas which use the column are marked as invalid.
func (s *Scope) DeleteColumn(id string) error {
	c, err := s.Column(id)
	if err != nil {
		return err
	}
	if err = s.deleteOptions(c); err != nil {
		return err
	}
	if err = s.Meta.Delete(meta.Column, meta.ByID(id)); err != nil {
		return err
	}
	if s.Cache != nil {
		_ = s.Cache.DeepDel(CacheColumn, id, cache.ChildToParent)
	}
	return s.deleteReferences(id)
}

// deleteReferences of a deleted column.
func (s *Scope) deleteReferences(id string) error {
	dependent := map[meta.Kind][]string{
		meta.Lookup: {"relation_column_id", "lookup_column_id"},
		meta.Rollup: {"relation_column_id", "rollup_column_id"},
	}
	for _, kind := range []meta.Kind{meta.Lookup, meta.Rollup} {
		for _, field := range dependent[kind] {
			records, err := s.Meta.List(kind, meta.Where(field, query.EQ, id))
			if err != nil {
				return err
			}
			for _, r := range records {
				err = s.DeleteColumn(r.String("column_id"))
				if err != nil && !isNotFound(err) {
					return err
				}
			}
		}
	}

	views, err := s.ViewsGroupedBy(id)
	if err != nil {
		return err
	}
	for _, v := range views {
		if err = s.Meta.Update(meta.View, v.ID, meta.Record{"grouping_column_id": nil}); err != nil {
			return err
		}
	}

	formulas, err := s.Meta.List(meta.Formula, meta.All())
	if err != nil {
		return err
	}
	for _, f := range formulas {
		if strings.Contains(f.String("formula"), "{"+id+"}") {
			if err = s.Meta.Update(meta.Formula, f.ID(), meta.Record{"error": fmt.Sprintf("column %s was deleted", id)}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Links returns all relation options which match the condition.
func (s *Scope) Links(c meta.Condition) ([]*LinkOptions, error) {
	records, err := s.Meta.List(meta.Relation, c)
	if err != nil {
		return nil, err
	}
	rv := make([]*LinkOptions, 0, len(records))
	for _, r := range records {
		l := &LinkOptions{}
		if err = decode(r, l); err != nil {
			return nil, err
		}
		rv = append(rv, l)
	}
	return rv, nil
}

// Views of the table.
func (s *Scope) Views(tableID string) ([]*View, error) {
	return s.views(meta.Where("table_id", query.EQ, tableID))
}

// ViewsGroupedBy returns all views which are grouped by the column.
func (s *Scope) ViewsGroupedBy(columnID string) ([]*View, error) {
	return s.views(meta.Where("grouping_column_id", query.EQ, columnID))
}

// InsertView inserts a view.
func (s *Scope) InsertView(v *View) error {
	id, err := s.Meta.Insert(meta.View, v.record())
	v.ID = id
	return err
}

func (s *Scope) views(c meta.Condition) ([]*View, error) {
	records, err := s.Meta.List(meta.View, c)
	if err != nil {
		return nil, err
	}
	rv := make([]*View, 0, len(records))
	for _, r := range records {
		v := &View{}
		if err = decode(r, v); err != nil {
			return nil, err
		}
		rv = append(rv, v)
	}
	return rv, nil
}

// record returns the cached record or reads it from the store.
func (s *Scope) record(scope string, kind meta.Kind, id string) (meta.Record, error) {
	if s.Cache != nil {
		if item, err := s.Cache.Get(scope, id); err == nil {
			if r, ok := toRecord(item.Value()); ok {
				return r, nil
			}
		}
	}
	r, err := s.Meta.Get(kind, id)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		_ = s.Cache.Set(scope, id, r, cache.DefaultExpiration)
	}
	return r, nil
}

// cachedColumns returns nil if the list or any member is not cached.
func (s *Scope) cachedColumns(tableID string) []meta.Record {
	if s.Cache == nil {
		return nil
	}
	items, err := s.Cache.List(CacheColumn, []string{tableID})
	if err != nil {
		return nil
	}
	rv := make([]meta.Record, 0, len(items))
	for _, item := range items {
		r, ok := toRecord(item.Value())
		if !ok {
			return nil
		}
		rv = append(rv, r)
	}
	return rv
}

// loadOptions of the column kind.
func (s *Scope) loadOptions(c *Column) error {
	kind, ok := optionKind(c.Kind)
	if !ok {
		return nil
	}

	if kind == meta.SelectOption {
		records, err := s.Meta.List(kind, meta.Where("column_id", query.EQ, c.ID), "position")
		if err != nil {
			return err
		}
		o := &SelectOptions{}
		for _, r := range records {
			opt := SelectOption{}
			if err = decode(r, &opt); err != nil {
				return err
			}
			o.Options = append(o.Options, opt)
		}
		c.Options = o
		return nil
	}

	records, err := s.Meta.List(kind, meta.Where("column_id", query.EQ, c.ID))
	if err != nil || len(records) == 0 {
		return err
	}

	var o Options
	switch kind {
	case meta.Relation:
		o = &LinkOptions{}
	case meta.Lookup:
		o = &LookupOptions{}
	case meta.Rollup:
		o = &RollupOptions{}
	case meta.Formula:
		o = &FormulaOptions{}
	case meta.QrCode:
		o = &QrCodeOptions{}
	case meta.Barcode:
		o = &BarcodeOptions{}
	}
	if err = decode(records[0], o); err != nil {
		return err
	}
	c.Options = o
	return nil
}

// deleteOptions of the column kind.
func (s *Scope) deleteOptions(c *Column) error {
	kind, ok := optionKind(c.Kind)
	if !ok {
		return nil
	}
	return s.Meta.Delete(kind, meta.Where("column_id", query.EQ, c.ID))
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, meta.ErrNotFound)
}
