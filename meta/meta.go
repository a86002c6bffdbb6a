// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package meta provides the metadata store of the schema engine.
//
// Every entity (table, column, option, relation, ...) is stored as a Record under its Kind and id.
// Entities reference each other only by id. A store provider must register itself in its init function.
//
// The following providers are implemented:
//	memory   in process store, safe for concurrent use.
//	sqlstore persists into the nc_* tables of a query.Builder.
package meta

import (
	"errors"
	"fmt"

	"github.com/patrickascher/schemer/registry"
	"github.com/segmentio/ksuid"
)

// registryPrefix for the registry package.
const registryPrefix = "meta_"

// All predefined providers are listed here.
const (
	MEMORY   = "memory"
	SQLSTORE = "sqlstore"
)

// Error messages.
var (
	ErrNotFound  = errors.New("meta: record not found")
	ErrProvider  = errors.New("meta: provider is not a meta.Store factory")
	ErrKind      = "meta: unknown kind %#v"
	ErrField     = "meta: field %#v does not exist on kind %#v"
	ErrOperator  = "meta: operator %#v is not allowed"
	ErrReference = "meta: %s %#v: %w"
)

// Store is the interface every meta provider must implement.
type Store interface {
	// Get a record by id.
	// ErrNotFound must return if the record does not exist.
	Get(kind Kind, id string) (Record, error)
	// Insert a record. If the id field is empty, a new id will be generated.
	// The id of the record returns.
	Insert(kind Kind, r Record) (string, error)
	// Update sets the given fields of the record. Fields which are not set stay unchanged.
	Update(kind Kind, id string, r Record) error
	// Delete all records which match the condition.
	Delete(kind Kind, c Condition) error
	// List all records which match the condition in the given order.
	// Fields with a "-" prefix are sorted descending.
	List(kind Kind, c Condition, orderBy ...string) ([]Record, error)
}

// Migrator can be implemented by a store which needs a storage schema.
type Migrator interface {
	Migrate() error
}

type providerFn func(opt interface{}) (Store, error)

// Register a new meta provider by name.
func Register(name string, provider providerFn) error {
	return registry.Set(registryPrefix+name, provider)
}

// New returns a new store of the registered provider.
func New(provider string, options interface{}) (Store, error) {
	instanceFn, err := registry.Get(registryPrefix + provider)
	if err != nil {
		return nil, fmt.Errorf("meta: %w", err)
	}

	fn, ok := instanceFn.(providerFn)
	if !ok {
		return nil, ErrProvider
	}

	s, err := fn(options)
	if err != nil {
		return nil, fmt.Errorf("meta: %w", err)
	}
	return s, nil
}

// NewID returns a new sortable record id.
func NewID() string {
	return ksuid.New().String()
}

// Record of the store. Keys are the snake case field names.
type Record map[string]interface{}

// ID of the record.
func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the field value as string.
// Nil values return an empty string.
func (r Record) String(field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Copy returns a shallow copy of the record.
func (r Record) Copy() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
