// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package query provides a simple programmatically sql query builder and DDL executor.
// The idea was to create a unique query builder which can be used with any database driver in go.
//
// Features: Unique Placeholder for all database drivers, Batching function for large Inserts, Quote Identifiers,
// dialect aware schema changes, SQL queries and durations log debugging.
package query

import (
	"fmt"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/registry"
)

// internals
const (
	registryPrefix = "query_"
	dbExpr         = "!"
)

type providerFn func(interface{}) (Provider, error)

// ErrProviderType is returned if a value under the query prefix is not a provider factory.
var ErrProviderType = "query: %s must be a provider factory, got %T"

func init() {
	err := registry.Validator(registry.Validate{Prefix: registryPrefix, Fn: func(name string, v interface{}) error {
		if _, ok := v.(providerFn); !ok {
			return fmt.Errorf(ErrProviderType, name, v)
		}
		return nil
	}})
	if err != nil {
		panic(err)
	}
}

type builder struct {
	provider Provider
}

// Register the query provider.
// Variants of a family are registered as "family:variant".
func Register(name string, p providerFn) error {
	return registry.Set(registryPrefix+name, p)
}

// Dialects returns the sorted names of all registered providers, including the variants.
// A dialect is only registered if its package is imported.
func Dialects() []string {
	return registry.Names(registryPrefix)
}

// New creates a new builder instance with the given query provider and configuration.
// Error will return if the query provider was not registered, query provider factory or the query provider Open function will return one.
func New(name string, config interface{}) (Builder, error) {

	// check if the query provider is registered.
	r, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// get the provider instance.
	p, err := r.(providerFn)(config)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// open the connection.
	err = p.Open()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return &builder{provider: p}, nil
}

// SetLogger to the query provider.
func (b *builder) SetLogger(l logger.Manager) {
	b.provider.SetLogger(l)
}

// Query will return a new query interface.
// If a transaction is given, it will be returned.
func (b *builder) Query(tx ...Tx) Query {
	if len(tx) == 1 && tx[0] != nil {
		return tx[0]
	}
	return b.provider.Query()
}

// Config will return the builder config.
func (b *builder) Config() Config {
	return b.provider.Config()
}

// QuoteIdentifier quotes the name with the provider quote character.
func (b *builder) QuoteIdentifier(name string) string {
	return b.provider.QuoteIdentifier(name)
}

// Dialect will return the provider dialect.
func (b *builder) Dialect() Dialect {
	return b.provider.Dialect()
}

// DbExpr expressions will not get quoted.
func DbExpr(s string) string {
	return dbExpr + s
}

// Expression is a raw sql value with its own placeholders.
// It can be used as Update value.
type Expression struct {
	SQL  string
	Args []interface{}
}

// Expr creates a new Expression.
func Expr(sql string, args ...interface{}) Expression {
	return Expression{SQL: sql, Args: args}
}
