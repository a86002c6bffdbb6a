// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/query/condition"
)

// Builder is the entry point of a database connection.
type Builder interface {
	SetLogger(logger.Manager)
	Query(...Tx) Query
	Config() Config
	QuoteIdentifier(string) string
	Dialect() Dialect
}

// Provider must be implemented by every database family.
type Provider interface {
	Open() error
	Config() Config
	Placeholder() condition.Placeholder
	QuoteIdentifier(...string) string
	QuoteIdentifierChar() string
	SetLogger(logger.Manager)
	Log() logger.Manager
	Dialect() Dialect
	Query
	Query() Query
	Exec([]string, [][]interface{}) ([]sql.Result, error)
	First(string, []interface{}) (*sql.Row, error)
	All(string, []interface{}) (*sql.Rows, error)
}

// Tx is a query instance with a running transaction.
type Tx interface {
	Commit() error
	Rollback() error
	Query
}

// Query is a single query instance.
// Every instance can hold a transaction.
type Query interface {
	Tx() (Tx, error)
	HasTx() bool
	Commit() error
	Rollback() error

	DB() *sql.DB

	Select(string) Select
	Insert(string) Insert
	Update(string) Update
	Delete(string) Delete
	Information(string) Information
	Schema() Schema
}

// Schema executes DDL statements.
type Schema interface {
	Apply(op string, payload interface{}) error
	TableCreate(TableCreate) error
	TableUpdate(TableUpdate) error
	TableDelete(table string) error
	RelationCreate(RelationDefinition) error
	RelationDelete(RelationDefinition) error
	IndexCreate(IndexDefinition) error
}

type Insert interface {
	Batch(int) Insert
	Columns(...string) Insert
	Values([]map[string]interface{}) Insert
	LastInsertedID(*int64) Insert

	String() ([]string, [][]interface{}, error)
	Exec() ([]sql.Result, error)
}

type Update interface {
	Set(map[string]interface{}) Update
	Columns(...string) Update
	Where(string, ...interface{}) Update

	String() (string, []interface{}, error)
	Exec() (sql.Result, error)
}

type Delete interface {
	Where(string, ...interface{}) Delete

	String() (string, []interface{}, error)
	Exec() (sql.Result, error)
}

type Select interface {
	Columns(...string) Select
	First() (*sql.Row, error)
	All() (*sql.Rows, error)
	String() (string, []interface{}, error)

	Join(joinType int, table string, condition string, args ...interface{}) Select
	Where(condition string, args ...interface{}) Select
	Order(order ...string) Select
}

type Information interface {
	Describe(columns ...string) ([]Column, error)
	ForeignKey() ([]ForeignKey, error)
}

type Type interface {
	Kind() string
	Raw() string
}
