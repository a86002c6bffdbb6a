// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"errors"
)

// Error messages.
var (
	ErrNoTx     = errors.New("query: no tx exists")
	ErrTxExists = errors.New("query: tx already exists")
)

// runner is implemented by *sql.DB and *sql.Tx.
type runner interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Tx starts a transaction on the query instance.
// The provider itself is returned, every statement of it runs in the transaction until Commit or Rollback.
func (b *Base) Tx() (Tx, error) {
	if b.tx != nil {
		return nil, ErrTxExists
	}
	tx, err := b.Provider.DB().Begin()
	if err != nil {
		return nil, err
	}
	b.tx = tx
	return b.Provider, nil
}

// HasTx reports whether a transaction is running.
func (b *Base) HasTx() bool {
	return b.tx != nil
}

// Commit the transaction.
func (b *Base) Commit() error {
	return b.endTx((*sql.Tx).Commit)
}

// Rollback the transaction.
func (b *Base) Rollback() error {
	return b.endTx((*sql.Tx).Rollback)
}

// endTx finishes the transaction with fn.
// The transaction is released even if fn fails, because database/sql does not allow a retry.
func (b *Base) endTx(fn func(*sql.Tx) error) error {
	if b.tx == nil {
		return ErrNoTx
	}
	tx := b.tx
	b.tx = nil
	return fn(tx)
}

// runner returns the running transaction or the db.
func (b *Base) runner() runner {
	if b.tx != nil {
		return b.tx
	}
	return b.db
}
