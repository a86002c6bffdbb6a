// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/query/condition"
)

// Error messages.
var (
	ErrDbNotSet = errors.New("query: DB is not set")
)

// Base is embedded by every provider.
// It holds the configuration, logger, connection and the transaction of one query instance.
type Base struct {
	Config   Config
	Logger   logger.Manager
	Provider Provider

	db *sql.DB
	tx *sql.Tx
}

// SetDB sets the *sql.DB.
func (b *Base) SetDB(db *sql.DB) {
	b.db = db
}

// DB returns the *sql.DB.
func (b *Base) DB() *sql.DB {
	return b.db
}

// QuoteIdentifier quotes the identifiers with the providers quote character and joins them with a comma.
// Names created with DbExpr are added as they are.
// "go.users AS u" is quoted as `go`.`users` `u`.
func (b *Base) QuoteIdentifier(identifiers ...string) string {
	q := b.Provider.QuoteIdentifierChar()
	rv := make([]string, 0, len(identifiers))
	for _, identifier := range identifiers {
		if strings.HasPrefix(identifier, dbExpr) {
			rv = append(rv, identifier[len(dbExpr):])
			continue
		}
		if q != "" {
			identifier = strings.ReplaceAll(identifier, q, "")
		}

		words := strings.Split(identifier, " ")
		parts := strings.Split(words[0], ".")
		for i := range parts {
			parts[i] = q + parts[i] + q
		}
		quoted := strings.Join(parts, ".")
		if len(words) > 1 {
			quoted += " " + q + words[len(words)-1] + q
		}
		rv = append(rv, quoted)
	}
	return strings.Join(rv, ", ")
}

// Select returns a select builder for the table.
func (b *Base) Select(table string) Select {
	return &SelectBase{STable: table, Provider: b.Provider}
}

// Insert returns an insert builder for the table.
func (b *Base) Insert(table string) Insert {
	return &InsertBase{ITable: table, Provider: b.Provider}
}

// Update returns an update builder for the table.
func (b *Base) Update(table string) Update {
	return &UpdateBase{UTable: table, Provider: b.Provider}
}

// Delete returns a delete builder for the table.
func (b *Base) Delete(table string) Delete {
	return &DeleteBase{DTable: table, Provider: b.Provider}
}

// First returns a single row.
// The statement is logged on DEBUG with its duration.
func (b *Base) First(stmt string, args []interface{}) (*sql.Row, error) {
	defer b.trace(stmt)()
	return b.runner().QueryRow(stmt, args...), nil
}

// All returns the rows of the statement.
// The statement is logged on DEBUG with its duration.
func (b *Base) All(stmt string, args []interface{}) (*sql.Rows, error) {
	defer b.trace(stmt)()
	return b.runner().Query(stmt, args...)
}

// Exec runs the statements with their arguments and returns one result per statement.
// A batch without a running transaction is wrapped in its own transaction.
// On error a running transaction is rolled back.
func (b *Base) Exec(stmts []string, args [][]interface{}) ([]sql.Result, error) {
	defer b.trace(strings.Join(stmts, "; "))()

	autoCommit := !b.HasTx() && len(args) > 1
	if autoCommit {
		if _, err := b.Tx(); err != nil {
			return nil, err
		}
	}

	results := make([]sql.Result, 0, len(args))
	for i := range args {
		res, err := b.runner().Exec(stmts[i], args[i]...)
		if err != nil {
			if b.HasTx() {
				if rErr := b.Rollback(); rErr != nil {
					return nil, rErr
				}
			}
			return nil, err
		}
		results = append(results, res)
	}

	if autoCommit {
		return results, b.Commit()
	}
	return results, nil
}

// trace logs the statement with its duration when the returned func is called.
func (b *Base) trace(stmt string) func() {
	if b.Logger == nil {
		return func() {}
	}
	l := b.Logger.WithTimer()
	return func() { l.Debug(stmt) }
}

// Open configures the connection pool, pings the database and runs the configured pre queries.
// Zero values keep the database/sql defaults.
func (b *Base) Open() error {
	if b.db == nil {
		return ErrDbNotSet
	}

	if b.Config.MaxIdleConnections > 0 {
		b.db.SetMaxIdleConns(b.Config.MaxIdleConnections)
	}
	b.db.SetMaxOpenConns(b.Config.MaxOpenConnections)
	b.db.SetConnMaxLifetime(b.Config.MaxConnLifetime)

	if err := b.db.Ping(); err != nil {
		return err
	}

	for _, stmt := range b.Config.PreQuery {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}
	return nil
}

// SetLogger of the provider.
func (b *Base) SetLogger(logger logger.Manager) {
	b.Logger = logger
}

// Log returns the provider logger.
func (b *Base) Log() logger.Manager {
	return b.Logger
}

// Schema returns a DDL executor for the provider.
// If a transaction is set, the statements run in it.
func (b *Base) Schema() Schema {
	return &SchemaBase{Provider: b.Provider}
}

// where adds the clause to the condition, which is created if nil.
func where(c condition.Condition, stmt string, args []interface{}) condition.Condition {
	if c == nil {
		c = condition.New()
	}
	return c.SetWhere(stmt, args...)
}

// render appends the condition to the statement and replaces the placeholders for the provider.
// The condition arguments are added after args.
func render(p Provider, stmt string, args []interface{}, c condition.Condition) (string, []interface{}, error) {
	if c != nil {
		cond, cArgs, err := c.Render(condition.Placeholder{Char: condition.PLACEHOLDER})
		if err != nil {
			return "", nil, err
		}
		if cond != "" {
			stmt += " " + cond
		}
		args = append(args, cArgs...)
	}
	return condition.ReplacePlaceholders(stmt, p.Placeholder()), args, nil
}

// execOne runs a single statement on the provider.
func execOne(p Provider, stmt string, args []interface{}) (sql.Result, error) {
	res, err := p.Exec([]string{stmt}, [][]interface{}{args})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}
