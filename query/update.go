// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/mapper"
	"github.com/patrickascher/schemer/query/condition"
)

// UpdateBase is used by all providers.
type UpdateBase struct {
	Provider Provider

	UTable     string
	UColumns   []string
	UValues    map[string]interface{}
	UCondition condition.Condition
}

// Set the values.
func (u *UpdateBase) Set(values map[string]interface{}) Update {
	u.UValues = values
	return u
}

// Columns define a fixed column order.
// If the columns are not set, the sorted keys of the values are used.
func (u *UpdateBase) Columns(cols ...string) Update {
	u.UColumns = cols
	return u
}

// Where adds a where clause.
func (u *UpdateBase) Where(stmt string, args ...interface{}) Update {
	u.UCondition = where(u.UCondition, stmt, args)
	return u
}

// String returns the rendered statement and arguments.
func (u *UpdateBase) String() (string, []interface{}, error) {
	return u.Render()
}

// Exec the statement.
func (u *UpdateBase) Exec() (sql.Result, error) {
	stmt, args, err := u.Render()
	if err != nil {
		return nil, err
	}
	return execOne(u.Provider, stmt, args)
}

// Render the sql query.
// Expression values are added as raw sql with their own arguments, which come before the where arguments.
func (u *UpdateBase) Render() (string, []interface{}, error) {
	if len(u.UValues) == 0 {
		return "", nil, fmt.Errorf(ErrValueMissing, "update", u.UTable)
	}
	columns := u.UColumns
	if len(columns) == 0 {
		columns = mapper.SortedKeys(u.UValues)
	}

	var args []interface{}
	set := make([]string, 0, len(columns))
	for _, column := range columns {
		val, ok := u.UValues[strings.TrimPrefix(column, u.UTable+".")]
		if !ok {
			return "", nil, fmt.Errorf(ErrColumn, column, u.UTable)
		}
		if expr, ok := val.(Expression); ok {
			set = append(set, u.Provider.QuoteIdentifier(column)+" = "+expr.SQL)
			args = append(args, expr.Args...)
			continue
		}
		set = append(set, u.Provider.QuoteIdentifier(column)+" = "+condition.PLACEHOLDER)
		args = append(args, val)
	}

	stmt := "UPDATE " + u.Provider.QuoteIdentifier(u.UTable) + " SET " + strings.Join(set, ", ")
	return render(u.Provider, stmt, args, u.UCondition)
}
