// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"

	"github.com/patrickascher/schemer/query/condition"
)

// DeleteBase is used by all providers.
type DeleteBase struct {
	Provider Provider

	DTable     string
	DCondition condition.Condition
}

// Where adds a where clause. Without any clause all rows are deleted.
func (d *DeleteBase) Where(stmt string, args ...interface{}) Delete {
	d.DCondition = where(d.DCondition, stmt, args)
	return d
}

// String returns the rendered statement and arguments.
func (d *DeleteBase) String() (string, []interface{}, error) {
	return render(d.Provider, "DELETE FROM "+d.Provider.QuoteIdentifier(d.DTable), nil, d.DCondition)
}

// Exec the statement.
func (d *DeleteBase) Exec() (sql.Result, error) {
	stmt, args, err := d.String()
	if err != nil {
		return nil, err
	}
	return execOne(d.Provider, stmt, args)
}
