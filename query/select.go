// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"

	"github.com/patrickascher/schemer/query/condition"
)

// SelectBase is used by all providers.
// The fields are exported so that a provider can change the rendering.
type SelectBase struct {
	Provider Provider

	STable     string
	SColumns   []string
	SCondition condition.Condition
}

// Columns of the result. All columns (*) are selected if none are set.
func (s *SelectBase) Columns(columns ...string) Select {
	s.SColumns = columns
	return s
}

// Join adds a join, the table gets quoted.
func (s *SelectBase) Join(joinType int, table string, on string, args ...interface{}) Select {
	if s.SCondition == nil {
		s.SCondition = condition.New()
	}
	s.SCondition.SetJoin(joinType, s.Provider.QuoteIdentifier(table), on, args...)
	return s
}

// Where adds a where clause.
func (s *SelectBase) Where(stmt string, args ...interface{}) Select {
	s.SCondition = where(s.SCondition, stmt, args)
	return s
}

// Order of the result. A leading - sorts descending.
func (s *SelectBase) Order(order ...string) Select {
	if s.SCondition == nil {
		s.SCondition = condition.New()
	}
	s.SCondition.SetOrder(order...)
	return s
}

// First returns the first row.
func (s *SelectBase) First() (*sql.Row, error) {
	stmt, args, err := s.String()
	if err != nil {
		return nil, err
	}
	return s.Provider.First(stmt, args)
}

// All returns all rows.
func (s *SelectBase) All() (*sql.Rows, error) {
	stmt, args, err := s.String()
	if err != nil {
		return nil, err
	}
	return s.Provider.All(stmt, args)
}

// String returns the rendered statement and arguments.
func (s *SelectBase) String() (string, []interface{}, error) {
	columns := s.SColumns
	if len(columns) == 0 {
		columns = []string{DbExpr("*")}
	}
	stmt := "SELECT " + s.Provider.QuoteIdentifier(columns...) + " FROM " + s.Provider.QuoteIdentifier(s.STable)
	return render(s.Provider, stmt, nil, s.SCondition)
}
