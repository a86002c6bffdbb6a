// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package meta

import (
	"fmt"

	"github.com/patrickascher/schemer/query"
)

// Clause of a condition.
// The operator is one of the query operators (query.EQ, query.IN, ...).
type Clause struct {
	Field    string
	Operator string
	Value    interface{}
}

// Condition is a list of clauses which are combined with AND.
// An empty condition matches every record.
type Condition []Clause

// Where returns a new condition with the given clause.
func Where(field string, operator string, value interface{}) Condition {
	return Condition{{Field: field, Operator: operator, Value: value}}
}

// ByID matches the record with the given id.
func ByID(id string) Condition {
	return Where(FieldID, query.EQ, id)
}

// All matches every record.
func All() Condition {
	return Condition{}
}

// And adds a clause to the condition.
func (c Condition) And(field string, operator string, value interface{}) Condition {
	return append(c[:len(c):len(c)], Clause{Field: field, Operator: operator, Value: value})
}

// Validate checks if all operators are supported by the stores.
// Only EQ, NEQ, NULL, NOTNULL, IN and NOTIN are supported, NULL and NOTNULL take no value.
func (c Condition) Validate() error {
	for _, cl := range c {
		switch cl.Operator {
		case query.EQ, query.NEQ, query.IN, query.NOTIN:
		case query.NULL, query.NOTNULL:
			if cl.Value != nil {
				return fmt.Errorf(ErrOperator, cl.Operator)
			}
		default:
			return fmt.Errorf(ErrOperator, cl.Operator)
		}
	}
	return nil
}
