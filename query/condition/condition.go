// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package condition renders the JOIN, WHERE and ORDER BY parts of a statement.
package condition

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Error messages.
var (
	ErrValue               = "query: %s was called with no value(s)"
	ErrJoinType            = "query: join type %d is not allowed"
	ErrJoinTable           = errors.New("query: join table is mandatory")
	ErrPlaceholderMismatch = "query: %v placeholder(%d) and arguments(%d) does not fit"
)

// Parts of a condition.
const (
	WHERE = iota + 1
	ORDER
	JOIN
)

// Allowed join types.
const (
	LEFT = iota + 1
	INNER
)

// Clause is a rendered statement part with its arguments.
type Clause struct {
	Stmt string
	Args []interface{}
}

// Condition interface.
type Condition interface {
	SetWhere(stmt string, args ...interface{}) Condition
	Where() []Clause
	SetJoin(joinType int, table string, on string, args ...interface{}) Condition
	Join() []Clause
	SetOrder(order ...string) Condition
	Order() []string

	Reset(...int)
	Error() error
	Render(p Placeholder) (string, []interface{}, error)
}

type condition struct {
	where []Clause
	join  []Clause
	order []string
	err   error
}

// New creates a new Condition instance.
func New() Condition {
	return &condition{}
}

// Error returns the first error which happened while building the condition.
func (c *condition) Error() error {
	return c.err
}

func (c *condition) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// SetWhere adds a WHERE clause. Multiple clauses are chained by AND.
// A slice argument is expanded into one placeholder per element.
//		c.SetWhere("id IN (?)", []string{"a", "b"})
func (c *condition) SetWhere(stmt string, args ...interface{}) Condition {
	stmt, args, err := expand(stmt, args)
	if err != nil {
		c.fail(err)
	}
	c.where = append(c.where, Clause{Stmt: stmt, Args: args})
	return c
}

// Where returns the where clauses.
func (c *condition) Where() []Clause {
	return c.where
}

// SetJoin adds a LEFT or INNER join. The table is mandatory.
func (c *condition) SetJoin(joinType int, table string, on string, args ...interface{}) Condition {
	if table == "" {
		c.fail(ErrJoinTable)
	}
	var stmt string
	switch joinType {
	case LEFT:
		stmt = "LEFT JOIN " + table + " ON " + strings.TrimSpace(on)
	case INNER:
		stmt = "INNER JOIN " + table + " ON " + strings.TrimSpace(on)
	default:
		c.fail(fmt.Errorf(ErrJoinType, joinType))
	}
	stmt, args, err := expand(stmt, args)
	if err != nil {
		c.fail(err)
	}
	c.join = append(c.join, Clause{Stmt: stmt, Args: args})
	return c
}

// Join returns the join clauses.
func (c *condition) Join() []Clause {
	return c.join
}

// SetOrder replaces the order columns.
// A `-` prefix sorts the column descending.
func (c *condition) SetOrder(order ...string) Condition {
	c.order = nil
	if len(order) == 0 || (len(order) == 1 && order[0] == "") {
		c.fail(fmt.Errorf(ErrValue, "SetOrder"))
		return c
	}
	for _, o := range order {
		o = strings.Replace(strings.Replace(o, " asc", " ASC", 1), " desc", " DESC", 1)
		switch {
		case strings.HasPrefix(o, "-"):
			o = o[1:] + " DESC"
		case !strings.HasSuffix(o, " ASC") && !strings.HasSuffix(o, " DESC"):
			o += " ASC"
		}
		c.order = append(c.order, o)
	}
	return c
}

// Order returns the order columns.
func (c *condition) Order() []string {
	return c.order
}

// Reset the given parts or the whole condition if none is given.
func (c *condition) Reset(parts ...int) {
	if len(parts) == 0 {
		parts = []int{WHERE, ORDER, JOIN}
	}
	for _, p := range parts {
		switch p {
		case WHERE:
			c.where = nil
		case ORDER:
			c.order = nil
		case JOIN:
			c.join = nil
		}
	}
}

// Render the condition with the given placeholder.
func (c *condition) Render(p Placeholder) (string, []interface{}, error) {
	if c.err != nil {
		return "", nil, c.err
	}

	var sql []string
	var args []interface{}

	for _, j := range c.join {
		sql = append(sql, j.Stmt)
		args = append(args, j.Args...)
	}

	if len(c.where) > 0 {
		where := make([]string, 0, len(c.where))
		for _, w := range c.where {
			where = append(where, w.Stmt)
			args = append(args, w.Args...)
		}
		sql = append(sql, "WHERE "+strings.Join(where, " AND "))
	}

	if len(c.order) > 0 {
		sql = append(sql, "ORDER BY "+strings.Join(c.order, ", "))
	}

	return ReplacePlaceholders(strings.Join(sql, " "), p), args, nil
}

// ReplacePlaceholders replaces the generic placeholder with the one of the provider.
func ReplacePlaceholders(stmt string, p Placeholder) string {
	n := strings.Count(stmt, PLACEHOLDER)
	for i := 0; i < n; i++ {
		stmt = strings.Replace(stmt, PLACEHOLDER, p.next(), 1)
	}
	return stmt
}

// expand checks that the placeholders fit the arguments and expands array or slice arguments.
// []byte is kept as a single argument.
func expand(stmt string, args []interface{}) (string, []interface{}, error) {
	stmt = strings.TrimSpace(stmt)
	if n := strings.Count(stmt, PLACEHOLDER); n != len(args) {
		return "", nil, fmt.Errorf(ErrPlaceholderMismatch, stmt, n, len(args))
	}
	if len(args) == 0 {
		return stmt, nil, nil
	}

	parts := strings.SplitAfter(stmt, PLACEHOLDER)
	var rv []interface{}
	for i, arg := range args {
		v := reflect.ValueOf(arg)
		if _, raw := arg.([]byte); raw || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			rv = append(rv, arg)
			continue
		}
		if v.Len() == 0 {
			return "", nil, fmt.Errorf(ErrValue, "IN")
		}
		parts[i] = strings.Replace(parts[i], PLACEHOLDER, PLACEHOLDER+strings.Repeat(", "+PLACEHOLDER, v.Len()-1), 1)
		for n := 0; n < v.Len(); n++ {
			rv = append(rv, v.Index(n).Interface())
		}
	}
	return strings.Join(parts, ""), rv, nil
}
