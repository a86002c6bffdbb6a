// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package formula

import (
	"strconv"
	"strings"

	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// translator renders the parsed formula for a database family.
type translator struct {
	family string
	quote  func(string) string
	table  *model.Table
}

// SQL translates the formula in the id form into a database expression.
// A top level comparison is rendered as CASE expression which returns 1 or 0.
func SQL(d query.Dialect, quote func(string) string, table *model.Table, formula string) (string, error) {
	expr, err := Parse(formula)
	if err != nil {
		return "", err
	}
	t := translator{family: d.Family(), quote: quote, table: table}
	if expr.Op != "" {
		cond, err := t.condition(expr)
		if err != nil {
			return "", err
		}
		return "CASE WHEN " + cond + " THEN 1 ELSE 0 END", nil
	}
	return t.expression(expr)
}

func (t translator) expression(e *Expression) (string, error) {
	if e.Op != "" {
		return t.condition(e)
	}
	return t.sum(e.Left)
}

// condition renders a boolean expression.
func (t translator) condition(e *Expression) (string, error) {
	left, err := t.sum(e.Left)
	if err != nil {
		return "", err
	}
	if e.Op == "" {
		// mysql and sqlite evaluate numbers as boolean.
		if t.family == query.MYSQL || t.family == query.SQLITE {
			return left, nil
		}
		return left + " IS NOT NULL", nil
	}
	right, err := t.sum(e.Right)
	if err != nil {
		return "", err
	}
	op := e.Op
	switch op {
	case "==":
		op = "="
	case "!=":
		op = "<>"
	}
	return left + " " + op + " " + right, nil
}

func (t translator) sum(s *Sum) (string, error) {
	left, err := t.product(s.Left)
	if err != nil {
		return "", err
	}
	for _, op := range s.Rest {
		right, err := t.product(op.Right)
		if err != nil {
			return "", err
		}
		if op.Op == "&" {
			left = t.concat([]string{left, right})
			continue
		}
		left = left + " " + op.Op + " " + right
	}
	return left, nil
}

func (t translator) product(p *Product) (string, error) {
	left, err := t.unary(p.Left)
	if err != nil {
		return "", err
	}
	for _, op := range p.Rest {
		right, err := t.unary(op.Right)
		if err != nil {
			return "", err
		}
		left = left + " " + op.Op + " " + right
	}
	return left, nil
}

func (t translator) unary(u *Unary) (string, error) {
	v, err := t.primary(u.Value)
	if err != nil {
		return "", err
	}
	if u.Negative {
		return "-" + v, nil
	}
	return v, nil
}

func (t translator) primary(p *Primary) (string, error) {
	switch {
	case p.Call != nil:
		return t.call(p.Call)
	case p.Column != nil:
		ref := strings.TrimSpace((*p.Column)[1 : len(*p.Column)-1])
		c := t.table.Column(ref)
		if c == nil {
			c = t.table.ColumnByTitle(ref)
		}
		if c == nil {
			return "", invalid("column %#v does not exist", ref)
		}
		if c.IsVirtual() {
			return "", invalid("virtual column %#v can not be used in a formula", c.Title)
		}
		return t.quote(c.ColumnName), nil
	case p.Number != nil:
		return *p.Number, nil
	case p.String != nil:
		return literal(*p.String), nil
	case p.Sub != nil:
		v, err := t.expression(p.Sub)
		if err != nil {
			return "", err
		}
		return "(" + v + ")", nil
	}
	return "", invalid("empty expression")
}

// literal converts a formula string into a sql string literal.
func literal(s string) string {
	if strings.HasPrefix(s, "\"") {
		if v, err := strconv.Unquote(s); err == nil {
			return "'" + query.EscapeLiteral(v) + "'"
		}
	}
	v := s[1 : len(s)-1]
	v = strings.ReplaceAll(v, `\'`, `'`)
	return "'" + query.EscapeLiteral(v) + "'"
}

// concat renders a string concatenation.
func (t translator) concat(args []string) string {
	switch t.family {
	case query.SQLITE, query.ORACLE:
		return "(" + strings.Join(args, " || ") + ")"
	}
	return "CONCAT(" + strings.Join(args, ", ") + ")"
}

// call renders a function.
func (t translator) call(c *Call) (string, error) {
	name := strings.ToUpper(c.Name)

	if name == "IF" || name == "AND" || name == "OR" || name == "NOT" {
		return t.logical(name, c.Args)
	}

	args := make([]string, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := t.expression(a)
		if err != nil {
			return "", err
		}
		args = append(args, v)
	}

	arity := func(min int, max int) error {
		if len(args) < min || (max > 0 && len(args) > max) {
			return invalid("wrong number of arguments for %s", name)
		}
		return nil
	}

	switch name {
	case "CONCAT":
		if err := arity(1, 0); err != nil {
			return "", err
		}
		return t.concat(args), nil
	case "UPPER", "LOWER", "TRIM", "ABS", "FLOOR":
		if err := arity(1, 1); err != nil {
			return "", err
		}
		return name + "(" + args[0] + ")", nil
	case "LEN":
		if err := arity(1, 1); err != nil {
			return "", err
		}
		switch t.family {
		case query.MYSQL:
			return "CHAR_LENGTH(" + args[0] + ")", nil
		case query.MSSQL:
			return "LEN(" + args[0] + ")", nil
		}
		return "LENGTH(" + args[0] + ")", nil
	case "CEILING":
		if err := arity(1, 1); err != nil {
			return "", err
		}
		switch t.family {
		case query.ORACLE:
			return "CEIL(" + args[0] + ")", nil
		case query.SQLITE:
			return "(CAST(" + args[0] + " AS INTEGER) + (" + args[0] + " > CAST(" + args[0] + " AS INTEGER)))", nil
		}
		return "CEILING(" + args[0] + ")", nil
	case "ROUND":
		if err := arity(1, 2); err != nil {
			return "", err
		}
		if len(args) == 1 {
			args = append(args, "0")
		}
		return "ROUND(" + args[0] + ", " + args[1] + ")", nil
	case "MOD":
		if err := arity(2, 2); err != nil {
			return "", err
		}
		if t.family == query.SQLITE || t.family == query.MSSQL {
			return "(" + args[0] + " % " + args[1] + ")", nil
		}
		return "MOD(" + args[0] + ", " + args[1] + ")", nil
	case "ADD":
		if err := arity(1, 0); err != nil {
			return "", err
		}
		return "(" + strings.Join(args, " + ") + ")", nil
	case "AVG":
		if err := arity(1, 0); err != nil {
			return "", err
		}
		return "((" + strings.Join(args, " + ") + ") / " + strconv.Itoa(len(args)) + ")", nil
	case "MIN", "MAX":
		if err := arity(2, 0); err != nil {
			return "", err
		}
		switch t.family {
		case query.SQLITE:
			return name + "(" + strings.Join(args, ", ") + ")", nil
		case query.MSSQL:
			return "(SELECT " + name + "(v) FROM (VALUES (" + strings.Join(args, "), (") + ")) AS t(v))", nil
		}
		if name == "MIN" {
			return "LEAST(" + strings.Join(args, ", ") + ")", nil
		}
		return "GREATEST(" + strings.Join(args, ", ") + ")", nil
	case "NOW":
		if err := arity(0, 0); err != nil {
			return "", err
		}
		return "CURRENT_TIMESTAMP", nil
	}
	return "", invalid("function %s is not supported", c.Name)
}

// logical renders IF, AND, OR and NOT.
func (t translator) logical(name string, args []*Expression) (string, error) {
	switch name {
	case "IF":
		if len(args) < 2 || len(args) > 3 {
			return "", invalid("wrong number of arguments for IF")
		}
		cond, err := t.condition(args[0])
		if err != nil {
			return "", err
		}
		then, err := t.expression(args[1])
		if err != nil {
			return "", err
		}
		otherwise := "NULL"
		if len(args) == 3 {
			if otherwise, err = t.expression(args[2]); err != nil {
				return "", err
			}
		}
		return "CASE WHEN " + cond + " THEN " + then + " ELSE " + otherwise + " END", nil
	case "NOT":
		if len(args) != 1 {
			return "", invalid("wrong number of arguments for NOT")
		}
		cond, err := t.condition(args[0])
		if err != nil {
			return "", err
		}
		return "NOT (" + cond + ")", nil
	}

	if len(args) < 2 {
		return "", invalid("wrong number of arguments for %s", name)
	}
	conds := make([]string, 0, len(args))
	for _, a := range args {
		v, err := t.condition(a)
		if err != nil {
			return "", err
		}
		conds = append(conds, v)
	}
	return "(" + strings.Join(conds, " "+name+" ") + ")", nil
}
