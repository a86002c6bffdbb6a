// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package formula parses formula columns and translates them into database expressions.
//
// Column references are written as {Title} by the user and stored as {columnID}, so that a column rename
// does not break the formula. ToIDs and ToTitles convert between both forms.
package formula

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// Parse the formula.
// An invalid formula returns a model.ValidationError which wraps model.ErrInvalidFormula.
func Parse(formula string) (*Expression, error) {
	if strings.TrimSpace(formula) == "" {
		return nil, invalid("formula is empty")
	}
	expr, err := parser.ParseString("", formula)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	return expr, nil
}

// References returns the content of all column references in order.
func References(formula string) ([]string, error) {
	var rv []string
	_, err := rewrite(formula, func(ref string) (string, error) {
		rv = append(rv, ref)
		return ref, nil
	})
	return rv, err
}

// ToIDs replaces the column titles with the column ids.
// References which are already ids are kept.
func ToIDs(formula string, columns []*model.Column) (string, error) {
	if _, err := Parse(formula); err != nil {
		return "", err
	}
	return rewrite(formula, func(ref string) (string, error) {
		for _, c := range columns {
			if c.Title == ref || c.ID == ref {
				return c.ID, nil
			}
		}
		return "", invalid("column %#v does not exist", ref)
	})
}

// ToTitles replaces the column ids with the column titles.
func ToTitles(formula string, columns []*model.Column) (string, error) {
	return rewrite(formula, func(ref string) (string, error) {
		for _, c := range columns {
			if c.ID == ref {
				return c.Title, nil
			}
		}
		return "", invalid("column id %#v does not exist", ref)
	})
}

// rewrite the formula token by token. Column references are replaced by fn.
func rewrite(formula string, fn func(string) (string, error)) (string, error) {
	lex, err := formulaLexer.LexString("", formula)
	if err != nil {
		return "", invalid("%s", err.Error())
	}
	column := formulaLexer.Symbols()["Column"]

	var b strings.Builder
	for {
		tok, err := lex.Next()
		if err != nil {
			return "", invalid("%s", err.Error())
		}
		if tok.EOF() {
			break
		}
		if tok.Type != column {
			b.WriteString(tok.Value)
			continue
		}
		ref, err := fn(reference(tok))
		if err != nil {
			return "", err
		}
		b.WriteString("{" + ref + "}")
	}
	return b.String(), nil
}

// reference returns the content of a column token.
func reference(tok lexer.Token) string {
	return strings.TrimSpace(tok.Value[1 : len(tok.Value)-1])
}

// invalid returns a validation error of the formula.
func invalid(msg string, args ...interface{}) error {
	return &model.ValidationError{Field: "formula", Message: fmt.Sprintf(msg, args...), Err: model.ErrInvalidFormula}
}

// DryRun executes the formula against the table without returning any row.
// The formula must be in the id form.
func DryRun(b query.Builder, table *model.Table, formula string) error {
	expr, err := SQL(b.Dialect(), b.QuoteIdentifier, table, formula)
	if err != nil {
		return err
	}

	stmt := "SELECT " + expr + " FROM " + b.QuoteIdentifier(table.TableName) + " WHERE 1 = 0"
	rows, err := b.Query().DB().Query(stmt)
	if err != nil {
		return invalid("%s", err.Error())
	}
	return rows.Close()
}
