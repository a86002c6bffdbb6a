// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package option

import (
	"fmt"
	"strings"

	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
)

// Rewrite is a row update of a select column.
// Value is the new value, a query.Expression or a plain value. Where is optional.
type Rewrite struct {
	Value interface{}
	Where string
	Args  []interface{}
}

// multiSelectFamilies can rewrite delimited values.
var multiSelectFamilies = []string{query.MYSQL, query.POSTGRES, query.MSSQL, query.SQLITE}

// supported reports if the family can rewrite the column values.
func supported(family string, kind model.Kind) bool {
	if kind != model.MultiSelect {
		return true
	}
	for _, f := range multiSelectFamilies {
		if f == family {
			return true
		}
	}
	return false
}

// rewritable returns ErrDialectUnsupported if the row values of the kind can not be rewritten on the family.
func rewritable(family string, kind model.Kind) error {
	if !supported(family, kind) {
		return fmt.Errorf("option: %s on %s: %w", kind, family, model.ErrDialectUnsupported)
	}
	return nil
}

// removal returns the rewrites which remove the title from all rows.
// col must be the quoted column name.
func removal(family string, kind model.Kind, dt string, col string, title string) ([]Rewrite, error) {
	if kind == model.SingleSelect {
		return []Rewrite{single(family, col, nil, title)}, nil
	}

	switch family {
	case query.MYSQL:
		r := Rewrite{Value: query.Expr("TRIM(BOTH ',' FROM REPLACE(CONCAT(',', "+col+", ','), CONCAT(',', ?, ','), ','))", title)}
		if dt == "set" {
			r.Where, r.Args = "FIND_IN_SET(?, "+col+")", []interface{}{title}
		}
		return []Rewrite{r}, nil
	case query.POSTGRES:
		return []Rewrite{{Value: query.Expr("array_to_string(array_remove(string_to_array("+col+", ','), ?), ',')", title)}}, nil
	case query.MSSQL:
		// substring fails with a negative length if the title is the only token.
		replaced := "replace(concat(',', " + col + ", ','), concat(',', ?, ','), ',')"
		return []Rewrite{
			{Value: nil, Where: col + " LIKE ?", Args: []interface{}{title}},
			{Value: query.Expr("substring("+replaced+", 2, len("+replaced+") - 2)", title, title)},
		}, nil
	case query.SQLITE:
		return []Rewrite{{Value: query.Expr("TRIM(REPLACE(',' || "+col+" || ',', ',' || ? || ',', ','), ',')", title)}}, nil
	}
	return nil, model.ErrDialectUnsupported
}

// rename returns the rewrite which replaces the old title with the new one in all rows.
func rename(family string, kind model.Kind, dt string, col string, old string, new string) (Rewrite, error) {
	if kind == model.SingleSelect {
		return single(family, col, new, old), nil
	}

	switch family {
	case query.MYSQL:
		r := Rewrite{Value: query.Expr("TRIM(BOTH ',' FROM REPLACE(CONCAT(',', "+col+", ','), CONCAT(',', ?, ','), CONCAT(',', ?, ',')))", old, new)}
		if dt == "set" {
			r.Where, r.Args = "FIND_IN_SET(?, "+col+")", []interface{}{old}
		}
		return r, nil
	case query.POSTGRES:
		return Rewrite{Value: query.Expr("array_to_string(array_replace(string_to_array("+col+", ','), ?, ?), ',')", old, new)}, nil
	case query.MSSQL:
		replaced := "replace(concat(',', " + col + ", ','), concat(',', ?, ','), concat(',', ?, ','))"
		return Rewrite{Value: query.Expr("substring("+replaced+", 2, len("+replaced+") - 2)", old, new, old, new)}, nil
	case query.SQLITE:
		return Rewrite{Value: query.Expr("TRIM(REPLACE(',' || "+col+" || ',', ',' || ? || ',', ',' || ? || ','), ',')", old, new)}, nil
	}
	return Rewrite{}, model.ErrDialectUnsupported
}

// firstToken returns the rewrite which keeps only the first token of a delimited value.
func firstToken(family string, col string) (Rewrite, error) {
	switch family {
	case query.MYSQL:
		return Rewrite{Value: query.Expr("SUBSTRING_INDEX(" + col + ", ',', 1)"), Where: col + " LIKE '%,%'"}, nil
	case query.POSTGRES:
		return Rewrite{Value: query.Expr("split_part(" + col + ", ',', 1)")}, nil
	case query.MSSQL:
		return Rewrite{Value: query.Expr("LEFT(cast(" + col + " as varchar(max)), CHARINDEX(',', " + col + ") - 1)"), Where: "CHARINDEX(',', " + col + ") > 0"}, nil
	case query.SQLITE:
		return Rewrite{Value: query.Expr("substr(" + col + ", 1, instr(" + col + ", ',') - 1)"), Where: col + " LIKE '%,%'"}, nil
	}
	return Rewrite{}, model.ErrDialectUnsupported
}

// single returns the rewrite of an exact match. Mssql compares with LIKE, because text columns can not be compared.
func single(family string, col string, value interface{}, title string) Rewrite {
	if family == query.MSSQL {
		return Rewrite{Value: value, Where: col + " LIKE ?", Args: []interface{}{title}}
	}
	return Rewrite{Value: value, Where: col + " = ?", Args: []interface{}{title}}
}

// Encode returns the quoted and comma separated option list.
func Encode(titles []string) string {
	quoted := make([]string, 0, len(titles))
	for _, t := range titles {
		quoted = append(quoted, "'"+query.EscapeLiteral(t)+"'")
	}
	return strings.Join(quoted, ",")
}
