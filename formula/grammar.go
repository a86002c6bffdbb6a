// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package formula

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Expression is a comparison of two sums.
//
//nolint:govet
type Expression struct {
	Left  *Sum   `@@`
	Op    string `( @( "==" | "!=" | ">=" | "<=" | ">" | "<" | "=" )`
	Right *Sum   `  @@ )?`
}

//nolint:govet
type Sum struct {
	Left *Product `@@`
	Rest []*SumOp `@@*`
}

//nolint:govet
type SumOp struct {
	Op    string   `@( "+" | "-" | "&" )`
	Right *Product `@@`
}

//nolint:govet
type Product struct {
	Left *Unary       `@@`
	Rest []*ProductOp `@@*`
}

//nolint:govet
type ProductOp struct {
	Op    string `@( "*" | "/" )`
	Right *Unary `@@`
}

//nolint:govet
type Unary struct {
	Negative bool     `@"-"?`
	Value    *Primary `@@`
}

//nolint:govet
type Primary struct {
	Call   *Call       `  @@`
	Column *string     `| @Column`
	Number *string     `| @Number`
	String *string     `| @String`
	Sub    *Expression `| "(" @@ ")"`
}

//nolint:govet
type Call struct {
	Name string        `@Ident "("`
	Args []*Expression `( @@ ( "," @@ )* )? ")"`
}

// formulaLexer keeps the whitespace tokens, so that the formula can be rewritten token by token.
var formulaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Column", Pattern: `\{[^{}]*\}`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `\d+(\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Operator", Pattern: `==|!=|>=|<=|[-+*/<>=&]`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[Expression](
	participle.Lexer(formulaLexer),
	participle.Elide("Whitespace"),
)
