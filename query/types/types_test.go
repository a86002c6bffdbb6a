// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package types_test

import (
	"testing"

	"github.com/patrickascher/schemer/query/types"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	asserts := assert.New(t)

	var tests = []struct {
		raw  string
		kind string
	}{
		{raw: "boolean", kind: types.BOOL},
		{raw: "bigint", kind: types.INTEGER},
		{raw: "NUMBER", kind: types.INTEGER},
		{raw: "numeric(10,2)", kind: types.FLOAT},
		{raw: "double precision", kind: types.FLOAT},
		{raw: "text", kind: types.TEXTAREA},
		{raw: "time without time zone", kind: types.TIME},
		{raw: "date", kind: types.DATE},
		{raw: "datetime2", kind: types.DATETIME},
		{raw: "character varying(255)", kind: types.TEXT},
		{raw: "varchar2", kind: types.TEXT},
	}

	for _, test := range tests {
		typ := types.Parse(test.raw, 0)
		asserts.Equal(test.kind, typ.Kind(), test.raw)
		asserts.Equal(test.raw, typ.Raw())
	}

	text := types.Parse("varchar(20)", 20)
	asserts.Equal(20, text.(*types.Type).Size)

	// mysql
	asserts.Equal(types.BOOL, types.Parse("tinyint(1)", 0).Kind())
	asserts.Equal(types.INTEGER, types.Parse("int(11) unsigned", 0).Kind())
	asserts.Equal(types.TEXTAREA, types.Parse("longtext", 0).Kind())
	sel := types.Parse("enum('a','it''s','x,y')", 0)
	asserts.Equal(types.SELECT, sel.Kind())
	asserts.Equal([]string{"a", "it's", "x,y"}, sel.(types.Items).Items())
	set := types.Parse("set('x')", 0)
	asserts.Equal(types.MULTISELECT, set.Kind())
	asserts.Equal([]string{"x"}, set.(types.Items).Items())
}

func TestValues(t *testing.T) {
	asserts := assert.New(t)

	asserts.Nil(types.Values(""))
	asserts.Equal([]string{""}, types.Values("''"))
	asserts.Equal([]string{"a", "b"}, types.Values("'a', 'b'"))
	asserts.Equal([]string{"''"}, types.Values(""))
}

func TestUIType(t *testing.T) {
	asserts := assert.New(t)

	asserts.True(types.IsVirtual(types.Formula))
	asserts.True(types.IsVirtual(types.LinkToAnotherRecord))
	asserts.False(types.IsVirtual(types.SingleSelect))

	asserts.True(types.IsSelect(types.MultiSelect))
	asserts.False(types.IsSelect(types.SingleLineText))

	asserts.Equal(types.MULTISELECT, types.Kind(types.MultiSelect))
	asserts.Equal(types.FLOAT, types.Kind(types.Duration))
	asserts.Equal("", types.Kind(types.Rollup))
}
