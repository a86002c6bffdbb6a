// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query_test

import (
	"encoding/json"
	"testing"

	"github.com/patrickascher/schemer/query"
	"github.com/stretchr/testify/assert"
)

func TestNullString(t *testing.T) {
	asserts := assert.New(t)

	def := query.NewNullString("", true)
	asserts.True(def.Valid)
	asserts.Equal("", *def.Ptr())
	asserts.Nil(query.NewNullString("x", false).Ptr())

	// an empty default is not the same as no default
	b, err := json.Marshal(struct{ CDF query.NullString }{def})
	asserts.NoError(err)
	asserts.Equal(`{"CDF":""}`, string(b))
	b, err = json.Marshal(struct{ CDF query.NullString }{query.NewNullString("", false)})
	asserts.NoError(err)
	asserts.Equal(`{"CDF":null}`, string(b))

	var s query.NullString
	asserts.NoError(json.Unmarshal([]byte(`"'open'"`), &s))
	asserts.Equal(query.NewNullString("'open'", true), s)
	asserts.NoError(json.Unmarshal([]byte(`null`), &s))
	asserts.False(s.Valid)
	asserts.Error(json.Unmarshal([]byte(`{}`), &s))

	// text
	asserts.NoError(s.UnmarshalText([]byte("")))
	asserts.False(s.Valid)
	text, err := query.NewNullString("a", true).MarshalText()
	asserts.NoError(err)
	asserts.Equal("a", string(text))

	// sql scanner of the embedded sql.NullString
	asserts.NoError(s.Scan("now()"))
	asserts.Equal(query.NewNullString("now()", true), s)
	asserts.NoError(s.Scan(nil))
	asserts.False(s.Valid)
}

func TestNullInt(t *testing.T) {
	asserts := assert.New(t)

	var i query.NullInt
	asserts.NoError(json.Unmarshal([]byte(`255`), &i))
	asserts.Equal(query.NewNullInt(255, true), i)
	asserts.NoError(json.Unmarshal([]byte(`null`), &i))
	asserts.False(i.Valid)

	b, err := json.Marshal(query.NewNullInt(20, true))
	asserts.NoError(err)
	asserts.Equal("20", string(b))

	asserts.NoError(i.Scan(int64(4)))
	asserts.Equal(int64(4), i.Int64)
}
