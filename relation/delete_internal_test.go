// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package relation

import (
	"errors"
	"testing"

	"github.com/patrickascher/schemer/model"
	"github.com/patrickascher/schemer/query"
	"github.com/stretchr/testify/assert"
)

// information reports the configured foreign keys.
type information struct {
	query.Information
	fks []query.ForeignKey
	err error
}

func (i information) ForeignKey() ([]query.ForeignKey, error) { return i.fks, i.err }

type fakeQuery struct {
	query.Query
	info information
}

func (q fakeQuery) Information(string) query.Information { return q.info }

type builder struct {
	query.Builder
	q fakeQuery
}

func (b builder) Query(...query.Tx) query.Query { return b.q }

func TestManager_describedConstraint(t *testing.T) {
	asserts := assert.New(t)

	fk := foreignKey{
		child:        &model.Table{TableName: "orders"},
		parent:       &model.Table{TableName: "customers"},
		childColumn:  &model.Column{ColumnName: "customers_id"},
		parentColumn: &model.Column{ColumnName: "id"},
	}
	fks := []query.ForeignKey{
		{Name: "fk_other", Primary: query.Relation{Table: "orders", Column: "sellers_id"}, Secondary: query.Relation{Table: "sellers", Column: "id"}},
		{Name: "fk_customers", Primary: query.Relation{Table: "orders", Column: "customers_id"}, Secondary: query.Relation{Table: "customers", Column: "id"}},
	}

	m := New(builder{q: fakeQuery{info: information{fks: fks}}}, nil)
	asserts.Equal("fk_customers", m.describedConstraint(fk))

	// not reported
	m = New(builder{q: fakeQuery{info: information{fks: fks[:1]}}}, nil)
	asserts.Equal("", m.describedConstraint(fk))

	// error
	m = New(builder{q: fakeQuery{info: information{err: errors.New("no relation")}}}, nil)
	asserts.Equal("", m.describedConstraint(fk))
}
