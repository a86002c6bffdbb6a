// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package structer_test

import (
	"testing"

	"github.com/patrickascher/schemer/structer"
	"github.com/stretchr/testify/assert"
)

type column struct {
	Name  string
	Title string
	Order int
}

// TestMerge tests the mergo.Merge wrapper.
func TestMerge(t *testing.T) {
	asserts := assert.New(t)

	dst := column{Name: "status"}
	asserts.NoError(structer.Merge(&dst, column{Name: "state", Title: "Status", Order: 2}))
	asserts.Equal(column{Name: "status", Title: "Status", Order: 2}, dst)

	// override
	asserts.NoError(structer.Merge(&dst, column{Name: "state"}, structer.Override))
	asserts.Equal(column{Name: "state", Title: "Status", Order: 2}, dst)

	// override with zero values
	asserts.NoError(structer.Merge(&dst, column{Name: "state"}, structer.OverrideWithZeroValue))
	asserts.Equal(column{Name: "state"}, dst)

	// no ptr
	asserts.Error(structer.Merge(dst, column{}))
}

// TestMergeByMap tests the mergo.Map wrapper.
func TestMergeByMap(t *testing.T) {
	asserts := assert.New(t)

	dst := column{Name: "status"}
	asserts.NoError(structer.MergeByMap(&dst, map[string]interface{}{"name": "state", "order": 5}, structer.Override))
	asserts.Equal(column{Name: "state", Order: 5}, dst)
}
