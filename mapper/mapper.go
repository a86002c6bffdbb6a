// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mapper

import (
	"reflect"
	"sort"
)

// KeysAsString return all map keys as string slice.
func KeysAsString(value interface{}) []string {

	var rv []string
	keys := reflect.ValueOf(value).MapKeys()
	for _, k := range keys {
		rv = append(rv, k.String())
	}

	return rv
}

// SortedKeys returns all map keys as sorted string slice.
func SortedKeys(value interface{}) []string {
	rv := KeysAsString(value)
	sort.Strings(rv)
	return rv
}
