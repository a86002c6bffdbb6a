// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package structer merges structs. It is a wrapper for https://github.com/imdario/mergo.
package structer

import (
	"fmt"

	"github.com/imdario/mergo"
)

// Merge options.
const (
	// Override non zero destination fields with non zero source fields.
	Override Option = iota + 1
	// OverrideWithZeroValue overrides the destination with zero source fields as well.
	OverrideWithZeroValue
)

// Option of a merge.
type Option int

// Merge the src into the dst struct. The dst must be a ptr.
// By default only zero destination fields are set.
func Merge(dst interface{}, src interface{}, opts ...Option) error {
	if err := mergo.Merge(dst, src, options(opts)...); err != nil {
		return fmt.Errorf("structer: %w", err)
	}
	return nil
}

// MergeByMap merges the map into the dst struct. The dst must be a ptr.
func MergeByMap(dst interface{}, src map[string]interface{}, opts ...Option) error {
	if err := mergo.Map(dst, src, options(opts)...); err != nil {
		return fmt.Errorf("structer: %w", err)
	}
	return nil
}

func options(opts []Option) []func(*mergo.Config) {
	var rv []func(*mergo.Config)
	for _, o := range opts {
		switch o {
		case Override:
			rv = append(rv, mergo.WithOverride)
		case OverrideWithZeroValue:
			rv = append(rv, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue)
		}
	}
	return rv
}
