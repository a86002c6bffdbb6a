// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"gopkg.in/guregu/null.v4"
)

// NullString wraps gopkg.in/guregu/null.String.
// It is used for column defaults, where an empty string and no default are different.
type NullString null.String

// NullInt wraps gopkg.in/guregu/null.Int.
type NullInt null.Int

// NewNullString creates a new NullString.
func NewNullString(s string, valid bool) NullString {
	return NullString(null.NewString(s, valid))
}

// NewNullInt creates a new NullInt.
func NewNullInt(i int64, valid bool) NullInt {
	return NullInt(null.NewInt(i, valid))
}

// Ptr returns nil if the string is null.
func (s NullString) Ptr() *string {
	return null.String(s).Ptr()
}

// MarshalJSON encodes null if the string is null.
func (s NullString) MarshalJSON() ([]byte, error) {
	return null.String(s).MarshalJSON()
}

// UnmarshalJSON supports string and null input.
func (s *NullString) UnmarshalJSON(data []byte) error {
	return (*null.String)(s).UnmarshalJSON(data)
}

// MarshalText encodes a blank string if the string is null.
func (s NullString) MarshalText() ([]byte, error) {
	return null.String(s).MarshalText()
}

// UnmarshalText sets a null string on blank input.
func (s *NullString) UnmarshalText(text []byte) error {
	return (*null.String)(s).UnmarshalText(text)
}

// MarshalJSON encodes null if the int is null.
func (i NullInt) MarshalJSON() ([]byte, error) {
	return null.Int(i).MarshalJSON()
}

// UnmarshalJSON supports number, string and null input.
func (i *NullInt) UnmarshalJSON(data []byte) error {
	return (*null.Int)(i).UnmarshalJSON(data)
}
