// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import "github.com/patrickascher/schemer/query/types"

// Kind is the ui type of a column.
type Kind string

// All column kinds.
const (
	ID                  Kind = types.ID
	ForeignKey          Kind = types.ForeignKey
	SingleLineText      Kind = types.SingleLineText
	LongText            Kind = types.LongText
	Attachment          Kind = types.Attachment
	Checkbox            Kind = types.Checkbox
	MultiSelect         Kind = types.MultiSelect
	SingleSelect        Kind = types.SingleSelect
	Date                Kind = types.Date
	Year                Kind = types.Year
	Time                Kind = types.Time
	PhoneNumber         Kind = types.PhoneNumber
	Email               Kind = types.Email
	URL                 Kind = types.URL
	Number              Kind = types.Number
	Decimal             Kind = types.Decimal
	Currency            Kind = types.Currency
	Percent             Kind = types.Percent
	Duration            Kind = types.Duration
	Rating              Kind = types.Rating
	DateTime            Kind = types.DateTime
	JSON                Kind = types.JSON
	Formula             Kind = types.Formula
	Lookup              Kind = types.Lookup
	Rollup              Kind = types.Rollup
	LinkToAnotherRecord Kind = types.LinkToAnotherRecord
	QrCode              Kind = types.QrCode
	Barcode             Kind = types.Barcode
)

// String returns the ui type.
func (k Kind) String() string {
	return string(k)
}

// Virtual reports if the kind has no physical column.
func (k Kind) Virtual() bool {
	return types.IsVirtual(string(k))
}

// Select reports if the kind holds select options.
func (k Kind) Select() bool {
	return types.IsSelect(string(k))
}

// Valid reports if the kind is known.
func (k Kind) Valid() bool {
	return k.Virtual() || types.Kind(string(k)) != ""
}
