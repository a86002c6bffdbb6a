// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package types

// ui types of a column.
const (
	ID                  = "ID"
	ForeignKey          = "ForeignKey"
	SingleLineText      = "SingleLineText"
	LongText            = "LongText"
	Attachment          = "Attachment"
	Checkbox            = "Checkbox"
	MultiSelect         = "MultiSelect"
	SingleSelect        = "SingleSelect"
	Date                = "Date"
	Year                = "Year"
	Time                = "Time"
	PhoneNumber         = "PhoneNumber"
	Email               = "Email"
	URL                 = "URL"
	Number              = "Number"
	Decimal             = "Decimal"
	Currency            = "Currency"
	Percent             = "Percent"
	Duration            = "Duration"
	Rating              = "Rating"
	DateTime            = "DateTime"
	JSON                = "JSON"
	Formula             = "Formula"
	Lookup              = "Lookup"
	Rollup              = "Rollup"
	LinkToAnotherRecord = "LinkToAnotherRecord"
	QrCode              = "QrCode"
	Barcode             = "Barcode"
)

// IsVirtual reports if the ui type has no physical column.
func IsVirtual(uidt string) bool {
	switch uidt {
	case Formula, Lookup, Rollup, LinkToAnotherRecord, QrCode, Barcode:
		return true
	}
	return false
}

// IsSelect reports if the ui type holds select options.
func IsSelect(uidt string) bool {
	return uidt == SingleSelect || uidt == MultiSelect
}

// Kind returns the sanitized type of an ui type.
// Virtual ui types return an empty string.
func Kind(uidt string) string {
	switch uidt {
	case ID, ForeignKey, Number, Rating, Year:
		return INTEGER
	case Checkbox:
		return BOOL
	case Decimal, Currency, Percent, Duration:
		return FLOAT
	case SingleLineText, PhoneNumber, Email, URL:
		return TEXT
	case LongText, Attachment, JSON:
		return TEXTAREA
	case Date:
		return DATE
	case DateTime:
		return DATETIME
	case Time:
		return TIME
	case SingleSelect:
		return SELECT
	case MultiSelect:
		return MULTISELECT
	}
	return ""
}
