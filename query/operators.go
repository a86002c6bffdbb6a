// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

// Operators of a where clause.
// IN and NOTIN take a slice, which is expanded by the condition.
const (
	EQ      = "= ?"
	NEQ     = "!= ?"
	NULL    = "IS NULL"
	NOTNULL = "IS NOT NULL"
	GT      = "> ?"
	LIKE    = "LIKE ?"
	IN      = "IN (?)"
	NOTIN   = "NOT IN (?)"
)
