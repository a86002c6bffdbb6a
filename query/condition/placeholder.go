// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package condition

import "strconv"

// PLACEHOLDER is the generic placeholder used while building a statement.
const PLACEHOLDER = "?"

// Placeholder of a database provider.
// Numeric placeholders are counted ($1, $2, ...).
type Placeholder struct {
	Numeric bool
	Char    string
	counter int
}

func (p *Placeholder) next() string {
	if p.Numeric {
		p.counter++
		return p.Char + strconv.Itoa(p.counter)
	}
	return p.Char
}
