// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

// Base is a project with its database connection.
// Prefix is added to the names of generated tables.
type Base struct {
	ID     string `mapstructure:"id"`
	Title  string `mapstructure:"title"`
	Prefix string `mapstructure:"prefix"`

	Config query.Config `mapstructure:"-"`
}

// NewBase decodes a base record.
func NewBase(r meta.Record) (*Base, error) {
	b := &Base{}
	if err := decode(r, b); err != nil {
		return nil, err
	}
	if err := decode(r, &b.Config); err != nil {
		return nil, err
	}
	return b, nil
}

// Record of the base.
func (b *Base) Record() meta.Record {
	return meta.Record{
		meta.FieldID: b.ID,
		"title":      b.Title,
		"prefix":     b.Prefix,
		"client":     b.Config.Client,
		"variant":    b.Config.Variant,
		"host":       b.Config.Host,
		"port":       b.Config.Port,
		"username":   b.Config.Username,
		"password":   b.Config.Password,
		"database":   b.Config.Database,
		"schema":     b.Config.Schema,
	}
}
