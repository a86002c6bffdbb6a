// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/patrickascher/schemer/meta"
	"github.com/patrickascher/schemer/query"
)

var nullStringType = reflect.TypeOf(query.NullString{})

// decode a record into the given struct ptr.
// Values are weakly typed, because the stores and caches return different number and bool types.
func decode(r interface{}, v interface{}) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       nullStringHook,
		WeaklyTypedInput: true,
		Result:           v,
	})
	if err != nil {
		return err
	}
	if err = d.Decode(r); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// nullStringHook converts strings into a valid query.NullString.
func nullStringHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != nullStringType || from.Kind() != reflect.String {
		return data, nil
	}
	return query.NewNullString(reflect.ValueOf(data).String(), true), nil
}

// toRecord converts cached values. The redis cache returns a plain map.
func toRecord(v interface{}) (meta.Record, bool) {
	switch r := v.(type) {
	case meta.Record:
		return r, true
	case map[string]interface{}:
		return r, true
	}
	return nil, false
}

// nullable returns nil for an invalid NullString.
func nullable(s query.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}
