// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate a request struct by its validate tags.
// The first failing field returns as ValidationError with the json path of the field.
func Validate(request interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})

	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := errs[0]
	field := fe.Namespace()
	// the namespace starts with the struct name.
	if i := strings.Index(field, "."); i != -1 {
		field = field[i+1:]
	}
	msg := "failed on the " + fe.Tag() + " rule"
	if fe.Param() != "" {
		msg += " (" + fe.Param() + ")"
	}
	return &ValidationError{Field: field, Message: msg}
}
