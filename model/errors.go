// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
)

// Error messages.
var (
	ErrValidation            = errors.New("model: validation failed")
	ErrInvalidFormula        = errors.New("model: invalid formula")
	ErrUnsupportedTransition = errors.New("model: column transition is not supported")
	ErrNotImplemented        = errors.New("model: not implemented")
	ErrConflict              = errors.New("model: conflict")
	ErrDialectUnsupported    = errors.New("model: dialect is not supported")
)

// ValidationError is returned if a request does not pass the validation.
// No schema change is made if a ValidationError returns.
// errors.Is(err, ErrValidation) is true for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
	// Err is an optional cause like ErrInvalidFormula.
	Err error
}

// NewValidationError returns a ValidationError for the field.
func NewValidationError(field string, msg string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(msg, args...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "model: " + e.Message
	}
	return fmt.Sprintf("model: %s: %s", e.Field, e.Message)
}

// Unwrap returns the cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as target.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
