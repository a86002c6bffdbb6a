// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry provides a process wide container for provider factories.
//
// Dialects, cache providers, meta stores and log providers register themselves by name in their init function.
// Names are grouped by a prefix, so a package can list all entries of its own kind.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Error messages
var (
	ErrUnknownEntry       = "registry: unknown registry name %#v, maybe you forgot to import the provider"
	ErrMandatoryArguments = errors.New("registry: one or more arguments have a zero-value")
	ErrAlreadyExists      = "registry: %v is already registered"
)

var (
	mu        sync.RWMutex
	entries   = make(map[string]interface{})
	validator []Validate
)

// Validate defines a prefix and a check which runs before a value with that prefix is stored.
// The check receives the registry name and value.
type Validate struct {
	Prefix string
	Fn     func(string, interface{}) error
}

// Validator adds a check for all names with the given prefix.
// Only one check per prefix is allowed.
func Validator(validate Validate) error {
	if validate.Prefix == "" || validate.Fn == nil {
		return ErrMandatoryArguments
	}

	mu.Lock()
	defer mu.Unlock()

	if hasValidator(validate.Prefix) != nil {
		return fmt.Errorf(ErrAlreadyExists, "validator prefix "+validate.Prefix)
	}
	validator = append(validator, validate)
	return nil
}

// hasValidator must be called with the lock held.
func hasValidator(name string) *Validate {
	for i := range validator {
		if strings.HasPrefix(name, validator[i].Prefix) {
			return &validator[i]
		}
	}
	return nil
}

// Set a value by name.
// The name and value must be non-zero and the name must be unique.
func Set(name string, value interface{}) error {
	if value == nil || name == "" {
		return ErrMandatoryArguments
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		return fmt.Errorf(ErrAlreadyExists, name)
	}

	if v := hasValidator(name); v != nil {
		if err := v.Fn(name, value); err != nil {
			return fmt.Errorf("registry: %w", err)
		}
	}

	entries[name] = value
	return nil
}

// Get returns the value by the registered name.
func Get(name string) (interface{}, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf(ErrUnknownEntry, name)
	}
	return v, nil
}

// Names returns the sorted names with the given prefix, the prefix itself is trimmed.
func Names(prefix string) []string {
	mu.RLock()
	defer mu.RUnlock()

	var rv []string
	for n := range entries {
		if strings.HasPrefix(n, prefix) {
			rv = append(rv, strings.TrimPrefix(n, prefix))
		}
	}
	sort.Strings(rv)
	return rv
}
