// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads configuration structs over a registered provider.
//
// The viper provider supports JSON, TOML, YAML, HCL, INI, envfile and Java properties files.
// If the configuration struct implements Validator, it is validated after every successful parse.
package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/patrickascher/schemer/registry"
)

// all pre-defined providers.
const (
	VIPER = "config_viper"
)

// Error messages
var (
	ErrInterface = errors.New("config: the type does not implement config.Interface")
	ErrPointer   = errors.New("config: the config argument must be a ptr")
)

// Interface for the config provider.
type Interface interface {
	Parse(config interface{}, options interface{}) error
}

// Validator can be implemented by a configuration struct.
type Validator interface {
	Validate() error
}

// Load a configuration by provider and options.
// The cfg must be a ptr to the configuration struct.
func Load(provider string, cfg interface{}, options interface{}) error {
	if reflect.ValueOf(cfg).Kind() != reflect.Ptr {
		return ErrPointer
	}

	instance, err := registry.Get(provider)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	p, ok := instance.(Interface)
	if !ok {
		return ErrInterface
	}

	if err = p.Parse(cfg, options); err != nil {
		return err
	}

	if v, ok := cfg.(Validator); ok {
		if err = v.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
