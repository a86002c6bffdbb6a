// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config_test

import (
	"errors"
	"testing"

	"github.com/patrickascher/schemer/config"
	"github.com/patrickascher/schemer/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockInterface is a config provider double.
type MockInterface struct {
	mock.Mock
}

func (m *MockInterface) Parse(cfg interface{}, options interface{}) error {
	return m.Called(cfg, options).Error(0)
}

type connection struct {
	Client string
}

func (c *connection) Validate() error {
	if c.Client == "" {
		return errors.New("client is mandatory")
	}
	return nil
}

func TestLoad(t *testing.T) {
	asserts := assert.New(t)

	cfg := connection{}
	options := "something"
	mockProvider := new(MockInterface)

	asserts.NoError(registry.Set("config-mock", mockProvider))
	asserts.NoError(registry.Set("config-err-interface", ""))

	// error: no pointer
	err := config.Load("config-mock", cfg, options)
	asserts.Equal(config.ErrPointer, err)

	// error: wrong type
	err = config.Load("config-err-interface", &cfg, options)
	asserts.Equal(config.ErrInterface, err)

	// error: provider does not exist
	err = config.Load("config-not-existing", &cfg, options)
	asserts.Error(err)
	asserts.Contains(err.Error(), "config: registry:")

	// error: provider error
	mockProvider.On("Parse", &cfg, options).Once().Return(errors.New("an error"))
	err = config.Load("config-mock", &cfg, options)
	asserts.Equal(errors.New("an error"), err)

	// error: validation fails after parsing
	mockProvider.On("Parse", &cfg, options).Once().Return(nil)
	err = config.Load("config-mock", &cfg, options)
	asserts.Equal("config: client is mandatory", err.Error())

	// ok
	mockProvider.On("Parse", &cfg, options).Once().Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*connection).Client = "sqlite3"
	})
	err = config.Load("config-mock", &cfg, options)
	asserts.NoError(err)
	asserts.Equal("sqlite3", cfg.Client)

	mockProvider.AssertExpectations(t)
}
