// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logger_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProvider records every log entry.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Log(e logger.Entry) {
	m.Called(e)
}

// TestManager tests registration, get, levels, fields, errors and timer.
func TestManager(t *testing.T) {
	asserts := assert.New(t)
	mockProvider := new(MockProvider)

	testRegister(asserts, mockProvider)
	testGet(asserts)
	testLevels(asserts, mockProvider)
	testFields(asserts, mockProvider)

	mockProvider.AssertExpectations(t)
}

func testRegister(asserts *assert.Assertions, mockProvider *MockProvider) {
	asserts.NoError(logger.Register("mock", mockProvider))
	asserts.Error(logger.Register("mock", mockProvider))
}

func testGet(asserts *assert.Assertions) {
	log, err := logger.Get("mock")
	asserts.NoError(err)
	asserts.NotNil(log)

	log, err = logger.Get("notExisting")
	asserts.Equal(fmt.Errorf("logger: "+registry.ErrUnknownEntry, "logger_notExisting").Error(), err.Error())
	asserts.Nil(log)

	asserts.NoError(registry.Set("logger_wrongType", ""))
	log, err = logger.Get("wrongType")
	asserts.Equal(logger.ErrProvider, err)
	asserts.Nil(log)
}

func testLevels(asserts *assert.Assertions, mockProvider *MockProvider) {
	log, err := logger.Get("mock")
	asserts.NoError(err)
	log = log.New()
	log.SetLogLevel(logger.WARNING)

	var entries []logger.Entry
	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Times(3).Return().Run(func(args mock.Arguments) {
		entries = append(entries, args.Get(0).(logger.Entry))
	})

	log.Trace("trace")
	log.Debug("debug")
	log.Info("info")
	log.Warning("warning")
	log.Error("error")
	log.Panic("panic")

	asserts.Equal(3, len(entries))
	asserts.Equal(logger.WARNING, entries[0].Level)
	asserts.Equal(logger.ERROR, entries[1].Level)
	asserts.Equal(logger.PANIC, entries[2].Level)
	asserts.Equal("warning", entries[0].Message)
}

func testFields(asserts *assert.Assertions, mockProvider *MockProvider) {
	log, err := logger.Get("mock")
	asserts.NoError(err)
	log = log.New()
	log.SetLogLevel(logger.TRACE)

	var entry logger.Entry
	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})

	base := log.WithFields(logger.Fields{"table": "users"})
	base.WithFields(logger.Fields{"column": "email"}).WithError(errors.New("boom")).WithTimer().Info("msg")

	asserts.Equal("users", entry.Fields["table"])
	asserts.Equal("email", entry.Fields["column"])
	asserts.Equal("boom", entry.Fields["error"])
	_, ok := entry.Fields["duration"]
	asserts.True(ok)

	// parent instance was not changed.
	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})
	base.SetCallerFields(true)
	base.Debug("msg")
	_, ok = entry.Fields["column"]
	asserts.False(ok)
	asserts.Equal(3, len(entry.Fields))
}

func TestParseLevel(t *testing.T) {
	asserts := assert.New(t)

	lvl, err := logger.ParseLevel("info")
	asserts.NoError(err)
	asserts.Equal(logger.INFO, lvl)

	lvl, err = logger.ParseLevel("WARN")
	asserts.NoError(err)
	asserts.Equal(logger.WARNING, lvl)

	_, err = logger.ParseLevel("verbose")
	asserts.Equal(fmt.Sprintf(logger.ErrLevel, "verbose"), err.Error())
}

func TestDiscard(t *testing.T) {
	asserts := assert.New(t)
	asserts.NotPanics(func() {
		logger.Discard().WithFields(logger.Fields{"a": 1}).Panic("nothing")
	})
}
