// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/schemer/cache"
	cacheMemory "github.com/patrickascher/schemer/cache/memory"
	"github.com/patrickascher/schemer/cache/redis"
	"github.com/patrickascher/schemer/logger"
	"github.com/patrickascher/schemer/logger/logrus"
	"github.com/patrickascher/schemer/meta"
	_ "github.com/patrickascher/schemer/meta/memory"
	"github.com/patrickascher/schemer/meta/sqlstore"
	"github.com/patrickascher/schemer/query"
)

// Engine is the configuration of the schema engine.
// The database drivers must be imported by the application.
type Engine struct {
	Database query.Config
	Meta     Meta
	Cache    Cache
	Log      Log
}

// Meta configuration. The sqlstore writes the metadata into the configured database.
type Meta struct {
	Provider string `validate:"required,oneof=memory sqlstore"`
	// Prefix of the metadata tables.
	Prefix string
	// Migrate creates the metadata tables.
	Migrate bool
}

// Cache configuration. Without a provider, the metadata is not cached.
type Cache struct {
	Provider   string `validate:"omitempty,oneof=memory redis"`
	GCInterval time.Duration
	Addr       string `validate:"required_if=Provider redis"`
	Password   string
	DB         int
	Namespace  string
}

// Log configuration.
type Log struct {
	Level string `validate:"omitempty,oneof=TRACE DEBUG INFO WARNING ERROR PANIC"`
	JSON  bool
}

// Validate the engine configuration.
func (e *Engine) Validate() error {
	return validator.New().Struct(e)
}

// Runtime holds the wired dependencies of the engine.
type Runtime struct {
	Builder query.Builder
	Meta    meta.Store
	Cache   cache.Manager
	Logger  logger.Manager
}

// Bootstrap validates the configuration and opens the database, metadata store, cache and logger.
// The cache is nil if no provider is configured.
func Bootstrap(e Engine) (*Runtime, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rt := &Runtime{}
	level := logger.DEBUG
	if e.Log.Level != "" {
		var err error
		if level, err = logger.ParseLevel(e.Log.Level); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	rt.Logger = logger.NewManager(logrus.New(logrus.Options{JSON: e.Log.JSON, Output: os.Stderr}))
	rt.Logger.SetLogLevel(level)

	var err error
	if rt.Builder, err = query.Open(e.Database); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	rt.Builder.SetLogger(rt.Logger)

	var options interface{}
	if e.Meta.Provider == meta.SQLSTORE {
		options = sqlstore.Options{Builder: rt.Builder, Prefix: e.Meta.Prefix}
	}
	if rt.Meta, err = meta.New(e.Meta.Provider, options); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if m, ok := rt.Meta.(meta.Migrator); ok && e.Meta.Migrate {
		if err = m.Migrate(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	switch e.Cache.Provider {
	case cache.MEMORY:
		rt.Cache, err = cache.New(cache.MEMORY, cacheMemory.Options{GCInterval: e.Cache.GCInterval})
	case cache.REDIS:
		rt.Cache, err = cache.New(cache.REDIS, redis.Options{Addr: e.Cache.Addr, Password: e.Cache.Password, DB: e.Cache.DB, Namespace: e.Cache.Namespace})
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	rt.Logger.WithFields(logger.Fields{"database": e.Database.Client, "meta": e.Meta.Provider, "cache": e.Cache.Provider}).Info("engine bootstrapped")
	return rt, nil
}
