// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache provides the metadata cache manager for any type that implements the cache.Interface.
//
// Besides plain items, the manager keeps member lists per scope and parent keys (e.g. the columns of a table).
// DeepDel invalidates entries along those lists, either from a parent to all its children or from a child
// out of every list it belongs to. The cache is advisory, a miss always falls back to the metadata store.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickascher/schemer/registry"
)

// Defaults
const (
	// DefaultExpiration of the cache provider.
	DefaultExpiration = 0
	// NoExpiration for the cache item.
	NoExpiration = -1
)

// RegistryPrefix for the providers registry name.
const registryPrefix = "schemer:cache:"

// All predefined providers are listed here.
const (
	MEMORY = "memory"
	REDIS  = "redis"
)

type providerFn func(opt interface{}) (Interface, error)

// managerCache of initialized providers.
var (
	managerMu    sync.Mutex
	managerCache = make(map[string]Manager)
)

// Interface description for cache providers.
type Interface interface {
	// Get returns an Item by its name.
	// Error must return if it does not exist.
	Get(name string) (Item, error)
	// Set an item by its name, value and lifetime.
	// If cache.NoExpiration is set, the item should not get deleted.
	Set(name string, value interface{}, exp time.Duration) error
	// Delete a value by its name.
	// Error must return if it does not exist.
	Delete(name string) error
	// GC will be called once as goroutine.
	// If the cache backend has its own garbage collector (redis, memcached, ...) just return in this method.
	GC()
}

// Item interface for the cached object.
type Item interface {
	Name() string
	Value() interface{}
	Created() time.Time
	Expiration() time.Duration
}

// New returns a cache manager by the provider name and options.
// The provider is only initialized once, after that the same manager returns.
func New(provider string, options interface{}) (Manager, error) {
	managerMu.Lock()
	defer managerMu.Unlock()

	provider = registryPrefix + provider
	if p, exists := managerCache[provider]; exists {
		return p, nil
	}

	instanceFn, err := registry.Get(provider)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	p, err := instanceFn.(providerFn)(options)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	managerCache[provider] = NewManager(p)

	go p.GC()

	return managerCache[provider], nil
}

// Register a new cache provider by name.
func Register(name string, provider providerFn) error {
	return registry.Set(registryPrefix+name, provider)
}
