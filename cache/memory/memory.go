// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memory implements the cache.Interface and registers a memory provider.
// All operations are using a sync.RWMutex for synchronization.
package memory

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/patrickascher/schemer/cache"
)

// init registers the memory provider.
func init() {
	err := cache.Register(cache.MEMORY, New)
	if err != nil {
		log.Fatal(err)
	}
}

// defaults
const (
	defaultGCInterval = 5 * time.Minute
)

// Error messages
var (
	ErrNameNotExist = "memory: name %v does not exist"
	ErrOptions      = "memory: options must be of type memory.Options, got %T"
)

// Options for the memory provider
type Options struct {
	// GCInterval defines how often the GC will run (default: every 5 minutes).
	GCInterval time.Duration
}

// New creates a memory cache by the given options.
func New(opt interface{}) (cache.Interface, error) {
	options := Options{GCInterval: defaultGCInterval}
	if opt != nil {
		o, ok := opt.(Options)
		if !ok {
			return nil, fmt.Errorf(ErrOptions, opt)
		}
		if o.GCInterval > 0 {
			options.GCInterval = o.GCInterval
		}
	}

	return &memory{options: options, entries: make(map[string]*entry)}, nil
}

// entry of the memory cache. A zero deadline never expires.
type entry struct {
	name     string
	val      interface{}
	ttl      time.Duration
	created  time.Time
	deadline time.Time
}

func (e *entry) Name() string              { return e.name }
func (e *entry) Value() interface{}        { return e.val }
func (e *entry) Created() time.Time        { return e.created }
func (e *entry) Expiration() time.Duration { return e.ttl }

// expiredAt reports if the deadline is before now.
func (e *entry) expiredAt(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// memory cache provider.
type memory struct {
	mutex   sync.RWMutex
	options Options
	entries map[string]*entry
}

// Get returns the value of the given name.
// An expired entry is reported as missing, even if the GC did not run yet.
func (m *memory) Get(name string) (cache.Item, error) {
	m.mutex.RLock()
	e, ok := m.entries[name]
	m.mutex.RUnlock()

	if !ok || e.expiredAt(time.Now()) {
		return nil, fmt.Errorf(ErrNameNotExist, name)
	}
	return e, nil
}

// Set the value by name. An entry with the same name is replaced.
// NoExpiration or a zero exp keeps the entry until it is deleted.
func (m *memory) Set(name string, value interface{}, exp time.Duration) error {
	now := time.Now()
	e := &entry{name: name, val: value, ttl: exp, created: now}
	if exp > 0 {
		e.deadline = now.Add(exp)
	}

	m.mutex.Lock()
	m.entries[name] = e
	m.mutex.Unlock()
	return nil
}

// Delete the entry by name.
func (m *memory) Delete(name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.entries[name]; !ok {
		return fmt.Errorf(ErrNameNotExist, name)
	}
	delete(m.entries, name)
	return nil
}

// GC removes the expired entries after every interval. It never returns.
func (m *memory) GC() {
	ticker := time.NewTicker(m.options.GCInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		m.collect(now)
	}
}

// collect deletes all entries which are expired at the given time.
func (m *memory) collect(now time.Time) {
	m.mutex.Lock()
	for name, e := range m.entries {
		if e.expiredAt(now) {
			delete(m.entries, name)
		}
	}
	m.mutex.Unlock()
}
