// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package redis implements the cache.Interface on top of https://github.com/redis/go-redis.
//
// Values are stored as JSON envelopes, which means a value read back is the JSON decoded form
// (map[string]interface{}, []interface{}, float64, ...) and not the original go type.
// All keys are namespaced, so several providers can share one redis database.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/patrickascher/schemer/cache"
	"github.com/redis/go-redis/v9"
)

// init registers the redis provider.
func init() {
	err := cache.Register(cache.REDIS, New)
	if err != nil {
		log.Fatal(err)
	}
}

// defaults
const (
	defaultNamespace = "schemer:"
)

// Error messages
var (
	ErrNameNotExist = "redis: name %v does not exist"
	ErrOptions      = "redis: options must be of type redis.Options, got %T"
	ErrAddr         = errors.New("redis: address is mandatory")
)

// Options for the redis provider.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
	// Timeout for every redis call, default 5s.
	Timeout time.Duration
}

// New creates a redis cache by the given options.
// The connection is checked with a PING.
func New(opt interface{}) (cache.Interface, error) {
	options, ok := opt.(Options)
	if !ok {
		return nil, fmt.Errorf(ErrOptions, opt)
	}
	if options.Addr == "" {
		return nil, ErrAddr
	}
	if options.Namespace == "" {
		options.Namespace = defaultNamespace
	}
	if options.Timeout == 0 {
		options.Timeout = 5 * time.Second
	}

	r := &provider{
		options: options,
		client:  redis.NewClient(&redis.Options{Addr: options.Addr, Password: options.Password, DB: options.DB}),
	}

	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return r, nil
}

type provider struct {
	options Options
	client  *redis.Client
}

// envelope is the stored JSON format.
type envelope struct {
	Value   interface{}   `json:"v"`
	Created time.Time     `json:"c"`
	Exp     time.Duration `json:"e"`
}

// item implements cache.Item.
type item struct {
	name string
	env  envelope
}

func (i *item) Name() string              { return i.name }
func (i *item) Value() interface{}        { return i.env.Value }
func (i *item) Created() time.Time        { return i.env.Created }
func (i *item) Expiration() time.Duration { return i.env.Exp }

func (r *provider) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.options.Timeout)
}

// Get returns the decoded item.
func (r *provider) Get(name string) (cache.Item, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	b, err := r.client.Get(ctx, r.options.Namespace+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf(ErrNameNotExist, name)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return decode(name, b)
}

// Set the value as JSON envelope.
// cache.NoExpiration is mapped to a key without ttl.
func (r *provider) Set(name string, value interface{}, exp time.Duration) error {
	b, err := encode(value, exp)
	if err != nil {
		return err
	}

	ttl := exp
	if exp == cache.NoExpiration {
		ttl = 0
	}

	ctx, cancel := r.ctx()
	defer cancel()
	if err = r.client.Set(ctx, r.options.Namespace+name, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}

// Delete the key.
func (r *provider) Delete(name string) error {
	ctx, cancel := r.ctx()
	defer cancel()

	n, err := r.client.Del(ctx, r.options.Namespace+name).Result()
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if n == 0 {
		return fmt.Errorf(ErrNameNotExist, name)
	}
	return nil
}

// GC is not needed, redis expires the keys itself.
func (r *provider) GC() {}

func encode(value interface{}, exp time.Duration) ([]byte, error) {
	b, err := json.Marshal(envelope{Value: value, Created: time.Now(), Exp: exp})
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return b, nil
}

func decode(name string, b []byte) (cache.Item, error) {
	i := &item{name: name}
	if err := json.Unmarshal(b, &i.env); err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return i, nil
}
