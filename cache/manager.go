// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	prefixSeparator = "_"
	listPrefix      = "list"
	keySeparator    = ":"
)

// Direction of a DeepDel.
type Direction int

// Allowed directions.
const (
	// ParentToChild deletes the item and every list (incl. members) owned by the key.
	ParentToChild Direction = iota + 1
	// ChildToParent deletes the item and removes it from all lists it is a member of.
	ChildToParent
)

// Error messages.
var (
	ErrNotExist  = "cache: list %s does not exist"
	ErrDirection = errors.New("cache: unknown deep delete direction")
)

// Manager for cache operations.
// Items are addressed by a scope (table, column, ...) and a key.
type Manager interface {
	Get(scope string, key string) (Item, error)
	Set(scope string, key string, value interface{}, exp time.Duration) error
	Exist(scope string, key string) bool
	Delete(scope string, key string) error

	AppendToList(scope string, parentKeys []string, member string) error
	SetList(scope string, parentKeys []string, members []string) error
	List(scope string, parentKeys []string) ([]Item, error)
	DeepDel(scope string, key string, direction Direction) error
}

// manager holds the list indexes.
// owners maps a parent key to the lists it owns, parents maps a scoped member name to the lists it is in.
type manager struct {
	expiration time.Duration
	provider   Interface

	mu      sync.Mutex
	owners  map[string][]string
	parents map[string][]string
}

// NewManager returns a Manager for the provider.
// Unlike New, the provider is not looked up in the registry and no GC is started.
// Items set with DefaultExpiration are kept for an hour.
func NewManager(provider Interface) Manager {
	return &manager{
		expiration: time.Hour,
		provider:   provider,
		owners:     make(map[string][]string),
		parents:    make(map[string][]string),
	}
}

// Get returns an Item by its scope and key.
func (m *manager) Get(scope string, key string) (Item, error) {
	i, err := m.provider.Get(scopedName(scope, key))
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return i, nil
}

// Set an item by its scope, key, value and lifetime.
// cache.NoExpiration keeps the item until it gets deleted.
func (m *manager) Set(scope string, key string, value interface{}, exp time.Duration) error {
	if exp == DefaultExpiration {
		exp = m.expiration
	}
	if err := m.provider.Set(scopedName(scope, key), value, exp); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Exist wraps Get but returns a boolean.
func (m *manager) Exist(scope string, key string) bool {
	_, err := m.Get(scope, key)
	return err == nil
}

// Delete an item by its scope and key.
// The list indexes are not touched, use DeepDel for that.
func (m *manager) Delete(scope string, key string) error {
	if err := m.provider.Delete(scopedName(scope, key)); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// AppendToList adds the member to the list of the scope and parent keys.
// The member name is expected under the same scope prefix.
// A list which does not exist yet is not created, because an incomplete list would hide members on a read-through.
func (m *manager) AppendToList(scope string, parentKeys []string, member string) error {
	list := listName(scope, parentKeys)
	members, err := m.listMembers(list)
	if err != nil {
		return nil
	}

	pMember := scopedName(scope, member)
	for _, v := range members {
		if v == pMember {
			return nil
		}
	}
	return m.storeList(scope, parentKeys, append(members, pMember))
}

// SetList replaces the list of the scope and parent keys with the given members.
func (m *manager) SetList(scope string, parentKeys []string, members []string) error {
	pMembers := make([]string, 0, len(members))
	for _, member := range members {
		pMembers = append(pMembers, scopedName(scope, member))
	}
	return m.storeList(scope, parentKeys, pMembers)
}

// List returns all member items of the list.
// Error returns if the list or any member is not cached, the caller must read through in that case.
func (m *manager) List(scope string, parentKeys []string) ([]Item, error) {
	list := listName(scope, parentKeys)
	members, err := m.listMembers(list)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(members))
	for _, member := range members {
		i, err := m.provider.Get(member)
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		items = append(items, i)
	}
	return items, nil
}

// DeepDel deletes the item of scope and key and follows the list relations in the given direction.
// A missing item is not an error, deep deletes are used for invalidation.
func (m *manager) DeepDel(scope string, key string, direction Direction) error {
	pName := scopedName(scope, key)

	switch direction {
	case ParentToChild:
		m.mu.Lock()
		lists := m.owners[key]
		delete(m.owners, key)
		m.mu.Unlock()

		for _, list := range lists {
			members, err := m.listMembers(list)
			if err == nil {
				for _, member := range members {
					_ = m.provider.Delete(member)
					m.mu.Lock()
					delete(m.parents, member)
					m.mu.Unlock()
				}
			}
			_ = m.provider.Delete(list)
		}
	case ChildToParent:
		m.mu.Lock()
		lists := m.parents[pName]
		delete(m.parents, pName)
		m.mu.Unlock()

		for _, list := range lists {
			members, err := m.listMembers(list)
			if err != nil {
				continue
			}
			rv := members[:0]
			for _, member := range members {
				if member != pName {
					rv = append(rv, member)
				}
			}
			if err = m.provider.Set(list, rv, NoExpiration); err != nil {
				return fmt.Errorf("cache: %w", err)
			}
		}
	default:
		return ErrDirection
	}

	_ = m.provider.Delete(pName)
	return nil
}

// storeList saves the list and updates the owner and parent indexes.
func (m *manager) storeList(scope string, parentKeys []string, members []string) error {
	list := listName(scope, parentKeys)
	if err := m.provider.Set(list, members, NoExpiration); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	m.mu.Lock()
	for _, parent := range parentKeys {
		m.owners[parent] = appendUnique(m.owners[parent], list)
	}
	for _, member := range members {
		m.parents[member] = appendUnique(m.parents[member], list)
	}
	m.mu.Unlock()
	return nil
}

// listMembers returns the member names of the list.
// Providers which serialize values return []interface{}.
func (m *manager) listMembers(list string) ([]string, error) {
	i, err := m.provider.Get(list)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	switch v := i.Value().(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []interface{}:
		rv := make([]string, 0, len(v))
		for _, s := range v {
			rv = append(rv, fmt.Sprint(s))
		}
		return rv, nil
	case nil:
		return []string{}, nil
	default:
		return nil, fmt.Errorf(ErrNotExist, list)
	}
}

// scopedName returns the provider name of the item.
func scopedName(scope string, key string) string {
	if scope == "" {
		return key
	}
	return scope + prefixSeparator + key
}

// listName of a scope and its parent keys.
func listName(scope string, parentKeys []string) string {
	return listPrefix + prefixSeparator + scope + keySeparator + strings.Join(parentKeys, keySeparator)
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}
