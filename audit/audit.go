// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package audit records the schema mutations.
//
// An Event is written for every created, updated or deleted column.
// The Writer decides where the events are stored. LogWriter logs them and Memory keeps them in memory.
package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickascher/schemer/logger"
)

// Type constants.
const (
	ColumnCreated Type = iota + 1
	ColumnUpdated
	ColumnDeleted
)

// ErrType is returned for an unknown event type.
var ErrType = "audit: event type %d is not implemented"

// Type of an event.
type Type int32

// String converts the Type code.
func (t Type) String() string {
	switch t {
	case ColumnCreated:
		return "COLUMN_CREATED"
	case ColumnUpdated:
		return "COLUMN_UPDATED"
	case ColumnDeleted:
		return "COLUMN_DELETED"
	}
	return fmt.Sprintf("%d", t)
}

// Event of a schema mutation.
type Event struct {
	ID          string
	Type        Type
	BaseID      string
	TableID     string
	ColumnID    string
	Description string
	CreatedAt   time.Time
}

// NewEvent returns an event with a new id.
// Error will return if the type is unknown.
func NewEvent(t Type, baseID string, tableID string, columnID string, description string) (Event, error) {
	if t < ColumnCreated || t > ColumnDeleted {
		return Event{}, fmt.Errorf(ErrType, t)
	}
	return Event{
		ID:          uuid.New().String(),
		Type:        t,
		BaseID:      baseID,
		TableID:     tableID,
		ColumnID:    columnID,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// Writer stores the events.
type Writer interface {
	Write(Event) error
}

// logWriter logs every event at INFO level.
type logWriter struct {
	logger logger.Manager
}

// NewLogWriter returns a writer which logs the events.
func NewLogWriter(l logger.Manager) Writer {
	if l == nil {
		l = logger.Discard()
	}
	return &logWriter{logger: l}
}

// Write implements the Writer interface.
func (w *logWriter) Write(e Event) error {
	w.logger.WithFields(logger.Fields{
		"id":     e.ID,
		"type":   e.Type.String(),
		"base":   e.BaseID,
		"table":  e.TableID,
		"column": e.ColumnID,
	}).Info(e.Description)
	return nil
}

// Memory keeps all events. It is safe for concurrent use.
type Memory struct {
	mutex  sync.RWMutex
	events []Event
}

// Write implements the Writer interface.
func (m *Memory) Write(e Event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Events returns a copy of all written events.
func (m *Memory) Events() []Event {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]Event(nil), m.events...)
}
