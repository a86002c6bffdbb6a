// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logger provides the logging interface of the schema engine.
// It wraps existing go loggers, so the log provider can be changed without touching the engine.
// Log level, fields, errors, time durations and caller information can be added to every entry.
package logger

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/patrickascher/schemer/registry"
)

// Error messages.
var (
	ErrProvider = errors.New("logger: provider does not implement logger.Manager")
	ErrLevel    = "logger: unknown level %q"
)

// registryPrefix for the registry package.
const registryPrefix = "logger_"

// Level - the higher the more critical
const (
	TRACE Level = iota - 1
	DEBUG
	INFO
	WARNING
	ERROR
	PANIC
)

// Level of a log entry.
type Level int32

// String converts the level code.
func (lvl Level) String() string {
	switch lvl {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case PANIC:
		return "PANIC"
	default:
		return "unknown level"
	}
}

// ParseLevel converts a configuration string into a Level.
func ParseLevel(s string) (Level, error) {
	for _, lvl := range []Level{TRACE, DEBUG, INFO, WARNING, ERROR, PANIC} {
		if strings.EqualFold(lvl.String(), s) {
			return lvl, nil
		}
	}
	if strings.EqualFold(s, "warn") {
		return WARNING, nil
	}
	return DEBUG, fmt.Errorf(ErrLevel, s)
}

// Provider interface.
type Provider interface {
	Log(Entry)
}

// Manager interface.
type Manager interface {
	Trace(string)
	Debug(string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	Panic(msg string)

	New() Manager
	WithFields(Fields) Manager
	WithError(error) Manager
	WithTimer() Manager

	SetCallerFields(bool)
	SetLogLevel(Level)
}

// Fields can be used to add more details to a log message.
type Fields map[string]interface{}

// Map converts the Fields to a map[string]interface{}.
func (f Fields) Map() map[string]interface{} {
	return f
}

// Entry holds all information of a log message.
type Entry struct {
	Level     Level
	Timestamp time.Time
	Message   string
	Fields    Fields
}

// manager holds the provider and the entry context.
type manager struct {
	provider Provider
	fields   Fields

	callerInfo bool
	timer      time.Time
	lvl        Level
}

// Register a new logger provider by name.
func Register(name string, provider Provider) error {
	return registry.Set(registryPrefix+name, NewManager(provider))
}

// Get a logger by the registered name.
func Get(name string) (Manager, error) {
	m, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	// the value could have been set directly over the registry.
	if m, ok := m.(Manager); ok {
		return m, nil
	}

	return nil, ErrProvider
}

// NewManager wraps the provider without registering it.
// Default log level is DEBUG.
func NewManager(provider Provider) Manager {
	return &manager{provider: provider}
}

// Discard returns a Manager which drops every entry.
func Discard() Manager {
	return &manager{provider: discard{}, lvl: PANIC + 1}
}

type discard struct{}

func (discard) Log(Entry) {}

// SetCallerFields will add the fields "line" and "file" to the Entry.
func (m *manager) SetCallerFields(b bool) {
	m.callerInfo = b
}

// SetLogLevel will define the minimum level which gets logged.
func (m *manager) SetLogLevel(b Level) {
	m.lvl = b
}

// New creates a copy of the manager.
func (m manager) New() Manager {
	fields := make(Fields, len(m.fields))
	for k, v := range m.fields {
		fields[k] = v
	}
	return &manager{lvl: m.lvl, provider: m.provider, fields: fields, callerInfo: m.callerInfo, timer: m.timer}
}

// WithTimer will add the field "duration" to the next Entry.
func (m manager) WithTimer() Manager {
	instance := m.New().(*manager)
	instance.timer = time.Now()
	return instance
}

// WithFields returns a copy with the fields merged into the existing ones.
func (m manager) WithFields(fields Fields) Manager {
	instance := m.New().(*manager)
	for k, v := range fields {
		instance.fields[k] = v
	}
	return instance
}

// WithError adds the error message as field "error".
func (m manager) WithError(err error) Manager {
	if err == nil {
		return m.New()
	}
	return m.WithFields(Fields{"error": err.Error()})
}

// Trace log.
func (m manager) Trace(msg string) {
	m.log(TRACE, msg)
}

// Debug log.
func (m manager) Debug(msg string) {
	m.log(DEBUG, msg)
}

// Info log.
func (m manager) Info(msg string) {
	m.log(INFO, msg)
}

// Warning log.
func (m manager) Warning(msg string) {
	m.log(WARNING, msg)
}

// Error log.
func (m manager) Error(msg string) {
	m.log(ERROR, msg)
}

// Panic log.
func (m manager) Panic(msg string) {
	m.log(PANIC, msg)
}

func (m manager) log(lvl Level, msg string) {
	if lvl >= m.lvl {
		m.provider.Log(m.newEntry(msg, lvl))
	}
}

// newEntry creates the Entry for the log provider.
func (m manager) newEntry(msg string, lvl Level) Entry {
	e := Entry{Message: msg, Level: lvl, Timestamp: time.Now()}

	e.Fields = make(Fields, len(m.fields)+2)
	for k, v := range m.fields {
		e.Fields[k] = v
	}

	if !m.timer.IsZero() {
		e.Fields["duration"] = time.Since(m.timer)
	}

	if m.callerInfo {
		// skip log and the level function.
		_, file, line, _ := runtime.Caller(3)
		e.Fields["line"] = line
		e.Fields["file"] = file
	}

	return e
}
