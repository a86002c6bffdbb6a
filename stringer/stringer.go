// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stringer provides naming helpers for physical names and titles.
package stringer

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
)

var (
	nonWord    = regexp.MustCompile(`[^a-z0-9_]+`)
	underscore = regexp.MustCompile(`_{2,}`)
)

// CamelToSnake of the given string.
func CamelToSnake(s string) string {
	return snaker.CamelToSnake(s)
}

// Plural of the given string.
func Plural(s string) string {
	return inflection.Plural(s)
}

// TableName returns the snake case plural of a camel case name with the given prefix.
// "SelectOption" with the prefix "nc_" will return "nc_select_options".
func TableName(prefix string, name string) string {
	return prefix + Plural(CamelToSnake(name))
}

// ColumnName converts a title into a physical column name.
// "Due Date" will return "due_date".
func ColumnName(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = nonWord.ReplaceAllString(name, "_")
	name = underscore.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "field"
	}
	return name
}

// Truncate the string to max bytes.
// The string is cut on a rune boundary, so the result can be shorter than max.
// A max of zero or less will not truncate.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// UniqueName returns the name or the name with a numeric suffix which does not exist yet.
// The result is truncated to max bytes and the suffix is always kept.
func UniqueName(existing []string, name string, max int) string {
	name = Truncate(name, max)
	if !contains(existing, name, false) {
		return name
	}
	for i := 1; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate := Truncate(name, max-len(suffix)) + suffix
		if max <= 0 {
			candidate = name + suffix
		}
		if !contains(existing, candidate, false) {
			return candidate
		}
	}
}

// UniqueTitle returns the title or the title with a numeric suffix which does not exist yet.
// Titles are compared case-insensitive.
func UniqueTitle(existing []string, title string) string {
	if !contains(existing, title, true) {
		return title
	}
	for i := 1; ; i++ {
		candidate := title + "_" + strconv.Itoa(i)
		if !contains(existing, candidate, true) {
			return candidate
		}
	}
}

// contains helper.
func contains(slice []string, s string, fold bool) bool {
	for _, e := range slice {
		if e == s || (fold && strings.EqualFold(e, s)) {
			return true
		}
	}
	return false
}
