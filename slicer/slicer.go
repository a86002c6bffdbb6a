// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slicer

// StringExists checks if the given string exists in the string slice.
// If it exists, the position and a boolean `true` will return
func StringExists(slice []string, search string) (int, bool) {
	for i, s := range slice {
		if s == search {
			return i, true
		}
	}
	return 0, false
}

// StringUnique will unique all strings in the given slice.
func StringUnique(slice []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

// StringDuplicates returns every string which exists more than once, in order of the second occurrence.
func StringDuplicates(slice []string) []string {
	keys := make(map[string]int)
	var list []string
	for _, entry := range slice {
		keys[entry]++
		if keys[entry] == 2 {
			list = append(list, entry)
		}
	}
	return list
}

// StringDiff returns all strings of a which do not exist in b.
func StringDiff(a []string, b []string) []string {
	var list []string
	for _, entry := range a {
		if _, exists := StringExists(b, entry); !exists {
			list = append(list, entry)
		}
	}
	return list
}
