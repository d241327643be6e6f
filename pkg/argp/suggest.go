// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"slices"
	"strings"
)

// closestMatch returns the name a mistyped s most likely meant, or "".
// Case is ignored.
func closestMatch(s string, names []string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	if i := slices.IndexFunc(names, func(n string) bool {
		return strings.HasPrefix(strings.ToLower(n), s)
	}); i >= 0 {
		return names[i]
	}

	best, limit := "", max(2, len(s)/3)
	for _, n := range names {
		ln := strings.ToLower(n)
		if swapped(s, ln) {
			return n
		}
		if d := editDistance(s, ln); d <= limit {
			best, limit = n, d-1
		}
	}
	return best
}

// swapped reports whether b is a with one pair of neighbouring bytes
// exchanged.
func swapped(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i+1 < len(a); i++ {
		if a[i] != b[i] {
			return a[i] == b[i+1] && a[i+1] == b[i] && a[i+2:] == b[i+2:]
		}
	}
	return false
}

// editDistance is the Levenshtein distance between a and b in bytes.
func editDistance(a, b string) int {
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			diag, row[j] = row[j], min(row[j]+1, row[j-1]+1, diag+cost)
		}
	}
	return row[len(b)]
}
