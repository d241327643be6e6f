// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"maps"
	"slices"

	"tailscale.com/util/set"
)

// Values holds the resolved arguments of one command level, keyed by Arg ID.
//
// Singular switches are bool and repeated switches an int count. Singular
// options and positionals hold their converted value, repeated ones a []any
// in argv order. Args that were neither given nor defaulted are absent.
type Values struct {
	// Command is the name of the command this level resolved.
	Command string
	// Path is the command path from the root, including Command.
	Path []string
	// Sub holds the chosen subcommand, or nil.
	Sub *Values

	vals map[string]any
	seen set.Set[string]
}

// Has reports whether id has a value, given or defaulted.
func (v *Values) Has(id string) bool {
	_, ok := v.vals[id]
	return ok
}

// Seen reports whether id appeared in argv.
func (v *Values) Seen(id string) bool {
	return v.seen.Contains(id)
}

// Get returns the raw stored value of id.
func (v *Values) Get(id string) (any, bool) {
	x, ok := v.vals[id]
	return x, ok
}

// Bool returns the value of a switch, or false.
func (v *Values) Bool(id string) bool {
	switch x := v.vals[id].(type) {
	case bool:
		return x
	case int:
		return x > 0
	}
	return false
}

// Count returns how many times a repeated switch was given. For a singular
// switch it is 0 or 1.
func (v *Values) Count(id string) int {
	switch x := v.vals[id].(type) {
	case int:
		return x
	case bool:
		if x {
			return 1
		}
	}
	return 0
}

// String returns the value of id as text, or "".
func (v *Values) String(id string) string {
	x, ok := v.vals[id]
	if !ok {
		return ""
	}
	return formatValue(x)
}

// Strings returns every value of id as text. A singular value
// yields a one element slice.
func (v *Values) Strings(id string) []string {
	x, ok := v.vals[id]
	if !ok {
		return nil
	}
	list, ok := x.([]any)
	if !ok {
		return []string{formatValue(x)}
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = formatValue(e)
	}
	return out
}

// IDs returns the IDs that have values, sorted.
func (v *Values) IDs() []string {
	return slices.Sorted(maps.Keys(v.vals))
}

// Leaf returns the deepest chosen subcommand's Values.
func (v *Values) Leaf() *Values {
	for v.Sub != nil {
		v = v.Sub
	}
	return v
}

// Lookup returns the value of id as a T.
func Lookup[T any](v *Values, id string) (T, bool) {
	t, ok := v.vals[id].(T)
	return t, ok
}

// All returns the values of a repeated id as []T. Elements that are not a
// T are skipped.
func All[T any](v *Values, id string) []T {
	var out []T
	switch x := v.vals[id].(type) {
	case []any:
		for _, e := range x {
			if t, ok := e.(T); ok {
				out = append(out, t)
			}
		}
	case T:
		out = append(out, x)
	}
	return out
}
