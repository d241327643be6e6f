// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokPositional tokenKind = iota
	tokLong
	tokShort
)

// token is one classified argument. A short cluster yields one token per
// character.
type token struct {
	kind tokenKind
	// raw is the argv text for positionals and long options, and "-c" for
	// a short character.
	raw   string
	name  string // long name
	short rune

	value  string
	inline bool // value came from "=..." or the rest of a cluster

	// free is set for tokens read after "--".
	free bool
}

// tokenizer is a cursor over argv shared by every resolver level of one
// parse.
type tokenizer struct {
	args       []string
	pos        int
	terminated bool
	pending    []token
}

func newTokenizer(args []string) *tokenizer {
	return &tokenizer{args: args}
}

// next returns the next classified token. takesValue reports whether a
// short character names an option (as opposed to a switch or nothing) in
// the caller's effective option set.
func (t *tokenizer) next(takesValue func(rune) bool) (token, bool) {
	if len(t.pending) > 0 {
		tok := t.pending[0]
		t.pending = t.pending[1:]
		return tok, true
	}
	for t.pos < len(t.args) {
		arg := t.args[t.pos]
		t.pos++
		switch {
		case t.terminated:
			return token{kind: tokPositional, raw: arg, free: true}, true
		case arg == "--":
			t.terminated = true
			continue
		case strings.HasPrefix(arg, "--"):
			name, value, inline := strings.Cut(arg[2:], "=")
			return token{kind: tokLong, raw: arg, name: name, value: value, inline: inline}, true
		case len(arg) > 1 && arg[0] == '-':
			t.pending = expandCluster(arg[1:], takesValue)
			return t.next(takesValue)
		default:
			return token{kind: tokPositional, raw: arg}, true
		}
	}
	return token{}, false
}

// expandCluster splits the characters of "-abc" left to right. An option
// character takes the rest of the cluster as its value.
func expandCluster(s string, takesValue func(rune) bool) []token {
	var out []token
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		// Invalid bytes stay RuneError, which no declared arg can use.
		tok := token{kind: tokShort, raw: "-" + s[i:i+size], short: r}
		i += size
		if takesValue(r) && i < len(s) {
			tok.value, tok.inline = s[i:], true
			i = len(s)
		}
		out = append(out, tok)
	}
	return out
}

// takeValue consumes the next raw argument verbatim as an option value,
// even if it looks like an option or a terminator.
func (t *tokenizer) takeValue() (string, bool) {
	if t.pos >= len(t.args) {
		return "", false
	}
	v := t.args[t.pos]
	t.pos++
	return v, true
}

// rest consumes and returns every remaining raw argument.
func (t *tokenizer) rest() []string {
	var out []string
	for _, p := range t.pending {
		out = append(out, p.raw)
	}
	t.pending = nil
	out = append(out, t.args[t.pos:]...)
	t.pos = len(t.args)
	return out
}

// drain discards the remaining input.
func (t *tokenizer) drain() {
	t.pending = nil
	t.pos = len(t.args)
}
