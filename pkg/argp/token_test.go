// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// nTakesValue treats -n as an option and everything else as a switch.
func nTakesValue(r rune) bool { return r == 'n' }

func collect(t *tokenizer) []token {
	var out []token
	for {
		tok, ok := t.next(nTakesValue)
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []token
	}{
		{
			name: "combined switches",
			args: []string{"-ab"},
			want: []token{
				{kind: tokShort, raw: "-a", short: 'a'},
				{kind: tokShort, raw: "-b", short: 'b'},
			},
		},
		{
			name: "option takes rest of cluster",
			args: []string{"-an5x"},
			want: []token{
				{kind: tokShort, raw: "-a", short: 'a'},
				{kind: tokShort, raw: "-n", short: 'n', value: "5x", inline: true},
			},
		},
		{
			name: "invalid byte in cluster",
			args: []string{"-a\xffb"},
			want: []token{
				{kind: tokShort, raw: "-a", short: 'a'},
				{kind: tokShort, raw: "-\xff", short: utf8.RuneError},
				{kind: tokShort, raw: "-b", short: 'b'},
			},
		},
		{
			name: "option at end of cluster",
			args: []string{"-an", "5"},
			want: []token{
				{kind: tokShort, raw: "-a", short: 'a'},
				{kind: tokShort, raw: "-n", short: 'n'},
				{kind: tokPositional, raw: "5"},
			},
		},
		{
			name: "long with inline value",
			args: []string{"--name=a=b", "--flag"},
			want: []token{
				{kind: tokLong, raw: "--name=a=b", name: "name", value: "a=b", inline: true},
				{kind: tokLong, raw: "--flag", name: "flag"},
			},
		},
		{
			name: "long with empty inline value",
			args: []string{"--name="},
			want: []token{
				{kind: tokLong, raw: "--name=", name: "name", inline: true},
			},
		},
		{
			name: "terminator",
			args: []string{"x", "--", "-a", "--b", "--"},
			want: []token{
				{kind: tokPositional, raw: "x"},
				{kind: tokPositional, raw: "-a", free: true},
				{kind: tokPositional, raw: "--b", free: true},
				{kind: tokPositional, raw: "--", free: true},
			},
		},
		{
			name: "lone dash",
			args: []string{"-"},
			want: []token{{kind: tokPositional, raw: "-"}},
		},
		{
			name: "multibyte short",
			args: []string{"-äb"},
			want: []token{
				{kind: tokShort, raw: "-ä", short: 'ä'},
				{kind: tokShort, raw: "-b", short: 'b'},
			},
		},
		{
			name: "empty",
			args: nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(newTokenizer(tt.args))
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(token{})); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizerTakeValue(t *testing.T) {
	tz := newTokenizer([]string{"-n", "--", "rest"})
	tok, ok := tz.next(nTakesValue)
	if !ok || tok.short != 'n' || tok.inline {
		t.Fatalf("first token = %+v, %v", tok, ok)
	}
	v, ok := tz.takeValue()
	if !ok || v != "--" {
		t.Fatalf("takeValue() = %q, %v; want %q, true", v, ok, "--")
	}
	tok, ok = tz.next(nTakesValue)
	if !ok || tok.kind != tokPositional || tok.raw != "rest" || tok.free {
		t.Errorf("after value = %+v, %v", tok, ok)
	}
	if _, ok := tz.takeValue(); ok {
		t.Error("takeValue() at end returned ok")
	}
}

func TestTokenizerRest(t *testing.T) {
	tz := newTokenizer([]string{"a", "-b", "--", "c"})
	if tok, _ := tz.next(nTakesValue); tok.raw != "a" {
		t.Fatalf("first = %q", tok.raw)
	}
	want := []string{"-b", "--", "c"}
	if diff := cmp.Diff(want, tz.rest()); diff != "" {
		t.Errorf("rest() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := tz.next(nTakesValue); ok {
		t.Error("next() after rest() returned a token")
	}
}
