// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

func TestConverters(t *testing.T) {
	const sha = "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	tests := []struct {
		name    string
		conv    Converter
		raw     string
		want    any
		wantErr string
	}{
		{"string", String(), "hello", "hello", ""},
		{"int", Int(), "-42", int64(-42), ""},
		{"int syntax", Int(), "4x", nil, `invalid int value "4x": invalid syntax`},
		{"int range", Int(), "99999999999999999999", nil, "value out of range"},
		{"small int range", intN(8), "200", nil, "value out of range"},
		{"uint", Uint(), "42", uint64(42), ""},
		{"uint negative", Uint(), "-1", nil, `invalid uint value "-1"`},
		{"float", Float(), "0.95", 0.95, ""},
		{"float bad", Float(), "x", nil, `invalid float value "x"`},
		{"bool", Bool(), "true", true, ""},
		{"bool bad", Bool(), "yes", nil, `invalid bool value "yes"`},
		{"duration", Duration(), "1m30s", 90 * time.Second, ""},
		{"duration bad", Duration(), "soon", nil, `invalid duration "soon"`},
		{"url", URL(), "https://example.com/x", &url.URL{Scheme: "https", Host: "example.com", Path: "/x"}, ""},
		{"url bad", URL(), "http://[::1", nil, `invalid URL "http://[::1"`},
		{"port", PortValue(""), "8080", Port(8080), ""},
		{"port range ok", PortValue("1000-2000"), "1500", Port(1500), ""},
		{"port out of range", PortValue("1000-2000"), "80", nil, "port must be between 1000-2000, got 80"},
		{"port overflow", PortValue(""), "70000", nil, `port must be between 0 and 65535, got "70000"`},
		{"port overflow range", PortValue("1-10"), "70000", nil, `port must be between 1-10, got "70000"`},
		{"port bad", PortValue(""), "http", nil, `invalid port value "http"`},
		{"port bad range", PortValue("10"), "5", nil, `invalid port range format "10"`},
		{"port inverted range", PortValue("20-10"), "15", nil, "min (20) > max (10)"},
		{"path", Path(), "/tmp/\xff", "/tmp/\xff", ""},
		{"path empty", Path(), "", nil, "empty path"},
		{"one of", OneOf("json", "text"), "text", "text", ""},
		{"one of bad", OneOf("json", "text"), "xml", nil, "must be one of json, text"},
		{"semver", Semver(), "v1.2.3", semver.MustParse("1.2.3"), ""},
		{"semver bad", Semver(), "one", nil, `invalid version "one"`},
		{"uuid", UUID(), "6ba7b810-9dad-11d1-80b4-00c04fd430c8", uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), ""},
		{"uuid bad", UUID(), "nope", nil, `invalid UUID "nope"`},
		{"digest", Digest(), sha, digest.Digest(sha), ""},
		{"digest bad", Digest(), "sha256:abc", nil, `invalid digest "sha256:abc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.conv.Convert(tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Convert(%q) error = %v, want containing %q", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert(%q) error = %v", tt.raw, err)
			}
			if v, ok := got.(*semver.Version); ok {
				if !v.Equal(tt.want.(*semver.Version)) {
					t.Errorf("Convert(%q) = %v, want %v", tt.raw, v, tt.want)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Convert(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSemverConstraint(t *testing.T) {
	got, err := SemverConstraint().Convert(">= 1.2, < 2")
	if err != nil {
		t.Fatal(err)
	}
	c := got.(*semver.Constraints)
	if !c.Check(semver.MustParse("1.5.0")) || c.Check(semver.MustParse("2.0.0")) {
		t.Errorf("constraint %v matched wrongly", c)
	}
	if _, err := SemverConstraint().Convert("abc"); err == nil {
		t.Error("bad constraint accepted")
	}
}

func TestTextAndRawFunc(t *testing.T) {
	var called bool
	text := TextFunc(func(s string) (any, error) {
		called = true
		return len(s), nil
	})
	if _, err := text.Convert("a\xffb"); !errors.Is(err, ErrNotUTF8) {
		t.Errorf("TextFunc on invalid UTF-8: err = %v, want ErrNotUTF8", err)
	}
	if called {
		t.Error("TextFunc called f with invalid UTF-8")
	}
	if got, err := text.Convert("héllo"); err != nil || got != 6 {
		t.Errorf("TextFunc = %v, %v; want 6 bytes", got, err)
	}

	raw := RawFunc(func(b []byte) (any, error) { return b, nil })
	got, err := raw.Convert("a\xffb")
	if err != nil || !reflect.DeepEqual(got, []byte("a\xffb")) {
		t.Errorf("RawFunc = %v, %v; want bytes passed through", got, err)
	}
}

func TestInvalidUTF8Value(t *testing.T) {
	cmd := &Command{
		Name: "prog",
		Options: []*Arg{
			{Kind: Option, Long: "name"},
			{Kind: Option, Long: "path", Value: Path()},
		},
	}
	o := Parse(cmd, []string{"--name", "\xff", "--path", "\xff"})
	mustFail(t, o, InvalidValue)
	if e := o.Errors[0]; e.Arg != "--name" || !errors.Is(e, ErrNotUTF8) {
		t.Errorf("error = %+v, want --name not UTF-8", e)
	}
	v := mustValue(t, Parse(cmd, []string{"--path", "\xff"}))
	if v.String("path") != "\xff" {
		t.Errorf("path = %q, want the raw bytes", v.String("path"))
	}
}
