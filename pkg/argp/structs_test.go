// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type serveFlags struct {
	Verbose Count         `flag:"verbose" short:"v" global:"true" help:"Log more"`
	Config  *string       `flag:"config" short:"c" help:"Config file"`
	Listen  Port          `flag:"port" short:"p" port:"1024-65535" default:"8080" help:"Listen port"`
	Timeout time.Duration `flag:"timeout" default:"30s"`
	Tags    []string      `flag:"tag" short:"t" arg:"TAG"`
	Ratio   float32       `flag:"ratio"`
	Level   int8          `flag:"level"`
	Upload  *url.URL      `flag:"upload"`
	Home    url.URL       `flag:"home"`
	ID      uuid.UUID     `flag:"id"`
	Ignored string        `flag:"-"`
	unexp   string

	Run  *runCmd  `cmd:"run" help:"Run a program" aliases:"r" required:"true"`
	Stop *stopCmd `cmd:"stop" help:"Stop it"`
}

type runCmd struct {
	Detach bool     `flag:"detach" short:"d"`
	Image  string   `pos:"0" help:"Image to run"`
	Args   []string `pos:"1*" greedy:"true" arg:"args"`
}

type stopCmd struct {
	Name *string `pos:"0?"`
}

func TestFromStruct(t *testing.T) {
	cmd, err := FromStruct("srv", &serveFlags{})
	if err != nil {
		t.Fatal(err)
	}

	var longs []string
	for _, a := range cmd.Options {
		longs = append(longs, a.Long)
	}
	want := []string{"verbose", "config", "port", "timeout", "tag", "ratio", "level", "upload", "home", "id"}
	if diff := cmp.Diff(want, longs); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	v := cmd.Options[0]
	if v.Kind != Switch || v.Cardinality != Repeated || !v.Global || v.Short != 'v' {
		t.Errorf("verbose = %+v", v)
	}
	if tag := cmd.Options[4]; tag.Kind != Option || tag.Cardinality != Repeated || tag.ArgName != "TAG" {
		t.Errorf("tag = %+v", tag)
	}
	if subs := cmd.Subcommands; subs == nil || !subs.Required || len(subs.Commands) != 2 {
		t.Fatalf("Subcommands = %+v", subs)
	}
	run := cmd.Subcommands.Commands[0]
	if run.Name != "run" || run.Description != "Run a program" || !cmp.Equal(run.Aliases, []string{"r"}) {
		t.Errorf("run = %+v", run)
	}
	if len(run.Positionals) != 2 || run.Positionals[0].Long != "image" || !run.Positionals[1].Greedy {
		t.Errorf("run positionals = %+v", run.Positionals)
	}
	if stop := cmd.Subcommands.Commands[1]; stop.Positionals[0].Cardinality != Optional {
		t.Errorf("stop name cardinality = %v", stop.Positionals[0].Cardinality)
	}
}

func TestFromStructErrors(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		wantErr string
	}{
		{"not a struct", 3, "needs a struct"},
		{"unsupported type", &struct {
			C chan int `flag:"c"`
		}{}, "unsupported field type chan int"},
		{"long short", &struct {
			V bool `short:"vv"`
		}{}, "must be one character"},
		{"bad pos", &struct {
			A string `pos:"x"`
		}{}, `invalid pos tag "x"`},
		{"repeated pos not slice", &struct {
			A string `pos:"0*"`
		}{}, "must be a slice"},
		{"cmd not pointer", &struct {
			S struct{} `cmd:"s"`
		}{}, "pointer to struct"},
		{"schema error", &struct {
			A string `pos:"0?"`
			B string `pos:"1"`
		}{}, "is not last"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromStruct("x", tt.v)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("FromStruct() = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseStruct(t *testing.T) {
	args := []string{
		"-vv", "--config", "c.toml", "-t", "a", "--tag", "b", "--ratio", "0.5",
		"--level", "-3", "--upload", "https://u.example", "--home", "http://h.example",
		"--id", "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"r", "-d", "alpine", "sh", "-c", "echo hi",
	}
	got, o, err := ParseStruct[serveFlags]("srv", args)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatalf("ParseStruct() = nil, outcome %v: %v", o.Kind, o.Err())
	}

	config := "c.toml"
	want := &serveFlags{
		Verbose: 2,
		Config:  &config,
		Listen:  8080,
		Timeout: 30 * time.Second,
		Tags:    []string{"a", "b"},
		Ratio:   0.5,
		Level:   -3,
		Upload:  &url.URL{Scheme: "https", Host: "u.example"},
		Home:    url.URL{Scheme: "http", Host: "h.example"},
		ID:      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Run:     &runCmd{Detach: true, Image: "alpine", Args: []string{"sh", "-c", "echo hi"}},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(serveFlags{})); diff != "" {
		t.Errorf("ParseStruct mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStructOutcomes(t *testing.T) {
	got, o, err := ParseStruct[serveFlags]("srv", []string{"--port", "80", "run", "x"})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil || o.Kind != OutcomeFailed {
		t.Fatalf("got %+v, outcome %v; want failure", got, o.Kind)
	}
	if want := "port must be between 1024-65535, got 80"; o.Errors[0].Msg != want {
		t.Errorf("Msg = %q, want %q", o.Errors[0].Msg, want)
	}

	_, o, _ = ParseStruct[serveFlags]("srv", []string{"stop", "--help"})
	if o.Kind != OutcomeHelp || !strings.HasPrefix(o.Help, "Usage: srv stop [-v] [<name>]") {
		t.Errorf("help outcome %v: %q", o.Kind, o.Help)
	}

	got, o, _ = ParseStruct[serveFlags]("srv", []string{"stop", "-v", "web"})
	if got == nil {
		t.Fatalf("stop failed: %v", o.Err())
	}
	if got.Stop == nil || got.Stop.Name == nil || *got.Stop.Name != "web" || got.Run != nil || got.Verbose != 1 {
		t.Errorf("stop = %+v, verbose %d", got.Stop, got.Verbose)
	}
}

func TestDecodeErrors(t *testing.T) {
	cmd, err := FromStruct("srv", serveFlags{})
	if err != nil {
		t.Fatal(err)
	}
	o := Parse(cmd, []string{"stop"})
	if err := Decode(o.Values, serveFlags{}); err == nil {
		t.Error("Decode into a non-pointer succeeded")
	}
	var dst struct {
		Verbose string `flag:"verbose"`
	}
	o = Parse(cmd, []string{"-v", "stop"})
	if err := Decode(o.Values, &dst); err == nil || !strings.Contains(err.Error(), "cannot store") {
		t.Errorf("Decode type mismatch = %v", err)
	}
}
