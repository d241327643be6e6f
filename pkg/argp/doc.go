// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argp resolves command-line arguments against a declarative
// command tree and renders help for it.
//
// A Command is plain data: its switches and options, its ordered
// positionals and an optional table of subcommands. It is built once, by
// hand, with FromStruct, or by the schemafile package, and never modified
// while parsing, so one tree can serve many concurrent parses.
//
// Parsing follows these rules:
//   - Short switches combine: -ab is -a -b, and -an5 is -a -n 5 when -n
//     takes a value.
//   - --name=value and --name value are equivalent.
//   - Everything after -- is positional.
//   - Options marked Global are accepted by every subcommand below the
//     command that declares them.
//   - -h, --help and, on commands with subcommands, help print help for the
//     command they appear on, as long as no positional came before them.
//   - Every problem is reported at once rather than the first one only.
//
// # Building a Command
//
//	cmd := &argp.Command{
//	    Name:        "fetch",
//	    Description: "Download a file.",
//	    Options: []*argp.Arg{
//	        {Kind: argp.Switch, Long: "verbose", Short: 'v', Global: true, Description: "Log more"},
//	        {Kind: argp.Option, Long: "retries", Short: 'r', Default: "3", Value: argp.Int()},
//	    },
//	    Positionals: []*argp.Arg{
//	        {Kind: argp.Positional, Long: "url", Cardinality: argp.Required, Value: argp.URL()},
//	    },
//	}
//
// # Parsing
//
//	o := argp.Parse(cmd, os.Args[1:])
//	if o.Kind != argp.OutcomeValue {
//	    r := argp.Reporter{Stdout: os.Stdout, Stderr: os.Stderr, Color: argp.ColorEnabled(os.Stderr)}
//	    os.Exit(r.Report(o))
//	}
//	retries, _ := argp.Lookup[int64](o.Values, "retries")
//
// # Struct Tags
//
// FromStruct and ParseStruct derive the Command from a struct:
//
//	type Flags struct {
//	    Verbose argp.Count `flag:"verbose" short:"v" global:"true" help:"Log more"`
//	    Port    argp.Port  `flag:"port" port:"1024-65535" default:"8080"`
//	    Files   []string   `pos:"0*" help:"Files to serve"`
//	}
//
//	flags, o, err := argp.ParseStruct[Flags]("serve", os.Args[1:])
package argp
