// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argpcheck resolves an argument vector against a schema file and
// prints what it resolved to, or the help and errors a program using that
// schema would print.
//
//	argpcheck deploy.toml -- -v push --format json alpine
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/yeetrun/argp/pkg/argp"
	"github.com/yeetrun/argp/pkg/argp/schemafile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

var self = &argp.Command{
	Name:        "argpcheck",
	Description: "Resolve ARGS against the command tree in SCHEMA and print the result.",
	Footer:      "Put -- before ARGS when they start with a dash. Schema files may be TOML or YAML, optionally zstd or gzip compressed.",
	Options: []*argp.Arg{
		{Kind: argp.Switch, Long: "verbose", Short: 'v', Description: "Log what is being checked."},
		{Kind: argp.Option, Long: "width", ArgName: "COLUMNS", Value: argp.Int(), Description: "Wrap help at this width instead of the terminal's."},
		{Kind: argp.Option, Long: "color", ArgName: "WHEN", Default: "auto", Value: argp.OneOf("auto", "always", "never"), Description: "Colour error output: auto, always or never."},
		{Kind: argp.Switch, Long: "json", Description: "Print resolved values as JSON."},
	},
	Positionals: []*argp.Arg{
		{Kind: argp.Positional, Long: "schema", ArgName: "SCHEMA", Cardinality: argp.Required, Value: argp.Path(), Description: "Schema file."},
		{Kind: argp.Positional, Long: "args", Cardinality: argp.Repeated, Greedy: true, Description: "Arguments to resolve."},
	},
}

func run(args []string, stdout, stderr io.Writer) int {
	o := argp.Parse(self, args)
	if o.Kind != argp.OutcomeValue {
		return (&argp.Reporter{Stdout: stdout, Stderr: stderr, Color: colorFor("auto", stderr)}).Report(o)
	}
	opts := o.Values

	logger := log.New(io.Discard, "argpcheck: ", 0)
	if opts.Bool("verbose") {
		logger.SetOutput(stderr)
	}

	path := opts.String("schema")
	cmd, err := schemafile.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "argpcheck: %v\n", err)
		return 1
	}
	logger.Printf("loaded %s: command %q", path, cmd.Name)

	p := &argp.Parser{}
	if w, ok := argp.Lookup[int64](opts, "width"); ok {
		p.Width = int(w)
	}
	target := opts.Strings("args")
	logger.Printf("resolving %q", target)

	res := p.Parse(cmd, target)
	logger.Printf("outcome %v at %s", res.Kind, strings.Join(res.Path, " "))
	if res.Kind != argp.OutcomeValue {
		r := &argp.Reporter{Stdout: stdout, Stderr: stderr, Color: colorFor(opts.String("color"), stderr)}
		return r.Report(res)
	}

	if opts.Bool("json") {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(jsonValues(res.Values)); err != nil {
			fmt.Fprintf(stderr, "argpcheck: %v\n", err)
			return 1
		}
		return 0
	}
	printValues(stdout, res.Values)
	return 0
}

func colorFor(when string, w io.Writer) bool {
	switch when {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && argp.ColorEnabled(f)
}

// printValues writes one block per command level:
//
//	deploy
//	  port = 8080 (default)
//	  verbose = 2
func printValues(w io.Writer, v *argp.Values) {
	for lv := v; lv != nil; lv = lv.Sub {
		fmt.Fprintln(w, strings.Join(lv.Path, " "))
		for _, id := range lv.IDs() {
			fmt.Fprintf(w, "  %s = %s", id, display(lv, id))
			if !lv.Seen(id) {
				fmt.Fprint(w, " (default)")
			}
			fmt.Fprintln(w)
		}
	}
}

func display(v *argp.Values, id string) string {
	if x, _ := v.Get(id); isList(x) {
		return "[" + strings.Join(v.Strings(id), " ") + "]"
	}
	return v.String(id)
}

func isList(x any) bool {
	_, ok := x.([]any)
	return ok
}

type jsonLevel struct {
	Command string         `json:"command"`
	Path    []string       `json:"path"`
	Values  map[string]any `json:"values"`
	Sub     *jsonLevel     `json:"subcommand,omitempty"`
}

// jsonValues renders typed values by their text so every converter's output
// encodes the same way.
func jsonValues(v *argp.Values) *jsonLevel {
	if v == nil {
		return nil
	}
	l := &jsonLevel{Command: v.Command, Path: v.Path, Values: map[string]any{}}
	for _, id := range v.IDs() {
		x, _ := v.Get(id)
		switch x := x.(type) {
		case bool, int:
			l.Values[id] = x
		default:
			if isList(x) {
				l.Values[id] = v.Strings(id)
			} else {
				l.Values[id] = v.String(id)
			}
		}
	}
	l.Sub = jsonValues(v.Sub)
	return l
}
