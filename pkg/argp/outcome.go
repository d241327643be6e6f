// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	// OutcomeValue means the arguments resolved; Values is set.
	OutcomeValue OutcomeKind = iota
	// OutcomeHelp means help was requested; Help is set.
	OutcomeHelp
	// OutcomeFailed means resolution failed; Usage and Errors are set.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeValue:
		return "value"
	case OutcomeHelp:
		return "help"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the result of one Parse.
type Outcome struct {
	Kind OutcomeKind
	// Path is the command path of the deepest level reached.
	Path []string

	Values *Values
	Help   string
	Usage  string
	Errors []*ArgError
}

// Err returns nil for OutcomeValue, a *HelpError for OutcomeHelp and
// ParseErrors for OutcomeFailed.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeHelp:
		return &HelpError{Path: o.Path, Text: o.Help}
	case OutcomeFailed:
		return ParseErrors(o.Errors)
	}
	return nil
}

// Reporter writes an Outcome the way a command line program should and
// picks its exit code.
type Reporter struct {
	Stdout io.Writer
	Stderr io.Writer
	// Color highlights error lines.
	Color bool
}

// Report prints help to Stdout and returns 0, or prints the usage line,
// every error and a hint to Stderr and returns 1. A value outcome prints
// nothing and returns 0.
func (r *Reporter) Report(o Outcome) int {
	switch o.Kind {
	case OutcomeHelp:
		fmt.Fprint(r.Stdout, o.Help)
		return 0
	case OutcomeFailed:
		red := color.New(color.FgRed)
		if r.Color {
			red.EnableColor()
		} else {
			red.DisableColor()
		}
		fmt.Fprintln(r.Stderr, o.Usage)
		for _, e := range o.Errors {
			msg := strings.ReplaceAll(e.Error(), "\n", "\n       ")
			fmt.Fprintln(r.Stderr, red.Sprint("error: ")+msg)
		}
		fmt.Fprintf(r.Stderr, "Run '%s --help' for more information.\n", strings.Join(o.Path, " "))
		return 1
	}
	return 0
}

// Mockable for tests.
var isTerminalFn = term.IsTerminal

// ColorEnabled reports whether f should get coloured output: f is a
// terminal, NO_COLOR is unset and TERM is not dumb.
func ColorEnabled(f *os.File) bool {
	if getenv("NO_COLOR") != "" {
		return false
	}
	if t := getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return isTerminalFn(int(f.Fd()))
}
