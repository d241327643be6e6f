// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is matched by the error of an Outcome whose help was requested
// with -h, --help or the help subcommand.
var ErrHelp = errors.New("help requested")

// HelpError carries rendered help text. It is not a failure: callers print
// Text to stdout and exit successfully.
type HelpError struct {
	Path []string
	Text string
}

func (e *HelpError) Error() string { return ErrHelp.Error() }

func (e *HelpError) Is(target error) bool { return target == ErrHelp }

// ErrorKind classifies an ArgError.
type ErrorKind int

const (
	UnrecognizedArgument ErrorKind = iota + 1
	MissingValue
	DuplicateArgument
	InvalidValue
	MissingRequiredArguments
	UnknownSubcommand
	UnexpectedArgument
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedArgument:
		return "UnrecognizedArgument"
	case MissingValue:
		return "MissingValue"
	case DuplicateArgument:
		return "DuplicateArgument"
	case InvalidValue:
		return "InvalidValue"
	case MissingRequiredArguments:
		return "MissingRequiredArguments"
	case UnknownSubcommand:
		return "UnknownSubcommand"
	case UnexpectedArgument:
		return "UnexpectedArgument"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ArgError is one problem found while resolving an argument vector.
type ArgError struct {
	Kind ErrorKind
	// Arg is the argument as the user wrote it (--name, -n) or, for
	// positionals and subcommands, the token or declared name.
	Arg string
	// Value is the raw value for InvalidValue.
	Value string
	// Msg is the converter's message for InvalidValue.
	Msg string
	// Suggestion is a close subcommand name for UnknownSubcommand.
	Suggestion string
	// Missing lists what was absent for MissingRequiredArguments.
	Missing *Missing

	// Err is the underlying converter error, if any.
	Err error
}

func (e *ArgError) Error() string {
	switch e.Kind {
	case UnrecognizedArgument:
		return fmt.Sprintf("Unrecognized argument: %s", e.Arg)
	case MissingValue:
		return fmt.Sprintf("No value provided for option '%s'.", e.Arg)
	case DuplicateArgument:
		return fmt.Sprintf("Duplicate value provided for '%s'.", e.Arg)
	case InvalidValue:
		return fmt.Sprintf("Error parsing argument '%s' with value '%s': %s", e.Arg, e.Value, e.Msg)
	case MissingRequiredArguments:
		if e.Missing == nil {
			return "Required arguments not provided."
		}
		return e.Missing.String()
	case UnknownSubcommand:
		if e.Suggestion != "" {
			return fmt.Sprintf("Unknown subcommand: %s (did you mean %q?)", e.Arg, e.Suggestion)
		}
		return fmt.Sprintf("Unknown subcommand: %s", e.Arg)
	case UnexpectedArgument:
		return fmt.Sprintf("Unexpected argument: %s", e.Arg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Arg)
}

func (e *ArgError) Unwrap() error { return e.Err }

// Missing aggregates the required arguments absent at one command level.
type Missing struct {
	Positionals []string
	Options     []string
	// Subcommands is non-nil when a required subcommand was not chosen.
	Subcommands []string
}

func (m *Missing) empty() bool {
	return len(m.Positionals) == 0 && len(m.Options) == 0 && m.Subcommands == nil
}

// Names returns every missing positional and option name in report order.
func (m *Missing) Names() []string {
	out := make([]string, 0, len(m.Positionals)+len(m.Options))
	out = append(out, m.Positionals...)
	return append(out, m.Options...)
}

const missingIndent = "\n    "

func (m *Missing) String() string {
	var b strings.Builder
	block := func(title string, items []string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(title)
		for _, item := range items {
			b.WriteString(missingIndent)
			b.WriteString(item)
		}
	}
	if len(m.Positionals) > 0 {
		block("Required positional arguments not provided:", m.Positionals)
	}
	if len(m.Options) > 0 {
		block("Required options not provided:", m.Options)
	}
	if m.Subcommands != nil {
		block("One of the following subcommands must be present:", append([]string{helpCommand}, m.Subcommands...))
	}
	return b.String()
}

// ParseErrors is the ordered list of problems of a failed parse.
type ParseErrors []*ArgError

func (pe ParseErrors) Error() string {
	msgs := make([]string, len(pe))
	for i, e := range pe {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (pe ParseErrors) Unwrap() []error {
	errs := make([]error, len(pe))
	for i, e := range pe {
		errs[i] = e
	}
	return errs
}

// Has reports whether any error is of kind k.
func (pe ParseErrors) Has(k ErrorKind) bool {
	for _, e := range pe {
		if e.Kind == k {
			return true
		}
	}
	return false
}
