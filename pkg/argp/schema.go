// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the syntactic role of an Arg.
type Kind int

const (
	// Switch is a zero-argument flag such as -v or --verbose.
	Switch Kind = iota
	// Option is a flag that takes exactly one value per occurrence.
	Option
	// Positional is matched by position rather than by name.
	Positional
)

func (k Kind) String() string {
	switch k {
	case Switch:
		return "switch"
	case Option:
		return "option"
	case Positional:
		return "positional"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Cardinality says how many times an Arg may or must appear.
type Cardinality int

const (
	// Optional args may be omitted. An omitted optional arg takes its
	// Default, if any.
	Optional Cardinality = iota
	// Required args must appear at least once.
	Required
	// Repeated args may appear any number of times. Repeated switches are
	// counted, repeated options and positionals collect every value.
	Repeated
)

func (c Cardinality) String() string {
	switch c {
	case Optional:
		return "optional"
	case Required:
		return "required"
	case Repeated:
		return "repeated"
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}

// Arg describes one switch, option or positional argument.
type Arg struct {
	Kind Kind

	// Long is the long name without leading dashes. For positionals it is
	// the argument name.
	Long string
	// Short is the single-character name, or zero for none.
	Short rune

	// ID keys the arg in Values. Defaults to Long, then to Short.
	ID string

	Cardinality Cardinality
	// Default is the raw value used when an Optional arg is not given.
	// It goes through Value like any other raw value.
	Default string

	// Global makes the switch or option matchable inside every
	// descendant subcommand.
	Global bool

	// ArgName is the value placeholder in help. Defaults to Long, or to
	// the arg's ID for short-only options.
	ArgName     string
	Description string

	// Hidden args are matched but left out of usage and help.
	Hidden bool
	// Greedy applies to a Repeated last positional: after it absorbs its
	// first value every following token is positional.
	Greedy bool

	// Value converts raw values. Nil means String().
	Value Converter
}

func (a *Arg) id() string {
	switch {
	case a.ID != "":
		return a.ID
	case a.Long != "":
		return a.Long
	}
	return string(a.Short)
}

func (a *Arg) argName() string {
	if a.ArgName != "" {
		return a.ArgName
	}
	return a.id()
}

func (a *Arg) converter() Converter {
	if a.Value != nil {
		return a.Value
	}
	return String()
}

func (a *Arg) repeated() bool { return a.Cardinality == Repeated }

func (a *Arg) required() bool { return a.Cardinality == Required && a.Default == "" }

// hasDefault reports whether the arg is filled from Default when unseen.
func (a *Arg) hasDefault() bool { return a.Default != "" }

// flagName is the spelling used in messages: --long if it exists, else -s.
func (a *Arg) flagName() string {
	if a.Kind == Positional {
		return a.Long
	}
	if a.Long != "" {
		return "--" + a.Long
	}
	return "-" + string(a.Short)
}

// Subcommands is a dispatch table of mutually exclusive named variants.
type Subcommands struct {
	// Required means one of Commands must be chosen.
	Required bool
	Commands []*Command
}

// Command describes one level of a command tree. It is built once and never
// mutated by the parser, so it may be shared between concurrent parses.
type Command struct {
	Name    string
	Aliases []string

	// Description and Footer may contain {command_name}, which is
	// replaced with the command path when help is rendered.
	Description string
	Footer      string

	// Options holds switches and options in help order.
	Options []*Arg
	// Positionals holds positional arguments in match order.
	Positionals []*Arg

	Subcommands *Subcommands
}

// lookup returns the subcommand named name, matching aliases too.
func (c *Command) lookup(name string) *Command {
	if c.Subcommands == nil {
		return nil
	}
	for _, sub := range c.Subcommands.Commands {
		if sub.Name == name {
			return sub
		}
	}
	for _, sub := range c.Subcommands.Commands {
		for _, alias := range sub.Aliases {
			if alias == name {
				return sub
			}
		}
	}
	return nil
}

func (c *Command) subcommandNames() []string {
	if c.Subcommands == nil {
		return nil
	}
	names := make([]string, 0, len(c.Subcommands.Commands))
	for _, sub := range c.Subcommands.Commands {
		names = append(names, sub.Name)
	}
	return names
}

func (c *Command) longOption(name string) *Arg {
	for _, a := range c.Options {
		if a.Long != "" && a.Long == name {
			return a
		}
	}
	return nil
}

func (c *Command) shortOption(r rune) *Arg {
	for _, a := range c.Options {
		if a.Short != 0 && a.Short == r {
			return a
		}
	}
	return nil
}

// SchemaError reports a malformed Command tree.
type SchemaError struct {
	Path []string
	Msg  string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("argp: invalid command %q: %s", strings.Join(e.Path, " "), e.Msg)
}

// Validate checks c and all of its subcommands for structural mistakes:
// duplicate names, misplaced optional positionals, required switches and
// malformed names.
func (c *Command) Validate() error {
	return c.validate(nil)
}

func (c *Command) validate(parent []string) error {
	path := append(append([]string{}, parent...), c.Name)
	fail := func(format string, args ...any) error {
		return &SchemaError{Path: path, Msg: fmt.Sprintf(format, args...)}
	}
	if c.Name == "" {
		return fail("missing name")
	}

	longs := make(map[string]bool)
	shorts := make(map[rune]bool)
	ids := make(map[string]bool)
	for _, a := range c.Options {
		if a.Kind == Positional {
			return fail("positional %q listed in Options", a.Long)
		}
		if a.Long == "" && a.Short == 0 {
			return fail("%s without a name", a.Kind)
		}
		if a.Long != "" {
			if !validLongName(a.Long) {
				return fail("invalid long name %q", a.Long)
			}
			if longs[a.Long] {
				return fail("duplicate long name --%s", a.Long)
			}
			longs[a.Long] = true
		}
		if a.Short != 0 {
			if a.Short == '-' || a.Short == utf8.RuneError || unicode.IsSpace(a.Short) {
				return fail("invalid short name %q", a.Short)
			}
			if shorts[a.Short] {
				return fail("duplicate short name -%c", a.Short)
			}
			shorts[a.Short] = true
		}
		if a.Kind == Switch && a.Cardinality == Required {
			return fail("switch %s cannot be required", a.flagName())
		}
		if a.Kind == Switch && a.Default != "" {
			return fail("switch %s cannot have a default", a.flagName())
		}
		if a.Greedy {
			return fail("%s cannot be greedy", a.flagName())
		}
		if a.repeated() && a.Default != "" {
			return fail("repeated %s cannot have a default", a.flagName())
		}
		id := a.id()
		if ids[id] {
			return fail("duplicate field id %q", id)
		}
		ids[id] = true
	}

	for i, a := range c.Positionals {
		if a.Kind != Positional {
			return fail("%s %q listed in Positionals", a.Kind, a.Long)
		}
		if a.Long == "" {
			return fail("positional %d without a name", i)
		}
		if a.Global {
			return fail("positional %q cannot be global", a.Long)
		}
		last := i == len(c.Positionals)-1
		if !last && (a.Cardinality != Required || a.Default != "") {
			return fail("only the last positional may be optional, repeated or defaulted; %q is not last", a.Long)
		}
		if a.repeated() && a.Default != "" {
			return fail("repeated %q cannot have a default", a.Long)
		}
		if a.Greedy && a.Cardinality != Repeated {
			return fail("greedy positional %q must be repeated", a.Long)
		}
		if ids[a.id()] {
			return fail("duplicate field id %q", a.id())
		}
		ids[a.id()] = true
	}

	if c.Subcommands != nil {
		names := make(map[string]bool)
		for _, sub := range c.Subcommands.Commands {
			for _, n := range append([]string{sub.Name}, sub.Aliases...) {
				if names[n] {
					return fail("duplicate subcommand name %q", n)
				}
				names[n] = true
			}
			if err := sub.validate(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func validLongName(s string) bool {
	if strings.HasPrefix(s, "-") {
		return false
	}
	for _, r := range s {
		if r == '=' || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
