// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

const (
	helpCommand = "help"
	helpLong    = "help"
	helpShort   = 'h'
)

// Parser resolves argument vectors against a Command tree. The zero value
// is ready to use and a Parser may be shared between goroutines.
type Parser struct {
	// Width is the help text width in columns. Zero means the width of
	// the terminal on stdout, then $COLUMNS, then 80.
	Width int
}

// Parse resolves args (without the program name) against cmd using a zero
// Parser.
func Parse(cmd *Command, args []string) Outcome {
	var p Parser
	return p.Parse(cmd, args)
}

// Parse resolves args (without the program name) against cmd.
//
// The returned Outcome is one of: the resolved Values, rendered help for the
// command path on which -h, --help or help was given, or every error found.
// cmd is only read, never modified.
func (p *Parser) Parse(cmd *Command, args []string) Outcome {
	r := &resolver{tok: newTokenizer(args)}
	root := newParseState(cmd, nil)
	res := r.resolve(root)

	switch {
	case res.help != nil:
		return Outcome{
			Kind: OutcomeHelp,
			Path: res.help.path,
			Help: p.render(res.help),
		}
	case len(res.errs) > 0:
		return Outcome{
			Kind:   OutcomeFailed,
			Path:   res.leaf.path,
			Usage:  usageLine(res.leaf.cmd, res.leaf.path, res.leaf.inheritedGlobals()),
			Errors: res.errs,
		}
	}
	return Outcome{
		Kind:   OutcomeValue,
		Path:   res.leaf.path,
		Values: res.values,
	}
}

type resolver struct {
	tok *tokenizer
}

// parseState is the resolver state of one command level.
type parseState struct {
	cmd    *Command
	parent *parseState
	path   []string

	vals map[string]any
	seen set.Set[string]

	// slot is the index of the positional that receives the next value
	// and npos counts positional values taken so far.
	slot int
	npos int

	errs []*ArgError

	chose      bool // a subcommand was matched
	unknownSub bool
}

func newParseState(cmd *Command, parent *parseState) *parseState {
	st := &parseState{
		cmd:    cmd,
		parent: parent,
		seen:   make(set.Set[string]),
	}
	if parent != nil {
		st.path = append(append([]string{}, parent.path...), cmd.Name)
	} else {
		st.path = []string{cmd.Name}
	}
	return st
}

// levelResult is what one level, together with everything below it,
// resolved to.
type levelResult struct {
	help   *parseState // level that requested help
	leaf   *parseState // deepest level reached
	values *Values
	errs   []*ArgError
}

func (st *parseState) fail(e *ArgError) {
	st.errs = append(st.errs, e)
}

// long finds --name in the effective option set of st, returning the
// declaring level too. The nearest declaration wins.
func (st *parseState) long(name string) (*Arg, *parseState) {
	if a := st.cmd.longOption(name); a != nil {
		return a, st
	}
	for p := st.parent; p != nil; p = p.parent {
		if a := p.cmd.longOption(name); a != nil && a.Global {
			return a, p
		}
	}
	return nil, nil
}

func (st *parseState) short(r rune) (*Arg, *parseState) {
	if a := st.cmd.shortOption(r); a != nil {
		return a, st
	}
	for p := st.parent; p != nil; p = p.parent {
		if a := p.cmd.shortOption(r); a != nil && a.Global {
			return a, p
		}
	}
	return nil, nil
}

func (st *parseState) takesValue(r rune) bool {
	a, _ := st.short(r)
	return a != nil && a.Kind == Option
}

// inheritedGlobals returns the global args of every ancestor that are
// matchable at st, outermost first.
func (st *parseState) inheritedGlobals() []*Arg {
	var chain []*parseState
	for p := st.parent; p != nil; p = p.parent {
		chain = append([]*parseState{p}, chain...)
	}
	var out []*Arg
	for _, p := range chain {
		for _, a := range p.cmd.Options {
			if !a.Global {
				continue
			}
			if a.Long != "" {
				if b, _ := st.long(a.Long); b != a {
					continue
				}
			} else if b, _ := st.short(a.Short); b != a {
				continue
			}
			out = append(out, a)
		}
	}
	return out
}

func (st *parseState) values() *Values {
	return &Values{
		Command: st.cmd.Name,
		Path:    st.path,
		vals:    st.vals,
		seen:    st.seen,
	}
}

func (r *resolver) resolve(st *parseState) levelResult {
	for {
		tok, ok := r.tok.next(st.takesValue)
		if !ok {
			break
		}
		switch tok.kind {
		case tokLong:
			if a, owner := st.long(tok.name); a != nil {
				r.match(st, a, owner, tok, "--"+tok.name)
				continue
			}
			if tok.name == helpLong && !tok.inline && st.npos == 0 {
				r.tok.drain()
				return levelResult{help: st, leaf: st}
			}
			st.fail(&ArgError{Kind: UnrecognizedArgument, Arg: "--" + tok.name})

		case tokShort:
			if a, owner := st.short(tok.short); a != nil {
				r.match(st, a, owner, tok, tok.raw)
				continue
			}
			if tok.short == helpShort && st.npos == 0 {
				r.tok.drain()
				return levelResult{help: st, leaf: st}
			}
			st.fail(&ArgError{Kind: UnrecognizedArgument, Arg: tok.raw})

		case tokPositional:
			subs := st.cmd.Subcommands
			if subs != nil && st.npos == 0 && !tok.free {
				if sub := st.cmd.lookup(tok.raw); sub != nil {
					st.chose = true
					child := r.resolve(newParseState(sub, st))
					return r.finishParent(st, child)
				}
				if tok.raw == helpCommand {
					rest := r.tok.rest()
					if len(rest) == 0 {
						return levelResult{help: st, leaf: st}
					}
					for _, raw := range rest {
						st.fail(&ArgError{Kind: UnexpectedArgument, Arg: raw})
					}
					return levelResult{leaf: st, errs: st.errs}
				}
				if subs.Required && len(st.cmd.Positionals) == 0 {
					st.unknownSub = true
					st.fail(&ArgError{
						Kind:       UnknownSubcommand,
						Arg:        tok.raw,
						Suggestion: closestMatch(tok.raw, st.cmd.subcommandNames()),
					})
					r.tok.drain()
					continue
				}
			}
			r.positional(st, tok.raw)
		}
	}
	st.finish()
	return levelResult{leaf: st, values: st.values(), errs: st.errs}
}

// finishParent completes st after its chosen subcommand resolved to child.
func (r *resolver) finishParent(st *parseState, child levelResult) levelResult {
	if child.help != nil {
		return child
	}
	st.finish()
	errs := append(st.errs, child.errs...)
	v := st.values()
	v.Sub = child.values
	return levelResult{leaf: child.leaf, values: v, errs: errs}
}

// match applies a switch or option token. owner is the level declaring a,
// which differs from st for inherited globals. spelling is how the user
// wrote the name.
func (r *resolver) match(st *parseState, a *Arg, owner *parseState, tok token, spelling string) {
	id := a.id()
	if a.Kind == Switch {
		if tok.inline {
			st.fail(&ArgError{Kind: InvalidValue, Arg: spelling, Value: tok.value, Msg: "switch does not take a value"})
			return
		}
		if a.repeated() {
			n, _ := owner.vals[id].(int)
			mak.Set(&owner.vals, id, any(n+1))
			owner.seen.Add(id)
			return
		}
		if owner.seen.Contains(id) {
			st.fail(&ArgError{Kind: DuplicateArgument, Arg: spelling})
			return
		}
		mak.Set(&owner.vals, id, true)
		owner.seen.Add(id)
		return
	}

	value, ok := tok.value, tok.inline
	if !ok {
		value, ok = r.tok.takeValue()
	}
	if !ok {
		owner.seen.Add(id)
		st.fail(&ArgError{Kind: MissingValue, Arg: spelling})
		return
	}
	if !a.repeated() && owner.seen.Contains(id) {
		st.fail(&ArgError{Kind: DuplicateArgument, Arg: spelling})
		return
	}
	st.store(a, owner, spelling, value)
}

func (r *resolver) positional(st *parseState, raw string) {
	ps := st.cmd.Positionals
	if st.slot >= len(ps) {
		st.fail(&ArgError{Kind: UnexpectedArgument, Arg: raw})
		return
	}
	a := ps[st.slot]
	st.npos++
	st.store(a, st, a.Long, raw)
	if !a.repeated() {
		st.slot++
		return
	}
	if a.Greedy {
		for _, raw := range r.tok.rest() {
			st.npos++
			st.store(a, st, a.Long, raw)
		}
	}
}

// store converts raw and records it in owner. Conversion failures are
// recorded on st, and the arg still counts as seen.
func (st *parseState) store(a *Arg, owner *parseState, spelling, raw string) {
	id := a.id()
	owner.seen.Add(id)
	v, err := a.converter().Convert(raw)
	if err != nil {
		st.fail(&ArgError{Kind: InvalidValue, Arg: spelling, Value: raw, Msg: err.Error(), Err: err})
		return
	}
	if a.repeated() {
		list, _ := owner.vals[id].([]any)
		mak.Set(&owner.vals, id, any(append(list, v)))
		return
	}
	mak.Set(&owner.vals, id, v)
}

// finish runs the end of input checks of st: defaults are converted and
// every missing required arg is reported in one error.
func (st *parseState) finish() {
	for _, list := range [][]*Arg{st.cmd.Options, st.cmd.Positionals} {
		for _, a := range list {
			if a.hasDefault() && !st.seen.Contains(a.id()) {
				st.store(a, st, a.flagName(), a.Default)
				st.seen.Delete(a.id())
			}
		}
	}

	var m Missing
	for _, a := range st.cmd.Positionals {
		if a.required() && !st.seen.Contains(a.id()) {
			m.Positionals = append(m.Positionals, a.Long)
		}
	}
	for _, a := range st.cmd.Options {
		if a.required() && !st.seen.Contains(a.id()) {
			m.Options = append(m.Options, a.flagName())
		}
	}
	if subs := st.cmd.Subcommands; subs != nil && subs.Required && !st.chose && !st.unknownSub {
		m.Subcommands = st.cmd.subcommandNames()
	}
	if !m.empty() {
		st.fail(&ArgError{Kind: MissingRequiredArguments, Missing: &m})
	}
}
