// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"strings"
	"unicode/utf8"
)

const (
	helpIndent  = "  "
	helpGutter  = 2
	sectionSep  = "\n\n"
	commandName = "{command_name}"
)

// Help renders the help text of cmd as the root command.
func (p *Parser) Help(cmd *Command) string {
	return renderHelp(cmd, []string{cmd.Name}, nil, p.width())
}

func (p *Parser) render(st *parseState) string {
	return renderHelp(st.cmd, st.path, st.inheritedGlobals(), p.width())
}

// Usage returns the one line usage of cmd as the root command.
func Usage(cmd *Command) string {
	return usageLine(cmd, []string{cmd.Name}, nil)
}

func usageLine(cmd *Command, path []string, globals []*Arg) string {
	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(strings.Join(path, " "))
	for _, list := range [][]*Arg{globals, cmd.Options, cmd.Positionals} {
		for _, a := range list {
			if a.Hidden {
				continue
			}
			b.WriteByte(' ')
			b.WriteString(usageItem(a))
		}
	}
	if subs := cmd.Subcommands; subs != nil {
		if subs.Required {
			b.WriteString(" <command> [<args>]")
		} else {
			b.WriteString(" [<command>] [<args>]")
		}
	}
	return b.String()
}

func usageItem(a *Arg) string {
	if a.Kind == Positional {
		switch {
		case a.repeated():
			return "[<" + a.Long + "...>]"
		case a.required():
			return "<" + a.Long + ">"
		}
		return "[<" + a.Long + ">]"
	}
	name := "--" + a.Long
	if a.Short != 0 {
		name = "-" + string(a.Short)
	}
	switch {
	case a.Kind == Switch:
		return "[" + name + "]"
	case a.repeated():
		return "[" + name + " <" + a.argName() + "...>]"
	case a.required():
		return name + " <" + a.argName() + ">"
	}
	return "[" + name + " <" + a.argName() + ">]"
}

// helpRow is one label/description line pair in a help section.
type helpRow struct {
	label string
	desc  string
}

type helpSection struct {
	title string
	rows  []helpRow
}

func renderHelp(cmd *Command, path []string, globals []*Arg, width int) string {
	name := strings.Join(path, " ")
	parts := []string{usageLine(cmd, path, globals)}
	if desc := strings.ReplaceAll(cmd.Description, commandName, name); desc != "" {
		parts = append(parts, wrapText(desc, width))
	}

	opts := helpSection{title: "Options:"}
	for _, list := range [][]*Arg{globals, cmd.Options} {
		for _, a := range list {
			if !a.Hidden {
				opts.rows = append(opts.rows, helpRow{optionLabel(a), a.Description})
			}
		}
	}
	if label := helpLabel(cmd, globals); label != "" {
		opts.rows = append(opts.rows, helpRow{label, "Show this help message and exit."})
	}

	args := helpSection{title: "Arguments:"}
	for _, a := range cmd.Positionals {
		if !a.Hidden {
			args.rows = append(args.rows, helpRow{a.Long, a.Description})
		}
	}

	subs := helpSection{title: "Subcommands:"}
	if cmd.Subcommands != nil {
		for _, sub := range cmd.Subcommands.Commands {
			desc := firstLine(strings.ReplaceAll(sub.Description, commandName, name+" "+sub.Name))
			subs.rows = append(subs.rows, helpRow{sub.Name, desc + aliasSuffix(sub.Aliases)})
		}
	}

	sections := []helpSection{opts, args, subs}
	column := 0
	for _, s := range sections {
		for _, r := range s.rows {
			column = max(column, utf8.RuneCountInString(r.label))
		}
	}
	column += len(helpIndent) + helpGutter

	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		var b strings.Builder
		b.WriteString(s.title)
		for _, r := range s.rows {
			b.WriteByte('\n')
			writeRow(&b, r, column, width)
		}
		parts = append(parts, b.String())
	}

	if cmd.Footer != "" {
		parts = append(parts, strings.ReplaceAll(cmd.Footer, commandName, name))
	}
	return strings.Join(parts, sectionSep) + "\n"
}

// optionLabel is "-v, --verbose", "    --name <name>" or "-n <name>".
func optionLabel(a *Arg) string {
	var b strings.Builder
	switch {
	case a.Short != 0 && a.Long != "":
		b.WriteString("-" + string(a.Short) + ", --" + a.Long)
	case a.Short != 0:
		b.WriteString("-" + string(a.Short))
	default:
		b.WriteString("    --" + a.Long)
	}
	if a.Kind == Option {
		b.WriteString(" <" + a.argName() + ">")
	}
	return b.String()
}

// helpLabel returns the label of the built-in help row, leaving out names
// that a declared option shadows.
func helpLabel(cmd *Command, globals []*Arg) string {
	long, short := true, true
	for _, list := range [][]*Arg{globals, cmd.Options} {
		for _, a := range list {
			if a.Long == helpLong {
				long = false
			}
			if a.Short == helpShort {
				short = false
			}
		}
	}
	switch {
	case long && short:
		return "-h, --help"
	case long:
		return "    --help"
	case short:
		return "-h"
	}
	return ""
}

func aliasSuffix(aliases []string) string {
	switch len(aliases) {
	case 0:
		return ""
	case 1:
		return " (alias: " + aliases[0] + ")"
	}
	return " (aliases: " + strings.Join(aliases, ", ") + ")"
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// writeRow writes one indented row. The description starts at column and
// is wrapped to width.
func writeRow(b *strings.Builder, r helpRow, column, width int) {
	b.WriteString(helpIndent)
	b.WriteString(r.label)
	if r.desc == "" {
		return
	}
	pad := column - len(helpIndent) - utf8.RuneCountInString(r.label)
	b.WriteString(strings.Repeat(" ", pad))
	lines := wrapLines(r.desc, width-column)
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(" ", column))
		}
		b.WriteString(line)
	}
}

// wrapText wraps every line of s to width.
func wrapText(s string, width int) string {
	return strings.Join(wrapLines(s, width), "\n")
}

// wrapLines breaks s into lines of at most width runes without splitting
// words. A word longer than width gets a line of its own. Newlines in s are
// kept.
func wrapLines(s string, width int) []string {
	width = max(width, 1)
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line, n := words[0], utf8.RuneCountInString(words[0])
		for _, w := range words[1:] {
			wn := utf8.RuneCountInString(w)
			if n+1+wn > width {
				out = append(out, line)
				line, n = w, wn
				continue
			}
			line += " " + w
			n += 1 + wn
		}
		out = append(out, line)
	}
	return out
}
