// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"fmt"
	"strings"
)

// Tokens renders v, resolved against cmd, back into an argument vector
// that resolves to the same values. Defaulted values are left out. Inherited
// globals are written at the level that declares them.
func Tokens(cmd *Command, v *Values) []string {
	var out []string
	for cmd != nil && v != nil {
		for _, a := range cmd.Options {
			if !v.Seen(a.id()) {
				continue
			}
			name := a.flagName()
			switch {
			case a.Kind == Switch:
				for range max(v.Count(a.id()), 1) {
					out = append(out, name)
				}
			case a.repeated():
				for _, s := range v.Strings(a.id()) {
					out = append(out, name, s)
				}
			default:
				out = append(out, name, v.String(a.id()))
			}
		}

		var pos []string
		for _, a := range cmd.Positionals {
			if v.Seen(a.id()) {
				pos = append(pos, v.Strings(a.id())...)
			}
		}
		for _, p := range pos {
			if strings.HasPrefix(p, "-") || isSubcommandName(cmd, p) {
				out = append(out, "--")
				break
			}
		}
		out = append(out, pos...)

		if v.Sub == nil {
			break
		}
		cmd = cmd.lookup(v.Sub.Command)
		if cmd == nil {
			break
		}
		out = append(out, v.Sub.Command)
		v = v.Sub
	}
	return out
}

func isSubcommandName(cmd *Command, s string) bool {
	return cmd.lookup(s) != nil || (cmd.Subcommands != nil && s == helpCommand)
}

// formatValue is how Strings and String spell a converted value.
func formatValue(x any) string {
	if s, ok := x.(string); ok {
		return s
	}
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(x)
}
