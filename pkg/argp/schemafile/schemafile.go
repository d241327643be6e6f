// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemafile reads argp command trees from TOML or YAML files.
//
// A schema file has a version and one root command:
//
//	version = 1
//
//	[command]
//	name = "deploy"
//
//	[[command.options]]
//	name = "verbose"
//	short = "v"
//	kind = "switch"
//	cardinality = "repeated"
//	global = true
//
//	[[command.positionals]]
//	name = "target"
//
// Subcommands nest under [command.subcommands] as an array of commands.
// Files ending in .zst or .gz are decompressed first.
package schemafile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argp/pkg/argp"
	"gopkg.in/yaml.v3"
)

// Version is the newest schema file version this package reads.
const Version = 1

// Format is a schema file encoding.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// File is the on-disk form of a command tree.
type File struct {
	Version int         `toml:"version,omitempty" yaml:"version,omitempty"`
	Command CommandSpec `toml:"command" yaml:"command"`
}

type CommandSpec struct {
	Name        string           `toml:"name" yaml:"name"`
	Aliases     []string         `toml:"aliases,omitempty" yaml:"aliases,omitempty"`
	Description string           `toml:"description,omitempty" yaml:"description,omitempty"`
	Footer      string           `toml:"footer,omitempty" yaml:"footer,omitempty"`
	Options     []ArgSpec        `toml:"options,omitempty" yaml:"options,omitempty"`
	Positionals []ArgSpec        `toml:"positionals,omitempty" yaml:"positionals,omitempty"`
	Subcommands *SubcommandsSpec `toml:"subcommands,omitempty" yaml:"subcommands,omitempty"`
}

type SubcommandsSpec struct {
	Required bool          `toml:"required,omitempty" yaml:"required,omitempty"`
	Commands []CommandSpec `toml:"commands" yaml:"commands"`
}

// ArgSpec describes one option, switch or positional.
type ArgSpec struct {
	// Name is the long name of an option or the name of a positional.
	Name  string `toml:"name,omitempty" yaml:"name,omitempty"`
	Short string `toml:"short,omitempty" yaml:"short,omitempty"`
	ID    string `toml:"id,omitempty" yaml:"id,omitempty"`
	// Kind is "option" (the default) or "switch". Positionals leave it empty.
	Kind string `toml:"kind,omitempty" yaml:"kind,omitempty"`
	// Cardinality is "optional", "required" or "repeated". Options default
	// to optional and positionals to required.
	Cardinality string `toml:"cardinality,omitempty" yaml:"cardinality,omitempty"`
	// Type names the value converter; see Types.
	Type      string   `toml:"type,omitempty" yaml:"type,omitempty"`
	Choices   []string `toml:"choices,omitempty" yaml:"choices,omitempty"`
	PortRange string   `toml:"port_range,omitempty" yaml:"port_range,omitempty"`
	Default   string   `toml:"default,omitempty" yaml:"default,omitempty"`
	Global    bool     `toml:"global,omitempty" yaml:"global,omitempty"`
	Hidden    bool     `toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	Greedy    bool     `toml:"greedy,omitempty" yaml:"greedy,omitempty"`
	ArgName   string   `toml:"arg_name,omitempty" yaml:"arg_name,omitempty"`
	Help      string   `toml:"help,omitempty" yaml:"help,omitempty"`
}

// Types lists the value type names an ArgSpec may use.
var Types = []string{
	"string", "int", "uint", "float", "bool", "duration", "url", "port",
	"path", "semver", "uuid", "digest", "choice",
}

// FormatOf picks the format from a file name, ignoring a trailing .zst or
// .gz.
func FormatOf(path string) (Format, error) {
	base := strings.TrimSuffix(strings.TrimSuffix(path, ".zst"), ".gz")
	switch ext := strings.ToLower(filepath.Ext(base)); ext {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown schema file extension %q", ext)
	}
}

// Load reads, decodes and validates the schema file at path.
func Load(path string) (*argp.Command, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cmd, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cmd, nil
}

// Decode reads a schema in the given format from r and builds its command
// tree. Compressed input is detected by its magic bytes.
func Decode(r io.Reader, format Format) (*argp.Command, error) {
	f, err := Read(r, format)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// Read decodes a schema file without building it. Unknown keys are errors.
func Read(r io.Reader, format Format) (*File, error) {
	rc, err := decompress(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var f File
	switch format {
	case TOML:
		md, err := toml.NewDecoder(rc).Decode(&f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
		}
	case YAML:
		dec := yaml.NewDecoder(rc)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("empty schema")
			}
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if f.Version == 0 {
		f.Version = Version
	}
	if f.Version > Version {
		return nil, fmt.Errorf("unsupported schema version %d", f.Version)
	}
	return &f, nil
}

// Encode writes f to w in the given format.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case TOML:
		return toml.NewEncoder(w).Encode(f)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Build converts f to a validated command tree.
func (f *File) Build() (*argp.Command, error) {
	cmd, err := f.Command.build()
	if err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *CommandSpec) build() (*argp.Command, error) {
	cmd := &argp.Command{
		Name:        c.Name,
		Aliases:     c.Aliases,
		Description: c.Description,
		Footer:      c.Footer,
	}
	for i := range c.Options {
		a, err := c.Options[i].build(false)
		if err != nil {
			return nil, fmt.Errorf("command %q: option %q: %w", c.Name, c.Options[i].Name, err)
		}
		cmd.Options = append(cmd.Options, a)
	}
	for i := range c.Positionals {
		a, err := c.Positionals[i].build(true)
		if err != nil {
			return nil, fmt.Errorf("command %q: positional %q: %w", c.Name, c.Positionals[i].Name, err)
		}
		cmd.Positionals = append(cmd.Positionals, a)
	}
	if s := c.Subcommands; s != nil {
		cmd.Subcommands = &argp.Subcommands{Required: s.Required}
		for i := range s.Commands {
			sub, err := s.Commands[i].build()
			if err != nil {
				return nil, err
			}
			cmd.Subcommands.Commands = append(cmd.Subcommands.Commands, sub)
		}
	}
	return cmd, nil
}

func (s *ArgSpec) build(positional bool) (*argp.Arg, error) {
	a := &argp.Arg{
		Long:        s.Name,
		ID:          s.ID,
		Default:     s.Default,
		Global:      s.Global,
		Hidden:      s.Hidden,
		Greedy:      s.Greedy,
		ArgName:     s.ArgName,
		Description: s.Help,
	}
	if s.Short != "" {
		r, size := utf8.DecodeRuneInString(s.Short)
		if size != len(s.Short) {
			return nil, fmt.Errorf("short name %q must be one character", s.Short)
		}
		a.Short = r
	}

	switch {
	case positional && s.Kind != "" && s.Kind != "positional":
		return nil, fmt.Errorf("positionals cannot have kind %q", s.Kind)
	case positional:
		a.Kind = argp.Positional
	case s.Kind == "" || s.Kind == "option":
		a.Kind = argp.Option
	case s.Kind == "switch":
		a.Kind = argp.Switch
	default:
		return nil, fmt.Errorf("unknown kind %q", s.Kind)
	}

	switch s.Cardinality {
	case "":
		if positional && s.Default == "" {
			a.Cardinality = argp.Required
		}
	case "optional":
		a.Cardinality = argp.Optional
	case "required":
		a.Cardinality = argp.Required
	case "repeated":
		a.Cardinality = argp.Repeated
	default:
		return nil, fmt.Errorf("unknown cardinality %q", s.Cardinality)
	}

	if a.Kind == argp.Switch {
		if s.Type != "" {
			return nil, errors.New("switches take no type")
		}
		return a, nil
	}
	conv, err := s.converter()
	if err != nil {
		return nil, err
	}
	a.Value = conv
	return a, nil
}

func (s *ArgSpec) converter() (argp.Converter, error) {
	if s.Type != "choice" && len(s.Choices) > 0 {
		return nil, errors.New(`choices need type "choice"`)
	}
	if s.Type != "port" && s.PortRange != "" {
		return nil, errors.New(`port_range needs type "port"`)
	}
	switch s.Type {
	case "", "string":
		return argp.String(), nil
	case "int":
		return argp.Int(), nil
	case "uint":
		return argp.Uint(), nil
	case "float":
		return argp.Float(), nil
	case "bool":
		return argp.Bool(), nil
	case "duration":
		return argp.Duration(), nil
	case "url":
		return argp.URL(), nil
	case "port":
		return argp.PortValue(s.PortRange), nil
	case "path":
		return argp.Path(), nil
	case "semver":
		return argp.Semver(), nil
	case "uuid":
		return argp.UUID(), nil
	case "digest":
		return argp.Digest(), nil
	case "choice":
		if len(s.Choices) == 0 {
			return nil, errors.New(`type "choice" needs choices`)
		}
		return argp.OneOf(s.Choices...), nil
	}
	return nil, fmt.Errorf("unknown type %q, want one of %s", s.Type, strings.Join(Types, ", "))
}
