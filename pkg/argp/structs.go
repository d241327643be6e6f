// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// Count is a switch field that counts occurrences: -vvv sets it to 3.
type Count int

// FromStruct builds a Command named name from the tags of a struct (or
// pointer to struct) v. Supported tags:
//
//	flag:"name"      long name, default is the lowercased field name; "-" skips the field
//	short:"n"        short name
//	help:"text"      description
//	default:"value"  raw default value
//	required:"true"  the flag must be given; on a cmd field, a subcommand must be chosen
//	global:"true"    the flag is inherited by subcommands
//	arg:"NAME"       value placeholder in help, or the name of a positional
//	hidden:"true"    matched but left out of help
//	port:"min-max"   allowed range of a Port field
//	pos:"0"          positional by index; "0?" optional, "0*" repeated
//	greedy:"true"    repeated positional that takes every following token
//	cmd:"name"       pointer to struct field that is a subcommand
//	aliases:"a,b"    subcommand aliases
//
// bool fields are switches and Count fields counted switches. Slices are
// repeated and pointers optional.
func FromStruct(name string, v any) (*Command, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argp: FromStruct needs a struct, got %T", v)
	}
	cmd, err := commandFromType(name, t)
	if err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}

type fieldRole int

const (
	roleFlag fieldRole = iota
	rolePos
	roleCmd
)

// structField maps one struct field to its part of a Command.
type structField struct {
	index int
	role  fieldRole
	pos   int
	arg   *Arg
	name  string // subcommand name for roleCmd
}

var (
	countType    = reflect.TypeFor[Count]()
	portType     = reflect.TypeFor[Port]()
	durationType = reflect.TypeFor[time.Duration]()
	urlType      = reflect.TypeFor[url.URL]()
	urlPtrType   = reflect.TypeFor[*url.URL]()
	semverType   = reflect.TypeFor[*semver.Version]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	digestType   = reflect.TypeFor[digest.Digest]()
)

func commandFromType(name string, t reflect.Type) (*Command, error) {
	fields, err := structFields(t)
	if err != nil {
		return nil, fmt.Errorf("argp: command %q: %w", name, err)
	}
	cmd := &Command{Name: name}
	for _, f := range fields {
		switch f.role {
		case roleFlag:
			cmd.Options = append(cmd.Options, f.arg)
		case rolePos:
			cmd.Positionals = append(cmd.Positionals, f.arg)
		case roleCmd:
			sf := t.Field(f.index)
			sub, err := commandFromType(f.name, sf.Type.Elem())
			if err != nil {
				return nil, err
			}
			sub.Description = sf.Tag.Get("help")
			if a := sf.Tag.Get("aliases"); a != "" {
				sub.Aliases = strings.Split(a, ",")
			}
			if cmd.Subcommands == nil {
				cmd.Subcommands = &Subcommands{}
			}
			cmd.Subcommands.Commands = append(cmd.Subcommands.Commands, sub)
			if sf.Tag.Get("required") == "true" {
				cmd.Subcommands.Required = true
			}
		}
	}
	return cmd, nil
}

// structFields plans every exported field of t. Positionals come back
// sorted by index.
func structFields(t reflect.Type) ([]structField, error) {
	var out, pos []structField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Tag.Get("flag") == "-" {
			continue
		}
		f, err := planField(sf)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sf.Name, err)
		}
		f.index = i
		if f.role == rolePos {
			pos = append(pos, f)
		} else {
			out = append(out, f)
		}
	}
	slices.SortStableFunc(pos, func(a, b structField) int { return a.pos - b.pos })
	return append(out, pos...), nil
}

func planField(sf reflect.StructField) (structField, error) {
	tag := sf.Tag
	if name := tag.Get("cmd"); name != "" {
		if sf.Type.Kind() != reflect.Pointer || sf.Type.Elem().Kind() != reflect.Struct {
			return structField{}, errors.New("cmd field must be a pointer to struct")
		}
		return structField{role: roleCmd, name: name}, nil
	}

	a := &Arg{
		Description: tag.Get("help"),
		Default:     tag.Get("default"),
		ArgName:     tag.Get("arg"),
		Global:      tag.Get("global") == "true",
		Hidden:      tag.Get("hidden") == "true",
		Greedy:      tag.Get("greedy") == "true",
	}

	if p := tag.Get("pos"); p != "" {
		a.Kind = Positional
		a.Long = strings.ToLower(sf.Name)
		if a.ArgName != "" {
			a.Long, a.ArgName = a.ArgName, ""
		}
		a.Cardinality = Required
		switch {
		case strings.HasSuffix(p, "?"):
			a.Cardinality = Optional
			p = strings.TrimSuffix(p, "?")
		case strings.HasSuffix(p, "*"):
			a.Cardinality = Repeated
			p = strings.TrimSuffix(p, "*")
		}
		pos, err := strconv.Atoi(p)
		if err != nil {
			return structField{}, fmt.Errorf("invalid pos tag %q", tag.Get("pos"))
		}
		if a.Default != "" {
			a.Cardinality = Optional
		}
		conv, err := valueConverter(sf.Type, a.repeated(), tag.Get("port"))
		if err != nil {
			return structField{}, err
		}
		a.Value = conv
		return structField{role: rolePos, pos: pos, arg: a}, nil
	}

	a.Long = tag.Get("flag")
	if a.Long == "" {
		a.Long = strings.ToLower(sf.Name)
	}
	if s := tag.Get("short"); s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if size != len(s) {
			return structField{}, fmt.Errorf("short name %q must be one character", s)
		}
		a.Short = r
	}

	switch {
	case sf.Type == countType:
		a.Kind = Switch
		a.Cardinality = Repeated
		return structField{role: roleFlag, arg: a}, nil
	case sf.Type.Kind() == reflect.Bool:
		a.Kind = Switch
		return structField{role: roleFlag, arg: a}, nil
	}

	a.Kind = Option
	switch {
	case sf.Type.Kind() == reflect.Slice:
		a.Cardinality = Repeated
	case tag.Get("required") == "true":
		a.Cardinality = Required
	}
	conv, err := valueConverter(sf.Type, a.repeated(), tag.Get("port"))
	if err != nil {
		return structField{}, err
	}
	a.Value = conv
	return structField{role: roleFlag, arg: a}, nil
}

// valueConverter picks the Converter for a field of type t. Repeated
// fields convert their element type and pointers their pointee unless the
// pointer type itself is known.
func valueConverter(t reflect.Type, repeated bool, portRange string) (Converter, error) {
	if repeated {
		if t.Kind() != reflect.Slice {
			return nil, fmt.Errorf("repeated field must be a slice, got %s", t)
		}
		t = t.Elem()
	}
	if c := converterFor(t, portRange); c != nil {
		return c, nil
	}
	if t.Kind() == reflect.Pointer {
		if c := converterFor(t.Elem(), portRange); c != nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unsupported field type %s", t)
}

func converterFor(t reflect.Type, portRange string) Converter {
	switch t {
	case portType:
		return PortValue(portRange)
	case durationType:
		return Duration()
	case urlType, urlPtrType:
		return URL()
	case semverType:
		return Semver()
	case uuidType:
		return UUID()
	case digestType:
		return Digest()
	}
	switch t.Kind() {
	case reflect.String:
		return String()
	case reflect.Bool:
		return Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intN(t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintN(t.Bits())
	case reflect.Float32, reflect.Float64:
		return floatN(t.Bits())
	}
	return nil
}

// Decode stores v into the struct pointed to by dst, which must have the
// shape FromStruct was given. The chosen subcommand's struct is allocated.
func Decode(v *Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("argp: Decode needs a non-nil pointer to struct, got %T", dst)
	}
	return decodeStruct(v, rv.Elem())
}

func decodeStruct(v *Values, rv reflect.Value) error {
	fields, err := structFields(rv.Type())
	if err != nil {
		return err
	}
	for _, f := range fields {
		field := rv.Field(f.index)
		if f.role == roleCmd {
			if v.Sub == nil || v.Sub.Command != f.name {
				continue
			}
			p := reflect.New(field.Type().Elem())
			if err := decodeStruct(v.Sub, p.Elem()); err != nil {
				return err
			}
			field.Set(p)
			continue
		}
		x, ok := v.Get(f.arg.id())
		if !ok {
			continue
		}
		if err := assign(field, x); err != nil {
			return fmt.Errorf("argp: field %s: %w", rv.Type().Field(f.index).Name, err)
		}
	}
	return nil
}

// assign stores a resolved value in dst, converting between the value
// types converters produce and the field's type.
func assign(dst reflect.Value, x any) error {
	if x == nil {
		return nil
	}
	src := reflect.ValueOf(x)
	dt := dst.Type()
	switch {
	case src.Type().AssignableTo(dt):
		dst.Set(src)
	case src.Kind() == reflect.Pointer && src.Elem().Type().AssignableTo(dt):
		dst.Set(src.Elem())
	case dt.Kind() == reflect.Slice:
		list, ok := x.([]any)
		if !ok {
			return fmt.Errorf("cannot store %T in %s", x, dt)
		}
		s := reflect.MakeSlice(dt, len(list), len(list))
		for i, e := range list {
			if err := assign(s.Index(i), e); err != nil {
				return err
			}
		}
		dst.Set(s)
	case dt.Kind() == reflect.Pointer:
		p := reflect.New(dt.Elem())
		if err := assign(p.Elem(), x); err != nil {
			return err
		}
		dst.Set(p)
	case src.CanConvert(dt) && isNumber(src.Kind()) && isNumber(dt.Kind()):
		if overflows(dst, src) {
			return fmt.Errorf("value %v overflows %s", x, dt)
		}
		dst.Set(src.Convert(dt))
	default:
		return fmt.Errorf("cannot store %T in %s", x, dt)
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func overflows(dst, src reflect.Value) bool {
	switch {
	case src.CanInt() && dst.CanInt():
		return dst.OverflowInt(src.Int())
	case src.CanUint() && dst.CanUint():
		return dst.OverflowUint(src.Uint())
	case src.CanFloat() && dst.CanFloat():
		return dst.OverflowFloat(src.Float())
	}
	return false
}

// ParseStruct builds a Command from T, resolves args against it and decodes
// the result. The *T is nil unless the Outcome is OutcomeValue. The error
// reports a malformed T, not a bad argv.
func ParseStruct[T any](name string, args []string) (*T, Outcome, error) {
	var p Parser
	return ParseStructWith[T](&p, name, args)
}

// ParseStructWith is ParseStruct with a configured Parser.
func ParseStructWith[T any](p *Parser, name string, args []string) (*T, Outcome, error) {
	cmd, err := FromStruct(name, new(T))
	if err != nil {
		return nil, Outcome{}, err
	}
	o := p.Parse(cmd, args)
	if o.Kind != OutcomeValue {
		return nil, o, nil
	}
	t := new(T)
	if err := Decode(o.Values, t); err != nil {
		return nil, o, err
	}
	return t, o, nil
}
