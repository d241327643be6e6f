// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Converter turns one raw argument value into a typed value. The raw value
// is exactly what appeared in argv; it may not be valid UTF-8.
type Converter interface {
	Convert(raw string) (any, error)
}

// ErrNotUTF8 is returned by TextFunc converters for invalid UTF-8 input.
var ErrNotUTF8 = errors.New("not a valid UTF-8 string")

// TextFunc is a Converter for textual values. Invalid UTF-8 is rejected
// before f is called.
type TextFunc func(s string) (any, error)

func (f TextFunc) Convert(raw string) (any, error) {
	if !utf8.ValidString(raw) {
		return nil, ErrNotUTF8
	}
	return f(raw)
}

// RawFunc is a Converter that receives the argument bytes verbatim. Use it
// for values such as file paths that must tolerate any encoding.
type RawFunc func(b []byte) (any, error)

func (f RawFunc) Convert(raw string) (any, error) { return f([]byte(raw)) }

// Port is a TCP or UDP port number.
type Port uint16

// String converts to a string.
func String() Converter {
	return TextFunc(func(s string) (any, error) { return s, nil })
}

// Int converts to an int64.
func Int() Converter { return intN(64) }

// Uint converts to a uint64.
func Uint() Converter { return uintN(64) }

// Float converts to a float64.
func Float() Converter { return floatN(64) }

// intN converts to an int64 that fits in bits.
func intN(bits int) Converter {
	return TextFunc(func(s string) (any, error) {
		i, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("invalid int value %q: %w", s, numError(err))
		}
		return i, nil
	})
}

func uintN(bits int) Converter {
	return TextFunc(func(s string) (any, error) {
		u, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return nil, fmt.Errorf("invalid uint value %q: %w", s, numError(err))
		}
		return u, nil
	})
}

func floatN(bits int) Converter {
	return TextFunc(func(s string) (any, error) {
		f, err := strconv.ParseFloat(s, bits)
		if err != nil {
			return nil, fmt.Errorf("invalid float value %q: %w", s, numError(err))
		}
		return f, nil
	})
}

// Bool converts an explicit true/false value, as accepted by
// strconv.ParseBool. Switches do not use it.
func Bool() Converter {
	return TextFunc(func(s string) (any, error) {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bool value %q: %w", s, numError(err))
		}
		return b, nil
	})
}

// Duration converts with time.ParseDuration.
func Duration() Converter {
	return TextFunc(func(s string) (any, error) {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	})
}

// URL converts to a *url.URL.
func URL() Converter {
	return TextFunc(func(s string) (any, error) {
		u, err := url.Parse(s)
		if err != nil {
			var ue *url.Error
			if errors.As(err, &ue) {
				err = ue.Err
			}
			return nil, fmt.Errorf("invalid URL %q: %w", s, err)
		}
		return u, nil
	})
}

// PortValue converts to a Port. rng, if not empty, is an inclusive
// "min-max" range the port must fall in. A malformed rng is reported on
// every conversion.
func PortValue(rng string) Converter {
	return TextFunc(func(s string) (any, error) {
		v, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				if rng != "" {
					return nil, fmt.Errorf("port must be between %s, got %q", rng, s)
				}
				return nil, fmt.Errorf("port must be between 0 and 65535, got %q", s)
			}
			return nil, fmt.Errorf("invalid port value %q", s)
		}
		if rng != "" {
			lo, hi, err := parsePortRange(rng)
			if err != nil {
				return nil, err
			}
			if uint16(v) < lo || uint16(v) > hi {
				return nil, fmt.Errorf("port must be between %s, got %d", rng, v)
			}
		}
		return Port(v), nil
	})
}

// parsePortRange parses "min-max".
func parsePortRange(rng string) (lo, hi uint16, err error) {
	a, b, ok := strings.Cut(rng, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid port range format %q (expected \"min-max\")", rng)
	}
	minVal, err := strconv.ParseUint(a, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min port in range %q: %w", rng, err)
	}
	maxVal, err := strconv.ParseUint(b, 10, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max port in range %q: %w", rng, err)
	}
	if minVal > maxVal {
		return 0, 0, fmt.Errorf("invalid port range %q: min (%d) > max (%d)", rng, minVal, maxVal)
	}
	return uint16(minVal), uint16(maxVal), nil
}

// Path passes the argument through as a string without checking its
// encoding. Empty paths are rejected.
func Path() Converter {
	return RawFunc(func(b []byte) (any, error) {
		if len(b) == 0 {
			return nil, errors.New("empty path")
		}
		return string(b), nil
	})
}

// OneOf accepts only one of choices, compared exactly.
func OneOf(choices ...string) Converter {
	return TextFunc(func(s string) (any, error) {
		for _, c := range choices {
			if s == c {
				return s, nil
			}
		}
		return nil, fmt.Errorf("must be one of %s", strings.Join(choices, ", "))
	})
}

// numError strips the strconv prefix, which repeats the function name and
// input, leaving only the reason.
func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
