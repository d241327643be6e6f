// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	_ "crypto/sha256" // digest algorithms must be linked in to validate
	_ "crypto/sha512"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
)

// Semver converts to a *semver.Version. A leading "v" is accepted.
func Semver() Converter {
	return TextFunc(func(s string) (any, error) {
		v, err := semver.NewVersion(s)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q: %w", s, err)
		}
		return v, nil
	})
}

// SemverConstraint converts to a *semver.Constraints, such as ">= 1.2, < 2".
func SemverConstraint() Converter {
	return TextFunc(func(s string) (any, error) {
		c, err := semver.NewConstraint(s)
		if err != nil {
			return nil, fmt.Errorf("invalid version constraint %q: %w", s, err)
		}
		return c, nil
	})
}

// UUID converts to a uuid.UUID.
func UUID() Converter {
	return TextFunc(func(s string) (any, error) {
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID %q: %w", s, err)
		}
		return u, nil
	})
}

// Digest converts to a validated digest.Digest such as "sha256:<hex>".
func Digest() Converter {
	return TextFunc(func(s string) (any, error) {
		d, err := digest.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid digest %q: %w", s, err)
		}
		return d, nil
	})
}
