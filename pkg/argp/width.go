// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argp

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const defaultWidth = 80

// Mockable for tests.
var (
	getTermSize = term.GetSize
	getenv      = os.Getenv
)

// width returns the help width: p.Width, else the width of the terminal on
// stdout, else $COLUMNS, else 80.
func (p *Parser) width() int {
	if p != nil && p.Width > 0 {
		return p.Width
	}
	if w, _, err := getTermSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	if n, err := strconv.Atoi(getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return defaultWidth
}
