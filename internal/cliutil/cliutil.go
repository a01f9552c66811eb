// Package cliutil holds small helpers shared by the command line
// tools.
package cliutil

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// countCap mirrors the widest representable record count.
const countCap = 0x7fff

// ParseRange parses the histogram range syntax "[<low>:]<high>". A bare
// integer sets the upper bound with low = 1. Empty input returns the
// defaults.
func ParseRange(s string, defLow, defHigh int) (low, high int, err error) {
	if s == "" {
		return defLow, defHigh, nil
	}

	low, high = 1, defHigh
	hs := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if low, err = strconv.Atoi(s[:i]); err != nil {
			return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
		}
		hs = s[i+1:]
	}
	if high, err = strconv.Atoi(hs); err != nil {
		return 0, 0, fmt.Errorf("invalid range %q: %w", s, err)
	}

	if low < 1 || low > countCap {
		return 0, 0, fmt.Errorf("histogram count %d is out of range", low)
	}
	if low > high || high > countCap {
		return 0, 0, fmt.Errorf("histogram range [%d,%d] is invalid", low, high)
	}
	return low, high, nil
}

// SplitRoot splits a table path into the directory serving as the blob
// store root and the table name inside it.
func SplitRoot(p string) (dir, name string) {
	dir, name = filepath.Split(p)
	if dir == "" {
		dir = "."
	}
	return dir, name
}
