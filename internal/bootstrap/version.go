// MoneySwap Ops - Operational Tooling for the MoneySwap Platform
// Copyright 2026 MoneySwap
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moneyswap/swapops

package bootstrap

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed interpreter version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// MinRuntimeVersion is the oldest Python runtime the application supports.
var MinRuntimeVersion = Version{Major: 3, Minor: 8}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v >= min, comparing major then minor.
// Patch level is not part of the runtime contract.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	return v.Minor >= min.Minor
}

// ParseRuntimeVersion parses interpreter version output of the form
// "Python 3.10.2" (the leading word is optional) into a Version.
func ParseRuntimeVersion(output string) (Version, error) {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) == 0 {
		return Version{}, fmt.Errorf("empty version output")
	}

	// "Python 3.10.2" -> "3.10.2"; bare "3.10.2" is accepted too.
	raw := fields[len(fields)-1]

	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return Version{}, fmt.Errorf("unrecognized version %q", raw)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("unrecognized major version in %q: %w", raw, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, fmt.Errorf("unrecognized minor version in %q: %w", raw, err)
	}

	v := Version{Major: major, Minor: minor}
	if len(parts) > 2 {
		// Some builds carry suffixes like "3.10.2+"; tolerate them.
		if patch, err := strconv.Atoi(strings.TrimRight(parts[2], "+")); err == nil {
			v.Patch = patch
		}
	}
	return v, nil
}
