// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version orders the version strings reported by pkg-config, vcpkg and
// git tags.
//
// Versions that are valid semantic versions on both sides are ordered by
// golang.org/x/mod/semver, so a pre-release sorts before its release. Anything else falls back to the GNU/Debian ordering
// used by dpkg and strverscmp: non-digit runs compare character by character
// ('~' before end of string, letters before other punctuation) and digit runs
// compare numerically.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Compare returns -1, 0 or 1 depending on whether a sorts before, equal to or
// after b.
func Compare(a, b string) int {
	if sa, sb, ok := asSemver(a, b); ok {
		return semverCompare(sa, sb)
	}
	return gnuCompare(a, b)
}

// AtLeast reports whether have satisfies the lower bound min. An empty min is
// always satisfied. A pre-release never satisfies its own release.
func AtLeast(have, min string) bool {
	if min == "" {
		return true
	}
	return Compare(have, min) >= 0
}

// asSemver converts both strings to semver form when both are valid semantic
// versions, with or without a leading v.
func asSemver(a, b string) (string, string, bool) {
	sa, sb := "v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v")
	if !semver.IsValid(sa) || !semver.IsValid(sb) {
		return "", "", false
	}
	return sa, sb, true
}

// semverCompare orders valid semantic versions. Pre-release and build tails
// of otherwise equal versions compare with the GNU ordering so that rc10 sorts
// after rc9.
func semverCompare(a, b string) int {
	pa, pb := semver.Prerelease(a), semver.Prerelease(b)
	if pa == "" || pb == "" {
		if c := semver.Compare(a, b); c != 0 {
			return c
		}
	} else if c := semver.Compare(core(a), core(b)); c != 0 {
		return c
	} else if c := gnuCompare(pa, pb); c != 0 {
		return c
	}
	return gnuCompare(semver.Build(a), semver.Build(b))
}

// core strips the pre-release and build tails from a valid semver.
func core(v string) string {
	v = strings.TrimSuffix(v, semver.Build(v))
	return strings.TrimSuffix(v, semver.Prerelease(v))
}

func gnuCompare(a, b string) int {
	for a != "" || b != "" {
		var na, nb string
		na, a = cut(a, notDigit)
		nb, b = cut(b, notDigit)
		if c := compareText(na, nb); c != 0 {
			return c
		}

		var da, db string
		da, a = cut(a, isDigit)
		db, b = cut(b, isDigit)
		if c := compareNumber(da, db); c != 0 {
			return c
		}
	}
	return 0
}

// cut splits s after the longest prefix whose bytes satisfy fn.
func cut(s string, fn func(byte) bool) (prefix, rest string) {
	i := 0
	for i < len(s) && fn(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func compareText(a, b string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		wa, wb := weight(a, i), weight(b, i)
		if wa != wb {
			return sign(wa - wb)
		}
	}
	return 0
}

// weight gives the sort weight of s[i]; positions past the end weigh 0.
func weight(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	switch c := s[i]; {
	case c == '~':
		return -1
	case isLetter(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

func compareNumber(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return sign(len(a) - len(b))
	}
	return strings.Compare(a, b)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func notDigit(c byte) bool { return !isDigit(c) }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
