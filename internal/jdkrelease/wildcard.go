package jdkrelease

import "strings"

// Match reports whether version matches pattern. The pattern supports the
// glob tokens '*' (any run of characters) and '?' (exactly one character),
// compared case-insensitively. An empty pattern matches only the empty
// version; there is no partial-match scoring.
func Match(pattern, version string) bool {
	return globMatch(strings.ToLower(pattern), strings.ToLower(version))
}

func globMatch(pattern, s string) bool {
	var pi, si int
	// position after the last '*' seen, for backtracking
	starPi, starSi := -1, 0

	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			starPi = pi
			starSi = si
			pi++
		case starPi >= 0:
			// let the previous '*' consume one more character
			starSi++
			pi = starPi + 1
			si = starSi
		default:
			return false
		}
	}

	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
