package fsutil

import "strings"

// MatchGlob reports whether name matches pattern, case-insensitively. Only
// '*' and '?' are special; unlike filepath.Match, '*' also crosses '/'.
func MatchGlob(pattern, name string) bool {
	return globMatch(strings.ToLower(pattern), strings.ToLower(name))
}

func globMatch(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if globMatch(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(name) == 0 {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		default:
			if len(name) == 0 || pattern[0] != name[0] {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		}
	}
	return len(name) == 0
}
