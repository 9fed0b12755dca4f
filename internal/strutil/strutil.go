// Package strutil has string helpers for templating command lines and
// aligning console output.
package strutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Format substitutes prefix+name+suffix placeholders in template, e.g.
// Format("cp $(src) $(dst)", "$(", ")", vars). It is meant for templates full
// of braces where fmt-style escaping gets in the way.
func Format(template, prefix, suffix string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, prefix+k+suffix, v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// PrefixLines puts prefix in front of every line of s. A trailing newline does
// not produce a prefixed empty line.
func PrefixLines(prefix, s string) string {
	if !strings.Contains(s, "\n") {
		return prefix + s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == len(lines)-1 && l == "" {
			break
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// ScreenWidth is the number of terminal cells s occupies.
func ScreenWidth(s string) int { return runewidth.StringWidth(s) }
