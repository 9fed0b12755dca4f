package executil

import "strings"

// QuoteArg protects a path argument with spaces for the target platform's
// shell: double quotes on windows, escaped spaces elsewhere.
func QuoteArg(goos, s string) string {
	if goos == "windows" {
		if strings.HasPrefix(s, `"`) || strings.HasSuffix(s, `"`) {
			return s
		}
		return `"` + s + `"`
	}
	return strings.ReplaceAll(s, " ", `\ `)
}
