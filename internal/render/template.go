// Package render turns a grouped release into Markdown text or a Word
// document.
package render

import (
	"regexp"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{([\p{L}\p{N}_.-]+)\}`)

// Expand replaces every {name} in tpl with data[name]. Unknown names expand
// to the empty string. Substituted values are not expanded again.
func Expand(tpl string, data map[string]string) string {
	if !strings.Contains(tpl, "{") {
		return tpl
	}
	return placeholderRe.ReplaceAllStringFunc(tpl, func(m string) string {
		return data[m[1:len(m)-1]]
	})
}

// nonBlankLines splits text into trimmed lines and drops the blank ones.
func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
