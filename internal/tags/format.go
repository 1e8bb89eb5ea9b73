package tags

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceBeforeOpen  = regexp.MustCompile(`[ \t]+\[`)
	spaceAfterOpen   = regexp.MustCompile(`\[[ \t]+`)
	spaceBeforeClose = regexp.MustCompile(`[ \t]+\]`)
	spaceAfterClose  = regexp.MustCompile(`\][ \t]+`)
	glueBeforeOpen   = regexp.MustCompile(`([^\s\[])\[`)
	glueAfterClose   = regexp.MustCompile(`\]([^\s])`)
)

// Format normalizes spacing around tags: exactly one space separates a tag
// from surrounding words, brackets hug their content, and trailing
// whitespace is removed from every line. Newlines are preserved.
func Format(text string) string {
	text = spaceBeforeOpen.ReplaceAllString(text, " [")
	text = spaceAfterOpen.ReplaceAllString(text, "[")
	text = spaceBeforeClose.ReplaceAllString(text, "]")
	text = spaceAfterClose.ReplaceAllString(text, "]")
	text = glueBeforeOpen.ReplaceAllString(text, "$1 [")
	text = glueAfterClose.ReplaceAllString(text, "] $1")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}
