package tags

import (
	"regexp"
	"strings"
)

// tagPattern matches a bracketed tag. The content may contain '[' but never
// ']', so nested tags surface as mismatched brackets.
var tagPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// Tag is a directive tag found in transcript text.
type Tag struct {
	// Full is the tag text as found, brackets included.
	Full string `json:"full" yaml:"full"`

	// Position is the offset of the opening bracket in the source text.
	Position int `json:"position" yaml:"position"`

	// Character is the voice name from the tag head. It may be empty.
	Character string `json:"character" yaml:"character"`

	// Language is set only for language:character heads.
	Language string `json:"language" yaml:"language"`

	// Parameters maps lower-cased parameter names to their values.
	Parameters map[string]string `json:"parameters" yaml:"parameters"`
}

// Content returns the tag text without the surrounding brackets.
func (t Tag) Content() string {
	return strings.TrimSuffix(strings.TrimPrefix(t.Full, "["), "]")
}

// End returns the offset just past the closing bracket.
func (t Tag) End() int {
	return t.Position + len(t.Full)
}

// PauseDuration reports the duration token of a [pause:<duration>] tag.
func (t Tag) PauseDuration() (string, bool) {
	head, _, _ := strings.Cut(t.Content(), "|")
	name, value, ok := strings.Cut(strings.TrimSpace(head), ":")
	if !ok || !strings.EqualFold(strings.TrimSpace(name), "pause") {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Validate checks every tag in text and reports the first syntax error as a
// user-facing message. It returns (true, "") when all tags are well formed.
func Validate(text string) (bool, string) {
	if err := ValidateErr(text); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// ValidateErr is like Validate but returns a *SyntaxError describing the first
// malformed tag, or nil.
func ValidateErr(text string) error {
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		content := text[m[2]:m[3]]
		full := "[" + content + "]"

		if strings.Count(content, "[") != strings.Count(content, "]") {
			return &SyntaxError{Code: ErrorCodeMismatchedBrackets, Tag: full, Position: m[0]}
		}

		if !strings.Contains(content, "|") {
			continue
		}

		parts := strings.Split(content, "|")
		for _, part := range parts[1:] {
			name, _, ok := strings.Cut(part, ":")
			if !ok {
				return &SyntaxError{Code: ErrorCodeInvalidParameter, Tag: full, Segment: part, Position: m[0]}
			}
			if strings.TrimSpace(name) == "" {
				return &SyntaxError{Code: ErrorCodeEmptyParameterName, Tag: full, Segment: part, Position: m[0]}
			}
		}
	}
	return nil
}

// Extract returns every tag in text in order of appearance. Parameter
// segments without a colon are skipped rather than rejected.
func Extract(text string) []Tag {
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	tags := make([]Tag, 0, len(matches))

	for _, m := range matches {
		content := text[m[2]:m[3]]
		tags = append(tags, parseTag(content, m[0]))
	}

	return tags
}

// parseTag builds a Tag from bracket content found at position.
func parseTag(content string, position int) Tag {
	tag := Tag{
		Full:       "[" + content + "]",
		Position:   position,
		Parameters: make(map[string]string),
	}

	parts := strings.Split(content, "|")

	// A period in the head means a decimal value such as pause:1.5s, not a
	// language prefix.
	head := strings.TrimSpace(parts[0])
	if strings.Contains(head, ":") && !strings.Contains(head, ".") {
		lang, char, _ := strings.Cut(head, ":")
		tag.Language = strings.TrimSpace(lang)
		tag.Character = strings.TrimSpace(char)
	} else {
		tag.Character = head
	}

	for _, part := range parts[1:] {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		tag.Parameters[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}

	return tag
}

// InsertTagAtPosition inserts tag followed by a single space. When
// wrapSelection is set and both selection bounds are non-negative, the tag is
// placed in front of the selected span; otherwise it goes at position.
// Offsets are clamped to the text.
func InsertTagAtPosition(text, tag string, position int, wrapSelection bool, selectionStart, selectionEnd int) string {
	if wrapSelection && selectionStart >= 0 && selectionEnd >= 0 {
		start := clamp(selectionStart, 0, len(text))
		end := clamp(selectionEnd, start, len(text))

		before := text[:start]
		selected := text[start:end]
		after := text[end:]
		return before + tag + " " + selected + after
	}

	position = clamp(position, 0, len(text))
	return text[:position] + tag + " " + text[position:]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
