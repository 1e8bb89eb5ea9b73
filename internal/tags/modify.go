package tags

import (
	"strings"
)

// ModifyTagContent rewrites the content of the tag at caret. A tag qualifies
// when it ends right before the caret, optionally followed by one space, or
// when it encloses the caret. The returned caret sits just past the closing
// bracket. ok is false when no tag qualifies and text is returned unchanged.
func ModifyTagContent(text string, caret int, modify func(content string) string) (newText string, newCaret int, ok bool) {
	caret = clamp(caret, 0, len(text))

	start, end, found := tagAt(text, caret)
	if !found {
		return text, caret, false
	}

	content := modify(text[start+1 : end])
	newText = text[:start+1] + content + "]" + text[end+1:]
	return newText, start + 1 + len(content) + 1, true
}

// tagAt returns the offsets of the opening and closing brackets of the tag at
// caret.
func tagAt(text string, caret int) (start, end int, ok bool) {
	switch {
	case caret > 0 && text[caret-1] == ']':
		end = caret - 1
	case caret > 1 && text[caret-1] == ' ' && text[caret-2] == ']':
		end = caret - 2
	default:
		return enclosingTag(text, caret)
	}

	depth := 1
	for i := end - 1; i >= 0; i-- {
		switch text[i] {
		case ']':
			depth++
		case '[':
			depth--
			if depth == 0 {
				return i, end, true
			}
		}
	}
	return 0, 0, false
}

// enclosingTag finds the nearest unmatched '[' before caret and its matching
// ']', and reports whether that span contains caret.
func enclosingTag(text string, caret int) (start, end int, ok bool) {
	depth := 0
	for i := caret - 1; i >= 0; i-- {
		switch text[i] {
		case ']':
			depth++
		case '[':
			if depth > 0 {
				depth--
				continue
			}

			inner := 1
			for j := i + 1; j < len(text); j++ {
				switch text[j] {
				case '[':
					inner++
				case ']':
					inner--
					if inner == 0 {
						return i, j, j >= caret
					}
				}
			}
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// insertNew inserts a fresh tag and a trailing space at caret.
func insertNew(text string, caret int, tag string) (string, int) {
	caret = clamp(caret, 0, len(text))
	return InsertTagAtPosition(text, tag, caret, false, -1, -1), caret + len(tag) + 1
}

// SetCharacter switches the character of the tag at caret, or inserts a new
// [char] tag when there is none. A language prefix is kept; a parameter-only
// tag such as [seed:5] gets the character prepended as a new head.
func SetCharacter(text string, caret int, char string, languages []string) (string, int) {
	newText, newCaret, ok := ModifyTagContent(text, caret, func(content string) string {
		parts := strings.Split(content, "|")
		before, _, found := strings.Cut(parts[0], ":")
		switch {
		case !found:
			parts[0] = char
		case IsLanguageCode(before, languages):
			parts[0] = before + ":" + char
		default:
			parts = append([]string{char}, parts...)
		}
		return strings.Join(parts, "|")
	})
	if ok {
		return newText, newCaret
	}
	return insertNew(text, caret, "["+char+"]")
}

// SetLanguage sets the language prefix of the tag at caret, or inserts a new
// [lang:] tag when there is none.
func SetLanguage(text string, caret int, lang string, languages []string) (string, int) {
	newText, newCaret, ok := ModifyTagContent(text, caret, func(content string) string {
		head, rest, hasParams := strings.Cut(content, "|")
		before, char, found := strings.Cut(head, ":")
		switch {
		case !found:
			return lang + ":" + content
		case !IsLanguageCode(before, languages):
			// Parameter-only tag: give it an empty-character head.
			return lang + ":|" + content
		case before == lang:
			return content
		}
		if hasParams {
			return lang + ":" + char + "|" + rest
		}
		return lang + ":" + char
	})
	if ok {
		return newText, newCaret
	}
	return insertNew(text, caret, "["+lang+":]")
}

// AddParameter sets name:value on the tag at caret, replacing an existing
// value for the same parameter. With no tag at caret a new [name:value] tag
// is inserted.
func AddParameter(text string, caret int, name, value string) (string, int) {
	param := name + ":" + value
	newText, newCaret, ok := ModifyTagContent(text, caret, func(content string) string {
		// The head is checked too so parameter-only tags like [seed:5] update
		// in place.
		parts := strings.Split(content, "|")
		for i, part := range parts {
			existing, _, found := strings.Cut(part, ":")
			if found && strings.EqualFold(strings.TrimSpace(existing), name) {
				parts[i] = param
				return strings.Join(parts, "|")
			}
		}
		return content + "|" + param
	})
	if ok {
		return newText, newCaret
	}
	return insertNew(text, caret, "["+param+"]")
}

// PauseTag returns the tag text for a pause of the given duration token.
func PauseTag(duration string) string {
	return "[pause:" + duration + "]"
}
