// Package tags parses, validates and edits the inline directive tags that
// annotate TTS transcript text, such as [Alice], [en:Bob|seed:42] or
// [pause:1s].
//
// A tag is any bracketed span that does not contain a closing bracket. Its
// content is split on "|": the first segment (the head) names the character,
// optionally prefixed by a language code, and every following segment is a
// param:value pair.
//
// Validation and extraction deliberately differ in strictness. Validate
// rejects parameter segments without a colon, while Extract skips them so
// partially typed tags can still be highlighted.
//
// All offsets in this package are byte offsets into the source text.
package tags
