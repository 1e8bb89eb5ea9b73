package tags

import "strings"

// DefaultLanguages are the language codes recognized in tag heads when no
// list is configured.
var DefaultLanguages = []string{"en", "de", "fr", "ja", "es", "it", "pt", "th", "no"}

// IsLanguageCode reports whether code is one of languages, ignoring case. A
// nil list falls back to DefaultLanguages.
func IsLanguageCode(code string, languages []string) bool {
	if languages == nil {
		languages = DefaultLanguages
	}
	code = strings.ToLower(code)
	for _, l := range languages {
		if l == code {
			return true
		}
	}
	return false
}
