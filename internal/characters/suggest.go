package characters

import "github.com/sahilm/fuzzy"

// Suggest returns the names matching query, best match first. An empty query
// returns names in their original order. A limit of zero or less means no
// limit.
func Suggest(query string, names []string, limit int) []string {
	var out []string
	if query == "" {
		out = append(out, names...)
	} else {
		for _, m := range fuzzy.Find(query, names) {
			out = append(out, m.Str)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
