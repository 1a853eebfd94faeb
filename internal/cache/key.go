package cache

import (
	"strings"
)

// QueryText is the display query sent upstream, e.g. "plumber in Austin, TX".
func QueryText(keyword, city, state string) string {
	keyword = collapse(keyword)
	location := collapse(city)
	if s := collapse(state); s != "" {
		location += ", " + s
	}
	return keyword + " in " + location
}

// NormalizeKey derives the cache key: lowercase with whitespace collapsed, so
// queries differing only in case or spacing share an entry.
func NormalizeKey(text string) string {
	return strings.ToLower(collapse(text))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
