package core

import "regexp"

var placeholderPattern = regexp.MustCompile(`\s*\{\{\s?prerender\s?\}\}\s*`)

func HasPlaceholder(html string) bool {
	return placeholderPattern.MatchString(html)
}

// SubstitutePlaceholder replaces the first placeholder, along with the
// whitespace around it, with fragment. The fragment is inserted literally.
func SubstitutePlaceholder(html, fragment string) string {
	loc := placeholderPattern.FindStringIndex(html)
	if loc == nil {
		return html
	}
	return html[:loc[0]] + fragment + html[loc[1]:]
}
