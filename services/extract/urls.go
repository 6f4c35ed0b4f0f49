package extract

import "regexp"

// Scheme, then "//" or "\" separators, then a run of URL-safe characters.
// "+-=" inside the class is a range.
var urlRegex = regexp.MustCompile(`(?i)(?:https?|ftp|gopher|telnet|file):(?://|\\)+[\w:#@%/;()~_?+-=\\.&]*`)

// ExtractURLs returns every URL found in text, in order of appearance.
func ExtractURLs(text string) []string {
	return urlRegex.FindAllString(text, -1)
}
