package extract

import (
	"slices"
	"strings"
)

// ContainsAny reports whether any keyword occurs literally in message.
func ContainsAny(message string, keywords []string) bool {
	return slices.ContainsFunc(keywords, func(keyword string) bool {
		return strings.Contains(message, keyword)
	})
}
