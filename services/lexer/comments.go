package lexer

import "strings"

const (
	blockCommentStart = "/*"
	blockCommentEnd   = "*/"
	lineCommentMarker = "//"
)

// StripComments removes C style comments from lines and returns a new slice
// of the same length. Lines touched by a block comment are blanked entirely,
// including any code before "/*" or after "*/" on the same line.
func StripComments(lines []string) []string {
	stripped := make([]string, 0, len(lines))
	inBlockComment := false

	for _, line := range lines {
		var out string
		out, inBlockComment = stripLine(line, inBlockComment)
		stripped = append(stripped, out)
	}

	return stripped
}

// StripCommentsText is StripComments over a newline separated buffer.
func StripCommentsText(content string) string {
	return strings.Join(StripComments(strings.Split(content, "\n")), "\n")
}

func stripLine(line string, inBlockComment bool) (string, bool) {
	switch {
	case inBlockComment:
		return "", !strings.Contains(line, blockCommentEnd)
	case strings.Contains(line, blockCommentStart):
		// A block closed on the same line still leaves us inside the comment
		return "", true
	}

	if code, _, found := strings.Cut(line, lineCommentMarker); found {
		return code, false
	}

	return line, false
}
