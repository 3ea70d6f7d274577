package render

import (
	"html"
	"regexp"
	"strings"
)

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

// formatInline escapes the text for HTML and then expands **bold**
// spans. Escaping runs first, so characters inside a span are already
// safe. The pattern is non-greedy; nested or unmatched markers pass
// through as literal text.
func formatInline(s string) string {
	return boldRe.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}

// splitLines splits on bare \n or \r\n.
func splitLines(src string) []string {
	return strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
}

// headingLevel returns the heading depth (1-6) of a trimmed line, or 0
// when the line is not a heading.
func headingLevel(t string) int {
	n := 0
	for n < len(t) && t[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return 0
	}
	return n
}

// bulletText strips a leading "-" or "*" list marker and returns the
// trimmed item text. The marker must be followed by whitespace or end
// the line, so a line opening with **bold** is not read as a bullet.
func bulletText(t string) (string, bool) {
	if t == "" || (t[0] != '-' && t[0] != '*') {
		return "", false
	}
	rest := t[1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
