package render

import (
	"html"
	"regexp"
	"strings"
)

// A divider qualifies when, after trimming, it opens with an optional
// pipe followed by a run of dashes/colons.
var dividerRe = regexp.MustCompile(`^\|?\s*[:\-]+`)

// splitCells splits a table line on pipes, trims each cell, and drops
// empty cells. Outer pipes produce empty edge cells, which vanish
// here; an interior empty cell from a doubled pipe vanishes the same
// way and shifts the row left. Accepted source behavior.
func splitCells(line string) []string {
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}

// ExtractTable scans src for the first markdown pipe table (header +
// alignment divider + optional body rows) and renders it as an HTML
// <table>. The second return is false when no table qualifies; the
// caller falls back to a verbatim block.
func ExtractTable(src string) (string, bool) {
	return ExtractTableLogos(src, nil)
}

// ExtractTableLogos is ExtractTable with header icons: a header cell
// whose exact trimmed text keys logos gets a span with that class in
// front of the escaped label. Purely a styling concern.
func ExtractTableLogos(src string, logos map[string]string) (string, bool) {
	lines := splitLines(src)
	for i := 0; i+1 < len(lines); i++ {
		header, divider := lines[i], lines[i+1]
		if !strings.Contains(header, "|") || !strings.Contains(divider, "|") {
			continue
		}
		if !dividerRe.MatchString(strings.TrimSpace(divider)) {
			continue
		}
		head := splitCells(header)
		if len(head) == 0 || len(splitCells(divider)) == 0 {
			continue
		}

		// Body rows run until the first line without a pipe or
		// without any non-empty cell. Ragged rows are kept as-is.
		var rows [][]string
		for j := i + 2; j < len(lines); j++ {
			if !strings.Contains(lines[j], "|") {
				break
			}
			cells := splitCells(lines[j])
			if len(cells) == 0 {
				break
			}
			rows = append(rows, cells)
		}
		return writeTable(head, rows, logos), true
	}
	return "", false
}

func writeTable(head []string, rows [][]string, logos map[string]string) string {
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, c := range head {
		b.WriteString("<th>")
		if cls, ok := logos[c]; ok {
			b.WriteString(`<span class="logo ` + cls + `"></span>`)
		}
		b.WriteString(html.EscapeString(c))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, c := range row {
			b.WriteString("<td>" + html.EscapeString(c) + "</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
