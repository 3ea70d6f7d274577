package render

import (
	"fmt"
	"html"
	"strings"
)

const (
	sectionActors  = "Actors"
	sectionMethods = "Methods"
)

// flatState is the list state of the flat renderer's line loop.
type flatState int

const (
	stateOutside flatState = iota
	stateInList
)

// RenderRisks renders the risks document to an HTML fragment. It
// first tries the two-column Actors/Methods layout; when either
// section is missing or empty it falls back to a flat rendering of
// the entire original document. Never fails, never returns empty.
func RenderRisks(src string) string {
	sections := scanSections(src)
	actors, methods := sections[sectionActors], sections[sectionMethods]
	if len(actors) == 0 || len(methods) == 0 {
		return `<div class="risk-doc">` + renderFlat(src) + `</div>`
	}
	var b strings.Builder
	b.WriteString(`<div class="risk-columns">`)
	writeColumn(&b, sectionActors, actors)
	writeColumn(&b, sectionMethods, methods)
	b.WriteString("</div>")
	return b.String()
}

// scanSections collects bullet and bare non-blank lines under the
// recognized level-3 headings. Any other heading, at any level, clears
// the current section, so its lines are dropped from the map (the flat
// fallback still shows them).
func scanSections(src string) map[string][]string {
	out := map[string][]string{}
	current := ""
	for _, line := range splitLines(src) {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if level := headingLevel(t); level > 0 {
			title := strings.TrimSpace(t[level:])
			if level == 3 && (title == sectionActors || title == sectionMethods) {
				current = title
			} else {
				current = ""
			}
			continue
		}
		if current == "" {
			continue
		}
		if item, ok := bulletText(t); ok {
			out[current] = append(out[current], item)
		} else {
			out[current] = append(out[current], t)
		}
	}
	return out
}

// Column items are escaped without bold expansion; only the flat path
// expands **bold**.
func writeColumn(b *strings.Builder, title string, items []string) {
	b.WriteString(`<div class="risk-col"><h3>` + title + "</h3><ul>")
	for _, it := range items {
		b.WriteString("<li>" + html.EscapeString(it) + "</li>")
	}
	b.WriteString("</ul></div>")
}

// renderFlat converts the risks subset (headings, bullet lists,
// paragraphs, **bold** spans) to HTML in document order. listMode
// widens the list rules under level >=3 headings: bare non-blank
// lines there become list items without needing a marker.
func renderFlat(src string) string {
	var b strings.Builder
	state := stateOutside
	listMode := false

	closeList := func() {
		if state == stateInList {
			b.WriteString("</ul>")
			state = stateOutside
		}
	}
	openList := func() {
		if state != stateInList {
			b.WriteString("<ul>")
			state = stateInList
		}
	}

	for _, line := range splitLines(src) {
		t := strings.TrimSpace(line)
		if t == "" {
			closeList()
			listMode = false
			continue
		}
		if level := headingLevel(t); level > 0 {
			closeList()
			fmt.Fprintf(&b, "<h%d>%s</h%d>", level, formatInline(strings.TrimSpace(t[level:])), level)
			listMode = level >= 3
			continue
		}
		if item, ok := bulletText(t); ok {
			openList()
			b.WriteString("<li>" + formatInline(item) + "</li>")
			continue
		}
		if listMode {
			// Bare line inside a deep section reads as an item.
			openList()
			b.WriteString("<li>" + formatInline(t) + "</li>")
			continue
		}
		closeList()
		b.WriteString("<p>" + formatInline(t) + "</p>")
	}
	closeList()
	return b.String()
}
