// Package section locates and replaces named Markdown sections while leaving
// the rest of the document untouched.
package section

import "strings"

// Upsert replaces the section introduced by the heading line
// "{level} {name}" with newBody, or appends the section to the end of the
// document when no such heading exists. The matched span runs from the
// heading to the next heading of equal or higher level (fewer or the same
// number of # marks), exclusive. Content outside the span is preserved
// byte for byte.
//
// When several sections share the same heading text only the first one is
// replaced; later duplicates ride along as opaque content of the spliced
// section's successors.
func Upsert(document, level, name, newBody string) string {
	heading := level + " " + name
	lines := strings.Split(document, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == heading {
			start = i
			break
		}
	}

	replacement := heading + "\n" + newBody

	if start < 0 {
		if document == "" {
			return replacement
		}
		return document + "\n\n" + replacement
	}

	// Both # and ## headings bound a spliced span: a headword H1 section
	// ends at the first ## section following it, never at end of document,
	// so re-splicing the H1 cannot swallow sibling ## sections.
	limit := len(level)
	if limit < 2 {
		limit = 2
	}
	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if lv := headingLevel(lines[i]); lv > 0 && lv <= limit {
			end = i
			break
		}
	}

	var out []string
	out = append(out, lines[:start]...)
	out = append(out, strings.Split(replacement, "\n")...)
	if end < len(lines) {
		// Trailing blank lines of the old span were absorbed above; put
		// back exactly one separator before the next section so repeated
		// splicing reaches a fixed point.
		out = append(out, "")
		out = append(out, lines[end:]...)
	}
	return strings.Join(out, "\n")
}

// headingLevel returns the number of leading # marks of a heading line, or 0
// when the line is not a heading.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}
