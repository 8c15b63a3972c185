package pdfbake

import "strings"

// DefaultWrapWidth is the line width Wordwrap uses when none is given
// through the template filter.
const DefaultWrapWidth = 60

// Wordwrap splits text into lines of at most maxChars characters,
// breaking at word boundaries. A word longer than the limit gets a
// line of its own. Available as the "wordwrap" template filter and as
// a helper for custom processing hooks.
func Wordwrap(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if maxChars <= 0 {
		maxChars = DefaultWrapWidth
	}

	var lines []string
	var current []string
	width := 0

	for _, word := range strings.Fields(text) {
		sep := 0
		if width > 0 {
			sep = 1
		}
		if width+len(word)+sep <= maxChars {
			current = append(current, word)
			width += len(word) + sep
			continue
		}
		if len(current) > 0 {
			lines = append(lines, strings.Join(current, " "))
		}
		current = []string{word}
		width = len(word)
	}

	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
