package types

import "strings"

// SplitRows splits schematic content into rows.
// Lines are separated by '\n'; a trailing '\r' and surrounding whitespace are
// removed from each line. A final line terminator does not start a new row,
// so "a\nb\n" has two rows and "" has none.
func SplitRows(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	}
	return lines
}
