package fetch

import (
	"regexp"
	"strings"
)

var (
	blankRun = regexp.MustCompile(`\n{3,}`)
	spaceRun = regexp.MustCompile(`[ \t\f\v]+`)
)

// CleanText normalizes a pasted or file-provided job description.
// Line endings become LF, runs of spaces collapse, markdown headings and bullets
// lose their indentation, and at most one blank line separates paragraphs.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if isHeading(trimmed) || isBullet(trimmed) {
		return spaceRun.ReplaceAllString(trimmed, " ")
	}
	// nested content keeps a two-space indent
	indent := ""
	if len(line)-len(strings.TrimLeft(line, " \t")) > 0 {
		indent = "  "
	}
	return indent + spaceRun.ReplaceAllString(trimmed, " ")
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "#")
}

func isBullet(line string) bool {
	for _, marker := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}
