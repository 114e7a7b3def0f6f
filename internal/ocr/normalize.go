package ocr

import (
	"regexp"
	"strings"
)

var (
	reSeparators = regexp.MustCompile(`[|\\/]+`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// Flatten collapses raw OCR text into a single canonical line for pattern
// matching: em-dashes become hyphens, line breaks and slash-family separators
// become spaces, whitespace runs collapse to one space.
func Flatten(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.ReplaceAll(s, "\n", " ")
	s = reSeparators.ReplaceAllString(s, " ")
	s = reWhitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeSpaces collapses inner whitespace runs and trims. Shared by the
// extraction engine for cleaning captured spans.
func NormalizeSpaces(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
