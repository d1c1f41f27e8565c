package htmlutil

import (
	"html"
	"math"
	"regexp"
	"strings"
)

// WordsPerMinute is the reading speed used for chapter reading time estimates.
const WordsPerMinute = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

var blockTagPattern = regexp.MustCompile(`(?i)<br\s*/?>|</(p|div|li|blockquote|h[1-6])>`)

var multipleSpacesPattern = regexp.MustCompile(`[ \t]{2,}`)

// StripTags turns rich chapter content into plain text. Block level closing
// tags become line breaks so paragraphs survive, everything else is dropped
// and entities are decoded.
func StripTags(s string) string {
	if s == "" {
		return ""
	}

	result := blockTagPattern.ReplaceAllString(s, "\n")
	result = tagPattern.ReplaceAllString(result, "")
	result = html.UnescapeString(result)

	lines := strings.Split(result, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

// WordCount counts whitespace separated words of the plain text.
func WordCount(s string) int {
	return len(strings.Fields(StripTags(s)))
}

// ReadingTime estimates whole minutes to read s. Any non-empty text takes at
// least one minute.
func ReadingTime(s string) int {
	words := WordCount(s)
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}
