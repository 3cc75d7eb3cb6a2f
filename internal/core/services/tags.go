package services

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTags = 10

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true,
}

// ExtractTags keeps the first ten meaningful words of a prompt as a
// comma-joined tag string used for memory search.
func ExtractTags(prompt string) string {
	words := wordPattern.FindAllString(strings.ToLower(prompt), -1)
	tags := make([]string, 0, maxTags)
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 || stopWords[w] {
			continue
		}
		tags = append(tags, w)
		if len(tags) == maxTags {
			break
		}
	}
	return strings.Join(tags, ",")
}
