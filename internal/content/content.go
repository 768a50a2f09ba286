// Package content derives title, body and hashtags from generated post text.
// Every function is pure; parsing happens at read time and nothing here is stored.
package content

import (
	"strings"
	"unicode/utf8"
)

// Parsed is the read-side view of a post's raw content.
type Parsed struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Hashtags string `json:"hashtags"`
}

// titleDecoration holds the characters stripped from the first line.
const titleDecoration = "#*"

// Parse splits raw content into title, body and hashtags. It never fails.
func Parse(raw string) Parsed {
	body, hashtags := SplitHashtags(raw)
	return Parsed{
		Title:    ExtractTitle(raw),
		Body:     body,
		Hashtags: hashtags,
	}
}

// ExtractTitle returns the first line with every '#' and '*' removed, trimmed.
// The result may be empty when the first line is only decoration.
func ExtractTitle(raw string) string {
	first, _, _ := strings.Cut(raw, "\n")
	first = strings.Map(func(r rune) rune {
		if strings.ContainsRune(titleDecoration, r) {
			return -1
		}
		return r
	}, first)
	return strings.TrimSpace(first)
}

// SplitHashtags partitions lines into body and hashtag groups.
// A line is a hashtag line when its trimmed form starts with '#'. Source order
// is kept within each group. The body is trimmed after joining; hashtags are not.
func SplitHashtags(raw string) (body, hashtags string) {
	var bodyLines, tagLines []string
	for _, line := range strings.Split(raw, "\n") {
		if IsHashtagLine(line) {
			tagLines = append(tagLines, line)
		} else {
			bodyLines = append(bodyLines, line)
		}
	}
	return strings.TrimSpace(strings.Join(bodyLines, "\n")), strings.Join(tagLines, "\n")
}

// IsHashtagLine reports whether the trimmed line starts with '#'.
func IsHashtagLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// Preview returns the first n characters (runes) of s.
func Preview(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// CountChars returns the character count as runes (not bytes).
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}
