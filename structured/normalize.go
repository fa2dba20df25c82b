package structured

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoJSONObject = errors.New("no JSON object found in model output")

// A language tag is only consumed when the fence opens a line, or when it is "json".
// Elsewhere a bare backtick run is dropped and the text after it is kept.
var (
	lineFence = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+.-]*[ \t]*\r?\n?")
	jsonFence = regexp.MustCompile("```json\r?\n?")
	bareFence = regexp.MustCompile("```\r?\n?")
)

// StripCodeFences removes every fence marker, then trims the result.
func StripCodeFences(text string) string {
	text = lineFence.ReplaceAllString(text, "")
	text = jsonFence.ReplaceAllString(text, "")
	text = bareFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractObject slices text from the first '{' to the last '}' inclusive.
func ExtractObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < 0 || end < start {
		return "", ErrNoJSONObject
	}
	return text[start : end+1], nil
}

func Normalize(text string) (string, error) {
	return ExtractObject(StripCodeFences(text))
}
