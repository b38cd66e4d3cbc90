// Package songs turns raw catalog records into canonical songs.
package songs

import (
	"regexp"
	"strings"
)

// Applied in order; each removes at most one annotation.
var titleAnnotationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\(Official.*?\)`),
	regexp.MustCompile(`(?i)\[Official.*?\]`),
	regexp.MustCompile(`(?i)\(Lyric.*?\)`),
	regexp.MustCompile(`(?i)\[Lyric.*?\]`),
	regexp.MustCompile(`(?i)\(Audio.*?\)`),
	regexp.MustCompile(`(?i)\[Audio.*?\]`),
	regexp.MustCompile(`(?i)\(Music.*?\)`),
	regexp.MustCompile(`(?i)\[Music.*?\]`),
	regexp.MustCompile(`(?i)\(ft\..*?\)`),
	regexp.MustCompile(`(?i)\[ft\..*?\]`),
	regexp.MustCompile(`(?i)\(feat\..*?\)`),
	regexp.MustCompile(`(?i)\[feat\..*?\]`),
}

// NormalizeTitle strips promotional annotations such as "(Official Video)"
// or "[feat. X]" from a catalog title and trims the result.
func NormalizeTitle(raw string) string {
	title := raw
	for _, p := range titleAnnotationPatterns {
		title = removeFirst(p, title)
	}
	return strings.TrimSpace(title)
}

func removeFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}
