package songs

import (
	"regexp"
	"strings"
)

// DefaultGenre is used when nothing in the title hints at a genre.
const DefaultGenre = "Pop"

// KnownGenres are matched as plain substrings, first hit wins.
var KnownGenres = []string{
	"Pop", "Rock", "Hip Hop", "Rap", "R&B", "Latin",
	"Electronic", "Dance", "Country", "Jazz", "Classical",
	"Metal", "Indie", "Folk", "Reggae", "Blues",
}

var genreKeywords = []struct {
	pattern *regexp.Regexp
	genre   string
}{
	{regexp.MustCompile(`trap|rap|hip hop|beats`), "Hip Hop"},
	{regexp.MustCompile(`edm|house|techno|trance`), "Electronic"},
	{regexp.MustCompile(`rock|metal|punk`), "Rock"},
	{regexp.MustCompile(`pop|hit`), "Pop"},
}

// ClassifyGenre guesses a genre label from free text.
func ClassifyGenre(title string) string {
	lower := strings.ToLower(title)

	for _, g := range KnownGenres {
		if strings.Contains(lower, strings.ToLower(g)) {
			return g
		}
	}

	for _, kw := range genreKeywords {
		if kw.pattern.MatchString(lower) {
			return kw.genre
		}
	}

	return DefaultGenre
}
