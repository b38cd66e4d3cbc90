package songs

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"musicwordle/internal/types"
)

// ErrIncompleteRecord is returned when a catalog record lacks id, title or artist.
var ErrIncompleteRecord = errors.New("incomplete source record")

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var releaseDateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

// RawRecord is what a catalog adapter hands over before normalization.
type RawRecord struct {
	ID          string
	Title       string
	Artist      string
	Album       string
	ReleaseDate string // structured date when the catalog has one
	Description string // free text searched for a year otherwise
	Genre       string // authoritative genre, if any
	PreviewURL  string
	ImageURL    string
}

// Assemble builds a canonical Song from rec. now supplies the fallback year.
func Assemble(rec RawRecord, now time.Time) (types.Song, error) {
	var missing []string
	if strings.TrimSpace(rec.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(rec.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(rec.Artist) == "" {
		missing = append(missing, "artist")
	}
	if len(missing) > 0 {
		return types.Song{}, fmt.Errorf("%w: record %q missing %s", ErrIncompleteRecord, rec.ID, strings.Join(missing, ", "))
	}

	genre := strings.TrimSpace(rec.Genre)
	if genre == "" {
		genre = ClassifyGenre(rec.Title)
	}

	return types.Song{
		ID:            rec.ID,
		Title:         NormalizeTitle(rec.Title),
		Artist:        rec.Artist,
		Album:         rec.Album,
		Year:          ExtractYear(rec.ReleaseDate, rec.Description, now),
		Genre:         genre,
		PreviewURL:    rec.PreviewURL,
		AlbumImageURL: rec.ImageURL,
	}, nil
}

// ExtractYear prefers a structured release date, then the first year-like
// token in description, then now's year.
func ExtractYear(releaseDate, description string, now time.Time) int {
	if releaseDate = strings.TrimSpace(releaseDate); releaseDate != "" {
		for _, layout := range releaseDateLayouts {
			if t, err := time.Parse(layout, releaseDate); err == nil {
				return t.Year()
			}
		}
	}

	if m := yearPattern.FindString(description); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			return y
		}
	}

	return now.Year()
}
