package game

import (
	"fmt"
	"strings"
	"time"

	"musicwordle/internal/types"
)

const (
	glyphWon   = "🟪 "
	glyphBlank = "⬜ "
	markWon    = "🎵"
	markLost   = "❌"
	shareCTA   = "Play at: musicwordle.com"
)

// FormatShare builds the spoiler-free result text. Every guess gets the same
// glyph, chosen by the final status. day is printed as D/M/YYYY.
func FormatShare(status types.GameStatus, guessCount int, song types.Song, day time.Time) string {
	won := status == types.StatusWon

	score := fmt.Sprintf("X/%d", types.MaxAttempts)
	glyph, mark := glyphBlank, markLost
	if won {
		score = fmt.Sprintf("%d/%d", guessCount, types.MaxAttempts)
		glyph, mark = glyphWon, markWon
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MusicWordle %d/%d/%d - %s\n\n", day.Day(), int(day.Month()), day.Year(), score)
	b.WriteString(strings.Repeat(glyph, max(guessCount, 0)))
	fmt.Fprintf(&b, "\n\n%s %s - %s %s\n\n%s", mark, song.Title, song.Artist, mark, shareCTA)
	return b.String()
}

// ShareState formats s, or returns false while the game is still running.
func ShareState(s types.GameState, day time.Time) (string, bool) {
	if !s.IsOver() || s.Song == nil {
		return "", false
	}
	return FormatShare(s.Status, len(s.Guesses), *s.Song, day), true
}
