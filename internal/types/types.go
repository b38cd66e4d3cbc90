package types

import (
	"slices"
	"time"
)

// MaxAttempts is the number of guesses a player gets per day.
const MaxAttempts = 6

type Song struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	Album         string `json:"album"`
	Year          int    `json:"year"`
	Genre         string `json:"genre"`
	PreviewURL    string `json:"previewUrl"`
	AlbumImageURL string `json:"albumImageUrl,omitempty"`
}

type HintType string

const (
	HintGenre  HintType = "genre"
	HintYear   HintType = "year"
	HintArtist HintType = "artist"
	HintAlbum  HintType = "album"
)

// HintOrder is the fixed reveal order.
var HintOrder = []HintType{HintGenre, HintYear, HintArtist, HintAlbum}

type Hint struct {
	Type     HintType `json:"type"`
	Content  string   `json:"content"`
	Revealed bool     `json:"revealed"`
}

type Guess struct {
	SongID    string    `json:"songId"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	IsCorrect bool      `json:"isCorrect"`
	Timestamp time.Time `json:"timestamp"`
}

type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusWon     GameStatus = "won"
	StatusLost    GameStatus = "lost"
)

// GameState is one player's round for a single calendar date.
type GameState struct {
	Date           string     `json:"date"`
	Song           *Song      `json:"song,omitempty"`
	Guesses        []Guess    `json:"guesses"`
	Hints          []Hint     `json:"hints"`
	Status         GameStatus `json:"status"`
	LastAccessTime time.Time  `json:"lastAccessTime"`
}

// IsOver reports whether guess submission is closed.
func (g GameState) IsOver() bool {
	return g.Status == StatusWon || g.Status == StatusLost
}

// RemainingAttempts returns how many guesses are left.
func (g GameState) RemainingAttempts() int {
	return max(MaxAttempts-len(g.Guesses), 0)
}

// Clone returns a copy that shares no slices or pointers with g.
func (g GameState) Clone() GameState {
	c := g
	c.Guesses = slices.Clone(g.Guesses)
	c.Hints = slices.Clone(g.Hints)
	if g.Song != nil {
		song := *g.Song
		c.Song = &song
	}
	return c
}
