// Package game holds the per-day guess and hint state machine.
package game

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"musicwordle/internal/types"
)

// Kind classifies a notification for the client.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a user-facing message produced by an engine transition.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier receives the notifications the engine emits.
type Notifier interface {
	Notify(Notification)
}

// Recorder is a Notifier that keeps every notification in order.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Notification, bool) {
	if len(r.Notifications) == 0 {
		return Notification{}, false
	}
	return r.Notifications[len(r.Notifications)-1], true
}

type discard struct{}

func (discard) Notify(Notification) {}

var hintLabels = map[types.HintType]string{
	types.HintGenre:  "Genre",
	types.HintYear:   "Release year",
	types.HintArtist: "Artist",
	types.HintAlbum:  "Album",
}

const (
	msgCorrect   = "Correct! You guessed the song of the day."
	msgIncorrect = "Incorrect. Try again."
)

// Engine applies game transitions. It never mutates the state it is given;
// every operation returns a new GameState.
type Engine struct {
	notifier Notifier
	now      func() time.Time
}

// NewEngine returns an engine reporting to n. A nil n discards notifications
// and a nil now uses time.Now.
func NewEngine(n Notifier, now func() time.Time) *Engine {
	if n == nil {
		n = discard{}
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{notifier: n, now: now}
}

// Start binds song to the game for date, rolling the state over first when
// it belongs to another day. Hints are built once per day.
func (e *Engine) Start(state types.GameState, date string, song types.Song) types.GameState {
	next := clone(state)
	if next.Date != date {
		next = e.ResetForNewDay(next, date)
	}
	if next.Status == "" {
		next.Status = types.StatusPlaying
	}

	bound := song
	next.Song = &bound
	if len(next.Hints) == 0 {
		next.Hints = buildHints(song)
	}
	return next
}

// SubmitGuess records candidate as the next guess. It is a no-op once the
// game is over or before a song is bound.
func (e *Engine) SubmitGuess(state types.GameState, candidate types.Song) types.GameState {
	if state.Status != types.StatusPlaying || state.Song == nil || len(state.Guesses) >= types.MaxAttempts {
		return state
	}

	next := clone(state)
	correct := candidate.ID == next.Song.ID
	next.Guesses = append(next.Guesses, types.Guess{
		SongID:    candidate.ID,
		Title:     candidate.Title,
		Artist:    candidate.Artist,
		IsCorrect: correct,
		Timestamp: e.now(),
	})

	switch {
	case correct:
		next.Status = types.StatusWon
		e.notifier.Notify(Notification{Kind: KindSuccess, Message: msgCorrect})
	case len(next.Guesses) >= types.MaxAttempts:
		next.Status = types.StatusLost
		e.notifier.Notify(Notification{
			Kind:    KindError,
			Message: fmt.Sprintf("Out of attempts. The song was %q by %s.", next.Song.Title, next.Song.Artist),
		})
	default:
		e.notifier.Notify(Notification{Kind: KindError, Message: msgIncorrect})
	}
	return next
}

// RevealNextHint reveals the first hidden hint. Hints stay revealable after
// the game ends; it is a no-op only once all are shown.
func (e *Engine) RevealNextHint(state types.GameState) types.GameState {
	i := slices.IndexFunc(state.Hints, func(h types.Hint) bool { return !h.Revealed })
	if i < 0 {
		return state
	}

	next := clone(state)
	next.Hints[i].Revealed = true
	hint := next.Hints[i]
	e.notifier.Notify(Notification{
		Kind:    KindSuccess,
		Message: fmt.Sprintf("Hint revealed: %s: %s", hintLabels[hint.Type], hint.Content),
	})
	return next
}

// ResetForNewDay clears the state for date. The song is unbound until the
// next Start.
func (e *Engine) ResetForNewDay(state types.GameState, date string) types.GameState {
	return types.GameState{
		Date:           date,
		Status:         types.StatusPlaying,
		Guesses:        []types.Guess{},
		Hints:          []types.Hint{},
		LastAccessTime: state.LastAccessTime,
	}
}

// Restart replays the current day: same song, no guesses, hints hidden.
func (e *Engine) Restart(state types.GameState) types.GameState {
	next := e.ResetForNewDay(state, state.Date)
	if state.Song != nil {
		next = e.Start(next, state.Date, *state.Song)
	}
	return next
}

func buildHints(song types.Song) []types.Hint {
	content := map[types.HintType]string{
		types.HintGenre:  song.Genre,
		types.HintYear:   strconv.Itoa(song.Year),
		types.HintArtist: song.Artist,
		types.HintAlbum:  song.Album,
	}
	hints := make([]types.Hint, 0, len(types.HintOrder))
	for _, t := range types.HintOrder {
		hints = append(hints, types.Hint{Type: t, Content: content[t]})
	}
	return hints
}

func clone(state types.GameState) types.GameState {
	next := state.Clone()
	if next.Guesses == nil {
		next.Guesses = []types.Guess{}
	}
	if next.Hints == nil {
		next.Hints = []types.Hint{}
	}
	return next
}
