package main

import (
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"musicwordle/internal/daily"
	"musicwordle/internal/game"
	"musicwordle/internal/store"
	"musicwordle/internal/types"
)

type contextKey string

// App holds the shared dependencies of every handler.
type App struct {
	Songs        *daily.Service
	Store        store.Store
	Log          *zap.Logger
	Location     *time.Location
	Now          func() time.Time
	IsProduction bool
	CookieMaxAge time.Duration
	StartTime    time.Time

	RateLimitRPS   int
	RateLimitBurst int
	LimiterMap     map[string]*rate.Limiter
	LimiterMutex   sync.Mutex

	// Game state for a session is read, advanced and written under one stripe.
	sessionLocks [sessionLockStripes]sync.Mutex

	closers []io.Closer
}

// guessRequest is the body of POST /api/game/guess.
type guessRequest struct {
	ID     string `json:"id" binding:"required"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// hintView hides the content of hints that are not revealed yet.
type hintView struct {
	Type     types.HintType `json:"type"`
	Content  string         `json:"content,omitempty"`
	Revealed bool           `json:"revealed"`
}

// gameView is what the client sees of a GameState. The song stays hidden
// until the game is over.
type gameView struct {
	Date              string             `json:"date"`
	Status            types.GameStatus   `json:"status"`
	Guesses           []types.Guess      `json:"guesses"`
	Hints             []hintView         `json:"hints"`
	RemainingAttempts int                `json:"remainingAttempts"`
	MaxAttempts       int                `json:"maxAttempts"`
	Song              *types.Song        `json:"song,omitempty"`
	Notification      *game.Notification `json:"notification,omitempty"`
}
