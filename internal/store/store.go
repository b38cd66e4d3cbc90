// Package store persists each session's game state between requests.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"musicwordle/internal/types"
)

var (
	// ErrNotFound is returned for unknown, expired or unreadable sessions.
	ErrNotFound = errors.New("game state not found")
	// ErrInvalidSession is returned for session ids that are not UUIDs.
	ErrInvalidSession = errors.New("invalid session id")
)

// DefaultTimeout is how long an untouched session is kept.
const DefaultTimeout = 24 * time.Hour

// Store keeps one GameState per session id.
type Store interface {
	// Load returns ErrNotFound when the session is unknown or has expired.
	Load(ctx context.Context, sessionID string) (types.GameState, error)
	// Save stamps LastAccessTime and stores a copy of state.
	Save(ctx context.Context, sessionID string, state types.GameState) error
	Delete(ctx context.Context, sessionID string) error
	// Cleanup removes expired sessions and reports how many were dropped.
	Cleanup(ctx context.Context) (int, error)
	Close() error
}

func validateID(sessionID string) error {
	if err := uuid.Validate(sessionID); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidSession, sessionID, err)
	}
	return nil
}

// validState rejects states that could not have come from the engine.
func validState(s types.GameState) bool {
	return s.Date != "" && len(s.Guesses) <= types.MaxAttempts && len(s.Hints) <= len(types.HintOrder)
}
