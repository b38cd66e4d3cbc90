package main

import (
	"context"
	"errors"
	"hash/fnv"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"musicwordle/internal/game"
	"musicwordle/internal/store"
	"musicwordle/internal/types"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		secure := app.IsProduction
		c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", secure, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// sessionLock returns the mutex guarding sessionID's game state.
func (app *App) sessionLock(sessionID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	return &app.sessionLocks[h.Sum32()%sessionLockStripes]
}

// getGameState loads the session's game and makes sure it is bound to
// today's song. A new day starts a fresh game.
func (app *App) getGameState(ctx context.Context, engine *game.Engine, sessionID string) (types.GameState, error) {
	state, err := app.Store.Load(ctx, sessionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logWarn("[request_id=%v] Failed to load game for session %s: %v", requestID(ctx), sessionID, err)
	}

	today := app.Songs.Today()
	if state.Date == today && state.Song != nil {
		return state, nil
	}

	song, err := app.Songs.SongForDate(ctx, today)
	if err != nil {
		return types.GameState{}, err
	}
	if state.Date != "" && state.Date != today {
		logInfo("[request_id=%v] Session %s rolled over from %s to %s", requestID(ctx), sessionID, state.Date, today)
	}
	return engine.Start(state, today, song), nil
}

// saveGameState writes the session's game back to the store.
func (app *App) saveGameState(ctx context.Context, sessionID string, state types.GameState) error {
	if err := app.Store.Save(ctx, sessionID, state); err != nil {
		logWarn("[request_id=%v] Failed to save game for session %s: %v", requestID(ctx), sessionID, err)
		return err
	}
	return nil
}
