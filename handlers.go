package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"musicwordle/internal/game"
	"musicwordle/internal/types"
)

// dailySongHandler returns today's song.
func (app *App) dailySongHandler(c *gin.Context) {
	ctx := c.Request.Context()
	song, err := app.Songs.SongOfTheDay(ctx)
	if err != nil {
		logWarn("[request_id=%v] Error fetching daily song: %v", requestID(ctx), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorFetchDailySong})
		return
	}
	c.JSON(http.StatusOK, song)
}

// searchHandler returns catalog matches for ?q=. A blank query yields [].
func (app *App) searchHandler(c *gin.Context) {
	ctx := c.Request.Context()
	results, err := app.Songs.Search(ctx, c.Query("q"))
	if err != nil {
		logWarn("[request_id=%v] Error searching songs: %v", requestID(ctx), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorSearchSongs})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (app *App) healthHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"provider":  app.Songs.Provider(),
		"today":     app.Songs.Today(),
		"uptime":    formatUptime(uptime),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// gameStateHandler returns the session's game for today.
func (app *App) gameStateHandler(c *gin.Context) {
	app.playTurn(c, func(_ *game.Engine, s types.GameState) types.GameState { return s })
}

// guessHandler submits a guess. Guesses after the game ended are ignored.
func (app *App) guessHandler(c *gin.Context) {
	var req guessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logWarn("[request_id=%v] Rejected guess: %v", requestID(c.Request.Context()), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorMissingSongID})
		return
	}
	candidate := types.Song{ID: req.ID, Title: req.Title, Artist: req.Artist}
	app.playTurn(c, func(e *game.Engine, s types.GameState) types.GameState {
		return e.SubmitGuess(s, candidate)
	})
}

// hintHandler reveals the next hint.
func (app *App) hintHandler(c *gin.Context) {
	app.playTurn(c, func(e *game.Engine, s types.GameState) types.GameState {
		return e.RevealNextHint(s)
	})
}

// resetHandler restarts today's game with the same song.
func (app *App) resetHandler(c *gin.Context) {
	app.playTurn(c, func(e *game.Engine, s types.GameState) types.GameState {
		return e.Restart(s)
	})
}

// shareHandler returns the share text once the game is over.
func (app *App) shareHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	lock := app.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	state, err := app.getGameState(ctx, game.NewEngine(nil, app.Now), sessionID)
	if err != nil {
		logWarn("[request_id=%v] Error fetching daily song: %v", requestID(ctx), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorFetchDailySong})
		return
	}

	day, err := time.ParseInLocation("2006-1-2", state.Date, app.Location)
	if err != nil {
		day = app.Now().In(app.Location)
	}
	text, ok := game.ShareState(state, day)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": ErrorGameNotOver})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// playTurn loads the session's game, applies op and saves the result under
// the session lock.
func (app *App) playTurn(c *gin.Context, op func(*game.Engine, types.GameState) types.GameState) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	lock := app.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	recorder := &game.Recorder{}
	engine := game.NewEngine(recorder, app.Now)

	state, err := app.getGameState(ctx, engine, sessionID)
	if err != nil {
		logWarn("[request_id=%v] Error fetching daily song: %v", requestID(ctx), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorFetchDailySong})
		return
	}

	next := op(engine, state)
	if err := app.saveGameState(ctx, sessionID, next); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorSaveGame})
		return
	}

	view := newGameView(next)
	if n, ok := recorder.Last(); ok {
		view.Notification = &n
		if b, jerr := json.Marshal(map[string]game.Notification{"notify": n}); jerr == nil {
			c.Header("HX-Trigger", string(b))
		} else {
			logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
		}
	}
	c.JSON(http.StatusOK, view)
}

func newGameView(s types.GameState) gameView {
	view := gameView{
		Date:              s.Date,
		Status:            s.Status,
		Guesses:           s.Guesses,
		RemainingAttempts: s.RemainingAttempts(),
		MaxAttempts:       types.MaxAttempts,
		Hints: lo.Map(s.Hints, func(h types.Hint, _ int) hintView {
			v := hintView{Type: h.Type, Revealed: h.Revealed}
			if h.Revealed {
				v.Content = h.Content
			}
			return v
		}),
	}
	if view.Guesses == nil {
		view.Guesses = []types.Guess{}
	}
	if s.IsOver() {
		view.Song = s.Song
	}
	return view
}
