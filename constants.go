package main

import "time"

// Session configuration constants
const (
	SessionCookieName  = "session_id"
	sessionLockStripes = 64
)

// Route constants
const (
	RouteDailySong = "/api/daily-song"
	RouteSearch    = "/api/search"
	RouteHealth    = "/health"
	RouteGame      = "/api/game"
	RouteGuess     = "/api/game/guess"
	RouteHint      = "/api/game/hint"
	RouteReset     = "/api/game/reset"
	RouteShare     = "/api/game/share"
)

// Error message constants
const (
	ErrorFetchDailySong = "Failed to fetch daily song"
	ErrorSearchSongs    = "Failed to search songs"
	ErrorMissingSongID  = "A guess needs the song id."
	ErrorSaveGame       = "Failed to save game"
	ErrorGameNotOver    = "Finish the game first to share your results."
	ErrorTooManyRequest = "Too many requests. Please slow down."
)

// Cache and cleanup timings
const (
	SearchCacheAge         = 5 * time.Minute
	SessionCleanupInterval = time.Hour
	MemoryCacheCleanup     = 10 * time.Minute
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
