package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"musicwordle/internal/config"
	"musicwordle/internal/daily"
	"musicwordle/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "musicwordle",
	Short: "MusicWordle serves a daily song-guessing game.",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var (
	dailyDate    string
	dailyPool    int
	dailyItems   int
	dailyResolve bool
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show which playlist and item a date selects",
	Long: `Hashes a YYYY-M-D date string the way the server does and prints the
playlist and item indices it selects. With --resolve the catalog is queried
and the assembled song is printed as JSON.`,
	Example: `  musicwordle daily --date 2024-3-15 --pool 7 --items 50
  musicwordle daily --resolve`,
	RunE: runDaily,
}

func init() {
	rootCmd.AddCommand(serveCmd, dailyCmd)

	dailyCmd.Flags().StringVarP(&dailyDate, "date", "d", "", "day to hash as YYYY-M-D (default: today in TIME_ZONE)")
	dailyCmd.Flags().IntVarP(&dailyPool, "pool", "p", 0, "number of playlists (default: configured pool)")
	dailyCmd.Flags().IntVarP(&dailyItems, "items", "n", 0, "number of items in the selected playlist")
	dailyCmd.Flags().BoolVarP(&dailyResolve, "resolve", "r", false, "fetch the song from the catalog")
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
	})
	if err != nil {
		return nil, nil, err
	}
	setLogger(log)
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logInfo("Starting MusicWordle in %s mode with the %s catalog",
		map[bool]string{true: "production", false: "development"}[cfg.IsProduction()], cfg.CatalogProvider)

	app, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logWarn("Error closing resources: %v", err)
		}
	}()

	return startServer(app, cfg.Port)
}

// dailySelection is what `musicwordle daily` prints.
type dailySelection struct {
	Date          string `json:"date"`
	Hash          int64  `json:"hash"`
	PlaylistIndex int    `json:"playlistIndex"`
	Playlist      string `json:"playlist,omitempty"`
	ItemIndex     *int   `json:"itemIndex,omitempty"`
	Song          any    `json:"song,omitempty"`
}

func runDaily(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	date := dailyDate
	if date == "" {
		date = daily.DateString(time.Now().In(loc))
	}

	playlists := cfg.Playlists()
	pool := dailyPool
	if pool <= 0 {
		pool = len(playlists)
	}

	sel := dailySelection{
		Date:          date,
		Hash:          daily.HashDate(date),
		PlaylistIndex: daily.IndexForDate(date, pool),
	}
	if sel.PlaylistIndex < len(playlists) {
		sel.Playlist = playlists[sel.PlaylistIndex]
	}
	if dailyItems > 0 {
		idx := daily.IndexForDate(date, dailyItems)
		sel.ItemIndex = &idx
	}

	if dailyResolve {
		if err := cfg.Validate(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		app, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		song, err := app.Songs.SongForDate(ctx, date)
		if err != nil {
			return err
		}
		sel.Song = song
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sel)
}
