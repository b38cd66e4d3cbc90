// Package config loads server settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"musicwordle/internal/catalog"
)

const (
	ProviderSpotify = "spotify"
	ProviderYouTube = "youtube"

	CacheMemory = "memory"
	CacheRedis  = "redis"

	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"ENV"`
	GinMode  string `envconfig:"GIN_MODE"`
	TimeZone string `envconfig:"TIME_ZONE" default:"Local"`

	CatalogProvider  string   `envconfig:"CATALOG_PROVIDER" default:"spotify"`
	SpotifyID        string   `envconfig:"SPOTIFY_ID"`
	SpotifySecret    string   `envconfig:"SPOTIFY_SECRET"`
	SpotifyPlaylists []string `envconfig:"SPOTIFY_PLAYLISTS"`
	YouTubeAPIKey    string   `envconfig:"YOUTUBE_API_KEY"`
	YouTubePlaylists []string `envconfig:"YOUTUBE_PLAYLISTS"`
	SearchLimit      int      `envconfig:"SEARCH_LIMIT" default:"10"`

	CacheBackend  string        `envconfig:"CACHE_BACKEND" default:"memory"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`

	GameStore      string        `envconfig:"GAME_STORE" default:"memory"`
	GameStorePath  string        `envconfig:"GAME_STORE_PATH"`
	SessionTimeout time.Duration `envconfig:"SESSION_TIMEOUT" default:"24h"`
	CookieMaxAge   time.Duration `envconfig:"COOKIE_MAX_AGE" default:"24h"`
	RateLimitRPS   int           `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int           `envconfig:"RATE_LIMIT_BURST" default:"10"`

	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogMaxSize    int    `envconfig:"LOG_MAX_SIZE" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAge     int    `envconfig:"LOG_MAX_AGE" default:"28"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.SpotifyPlaylists) == 0 {
		c.SpotifyPlaylists = slices.Clone(catalog.DefaultSpotifyPlaylists)
	}
	if len(c.YouTubePlaylists) == 0 {
		c.YouTubePlaylists = slices.Clone(catalog.DefaultYouTubePlaylists)
	}
	if c.GameStorePath == "" {
		switch c.GameStore {
		case StoreFile:
			c.GameStorePath = "data/sessions"
		case StoreSQLite:
			c.GameStorePath = "data/musicwordle.db"
		}
	}
}

// Validate checks that the selected backends are known and have what they need.
func (c *Config) Validate() error {
	var errs []error
	switch c.CatalogProvider {
	case ProviderSpotify:
		if c.SpotifyID == "" || c.SpotifySecret == "" {
			errs = append(errs, errors.New("SPOTIFY_ID and SPOTIFY_SECRET are required for the spotify provider"))
		}
	case ProviderYouTube:
		if c.YouTubeAPIKey == "" {
			errs = append(errs, errors.New("YOUTUBE_API_KEY is required for the youtube provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_PROVIDER %q", c.CatalogProvider))
	}

	if len(c.Playlists()) == 0 {
		errs = append(errs, errors.New("no playlists configured"))
	}
	if c.SearchLimit < 1 || c.SearchLimit > 50 {
		errs = append(errs, fmt.Errorf("SEARCH_LIMIT must be between 1 and 50, got %d", c.SearchLimit))
	}
	if !slices.Contains([]string{CacheMemory, CacheRedis}, c.CacheBackend) {
		errs = append(errs, fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend))
	}
	if !slices.Contains([]string{StoreMemory, StoreFile, StoreSQLite}, c.GameStore) {
		errs = append(errs, fmt.Errorf("unknown GAME_STORE %q", c.GameStore))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Playlists returns the pool for the selected provider.
func (c *Config) Playlists() []string {
	if c.CatalogProvider == ProviderYouTube {
		return c.YouTubePlaylists
	}
	return c.SpotifyPlaylists
}

// Location resolves TIME_ZONE, which decides when the day rolls over.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// IsProduction follows the GIN_MODE/ENV convention.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release" || c.Env == "production"
}
