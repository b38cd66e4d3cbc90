package daily

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"musicwordle/internal/cache"
	"musicwordle/internal/catalog"
	"musicwordle/internal/songs"
	"musicwordle/internal/types"
)

// DefaultSearchLimit caps catalog search results.
const DefaultSearchLimit = 10

// ErrNoPlaylists is returned when the service has nothing to pick from.
var ErrNoPlaylists = errors.New("no playlists configured")

// Options tunes a Service. Zero values get defaults.
type Options struct {
	Playlists   []string
	SearchLimit int
	TTL         time.Duration
	Location    *time.Location
	Now         func() time.Time
}

// Service resolves the song of the day and catalog searches, read-through
// the cache.
type Service struct {
	catalog     catalog.Catalog
	cache       cache.Cache
	log         *zap.Logger
	playlists   []string
	searchLimit int
	ttl         time.Duration
	loc         *time.Location
	now         func() time.Time
}

func NewService(cat catalog.Catalog, c cache.Cache, log *zap.Logger, opts Options) *Service {
	s := &Service{
		catalog:     cat,
		cache:       c,
		log:         log,
		playlists:   opts.Playlists,
		searchLimit: opts.SearchLimit,
		ttl:         opts.TTL,
		loc:         opts.Location,
		now:         opts.Now,
	}
	if s.searchLimit <= 0 {
		s.searchLimit = DefaultSearchLimit
	}
	if s.ttl <= 0 {
		s.ttl = cache.DefaultTTL
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Today is the current day string in the service's location.
func (s *Service) Today() string {
	return DateString(s.now().In(s.loc))
}

// SongOfTheDay returns today's song.
func (s *Service) SongOfTheDay(ctx context.Context) (types.Song, error) {
	return s.SongForDate(ctx, s.Today())
}

// SongForDate returns the song for a YYYY-M-D day string. The same date
// always yields the same playlist and item for an unchanged catalog.
func (s *Service) SongForDate(ctx context.Context, date string) (types.Song, error) {
	key := cache.DailySongKey(date)

	var song types.Song
	if ok, err := s.cache.Get(ctx, key, &song); err != nil {
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return song, nil
	}

	if len(s.playlists) == 0 {
		return types.Song{}, ErrNoPlaylists
	}

	hash := HashDate(date)
	playlistID := s.playlists[SelectIndex(hash, len(s.playlists))]

	items, err := s.catalog.PlaylistItems(ctx, playlistID)
	if err != nil {
		return types.Song{}, fmt.Errorf("daily song for %s: %w", date, err)
	}
	if len(items) == 0 {
		return types.Song{}, &catalog.UpstreamError{
			Provider: s.catalog.Name(),
			Op:       "playlist items",
			Err:      fmt.Errorf("playlist %s has no items", playlistID),
		}
	}

	item := items[SelectIndex(hash, len(items))]
	rec, err := s.catalog.Details(ctx, item)
	if err != nil {
		return types.Song{}, fmt.Errorf("daily song for %s: %w", date, err)
	}

	song, err = songs.Assemble(rec, s.now().In(s.loc))
	if err != nil {
		return types.Song{}, fmt.Errorf("daily song for %s: %w", date, err)
	}

	s.log.Info("Selected daily song",
		zap.String("date", date),
		zap.String("provider", s.catalog.Name()),
		zap.String("playlist", playlistID),
		zap.String("song", song.ID))

	if err := s.cache.Set(ctx, key, song, s.ttl); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return song, nil
}

// Search returns catalog matches for query. A blank query returns an empty
// list without calling the catalog. Records missing required fields are
// skipped.
func (s *Service) Search(ctx context.Context, query string) ([]types.Song, error) {
	if strings.TrimSpace(query) == "" {
		return []types.Song{}, nil
	}

	key := cache.SearchKey(query)
	var results []types.Song
	if ok, err := s.cache.Get(ctx, key, &results); err != nil {
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return results, nil
	}

	records, err := s.catalog.Search(ctx, query, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	now := s.now().In(s.loc)
	results = make([]types.Song, 0, len(records))
	for _, rec := range records {
		song, err := songs.Assemble(rec, now)
		if err != nil {
			s.log.Debug("Skipping search result", zap.String("query", query), zap.Error(err))
			continue
		}
		results = append(results, song)
	}

	if err := s.cache.Set(ctx, key, results, s.ttl); err != nil {
		s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return results, nil
}

// Provider names the catalog behind the service.
func (s *Service) Provider() string { return s.catalog.Name() }
