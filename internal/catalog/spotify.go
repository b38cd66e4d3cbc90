package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"musicwordle/internal/songs"
)

const (
	providerSpotify = "spotify"

	// Spotify caps playlist item pages at 100.
	maxPlaylistItems = 100
)

// DefaultSpotifyPlaylists is the pool the daily song is drawn from.
var DefaultSpotifyPlaylists = []string{
	"37i9dQZEVXbMDoHDwVN2tF", // Global Top 50
	"37i9dQZF1DXcBWIGoYBM5M", // Today's Top Hits
	"37i9dQZF1DX0XUsuxWHRQd", // RapCaviar
	"37i9dQZF1DX4o1oenSJRJd", // All Out 2000s
	"37i9dQZF1DX4UtSsGT1Sbe", // All Out 80s
	"37i9dQZF1DWXRqgorJj26U", // Rock Classics
	"37i9dQZF1DWY7IeIP1cdjF", // Pop Rising
}

// Spotify wraps the Spotify Web API client.
type Spotify struct {
	api *spotify.Client
	log *zap.Logger
}

// NewSpotify wraps an already authenticated client.
func NewSpotify(api *spotify.Client, log *zap.Logger) *Spotify {
	return &Spotify{api: api, log: log}
}

// NewSpotifyFromCredentials authenticates with the client-credentials flow.
// The returned client refreshes its token on its own.
func NewSpotifyFromCredentials(ctx context.Context, clientID, clientSecret string, log *zap.Logger) (*Spotify, error) {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// Bad credentials are reported here, not on the first request.
	if _, err := cfg.Token(ctx); err != nil {
		return nil, upstreamErr(providerSpotify, "token", err)
	}
	log.Info("Spotify access token obtained")

	httpClient := cfg.Client(context.Background())
	return NewSpotify(spotify.New(httpClient), log), nil
}

func (s *Spotify) Name() string { return providerSpotify }

func (s *Spotify) PlaylistItems(ctx context.Context, playlistID string) ([]songs.RawRecord, error) {
	page, err := s.api.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(maxPlaylistItems))
	if err != nil {
		return nil, upstreamErr(providerSpotify, "playlist items", fmt.Errorf("playlist %s: %w", playlistID, err))
	}

	var records []songs.RawRecord
	for _, item := range page.Items {
		// Episodes and removed tracks carry no track.
		if item.Track.Track == nil || item.Track.Track.ID == "" {
			continue
		}
		records = append(records, convertTrack(*item.Track.Track))
	}

	s.log.Debug("Fetched playlist items",
		zap.String("playlist", playlistID),
		zap.Int("items", len(page.Items)),
		zap.Int("tracks", len(records)))
	return records, nil
}

func (s *Spotify) Details(ctx context.Context, rec songs.RawRecord) (songs.RawRecord, error) {
	track, err := s.api.GetTrack(ctx, spotify.ID(rec.ID))
	if err != nil {
		return songs.RawRecord{}, upstreamErr(providerSpotify, "track", fmt.Errorf("track %s: %w", rec.ID, err))
	}

	out := convertTrack(*track)
	if len(track.Artists) == 0 {
		return out, nil
	}

	artist, err := s.api.GetArtist(ctx, track.Artists[0].ID)
	if err != nil {
		return songs.RawRecord{}, upstreamErr(providerSpotify, "artist", fmt.Errorf("artist %s: %w", track.Artists[0].ID, err))
	}
	if len(artist.Genres) > 0 {
		out.Genre = artist.Genres[0]
	}
	return out, nil
}

func (s *Spotify) Search(ctx context.Context, query string, limit int) ([]songs.RawRecord, error) {
	res, err := s.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, upstreamErr(providerSpotify, "search", err)
	}
	if res.Tracks == nil {
		return []songs.RawRecord{}, nil
	}
	return lo.Map(res.Tracks.Tracks, func(t spotify.FullTrack, _ int) songs.RawRecord {
		return convertTrack(t)
	}), nil
}

// convertTrack maps a Spotify track to a raw record, joining artist names with ", ".
func convertTrack(t spotify.FullTrack) songs.RawRecord {
	artists := lo.Map(t.Artists, func(a spotify.SimpleArtist, _ int) string { return a.Name })

	var image string
	if len(t.Album.Images) > 0 {
		image = t.Album.Images[0].URL
	}

	return songs.RawRecord{
		ID:          t.ID.String(),
		Title:       t.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		PreviewURL:  t.PreviewURL,
		ImageURL:    image,
	}
}
