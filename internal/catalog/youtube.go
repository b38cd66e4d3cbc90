package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"musicwordle/internal/songs"
)

const (
	providerYouTube = "youtube"

	// YouTubeAlbum stands in for the album, which videos do not have.
	YouTubeAlbum = "YouTube Music"

	youtubeMusicCategory = "10"
	youtubeMaxResults    = 50
	youtubeWatchURL      = "https://www.youtube.com/watch?v="
)

// DefaultYouTubePlaylists is the pool the daily video is drawn from.
var DefaultYouTubePlaylists = []string{
	"PLDIoUOhQQPlXr63I_vwF9GD8sAKh77dWU", // Billboard Hot 100
	"PLFgquLnL59alCl_2TQvOiD5Vgm1hCaGSI", // Top Pop Music
	"PL4fGSI1pDJn5kI81J1fYWK5eZRl1zJ5kM", // Top Rock
	"PLgzTt0k8mXzEk586ze4BjvDXR7c-TUSnx", // Top Hip-Hop
	"PLw-VjHDlEOgs658kAHR_LAaILBXb-s6Q5", // Top Latin
}

// YouTube wraps the YouTube Data API v3.
type YouTube struct {
	svc *youtube.Service
	log *zap.Logger
}

// NewYouTube builds a client authenticated with an API key. Extra options
// (endpoint, HTTP client) are passed through.
func NewYouTube(ctx context.Context, apiKey string, log *zap.Logger, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTube{svc: svc, log: log}, nil
}

func (y *YouTube) Name() string { return providerYouTube }

func (y *YouTube) PlaylistItems(ctx context.Context, playlistID string) ([]songs.RawRecord, error) {
	resp, err := y.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(youtubeMaxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamErr(providerYouTube, "playlist items", fmt.Errorf("playlist %s: %w", playlistID, err))
	}

	var records []songs.RawRecord
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
			continue
		}
		videoID := item.Snippet.ResourceId.VideoId
		records = append(records, songs.RawRecord{
			ID:          videoID,
			Title:       item.Snippet.Title,
			Artist:      item.Snippet.VideoOwnerChannelTitle,
			Album:       YouTubeAlbum,
			Description: item.Snippet.Description,
			PreviewURL:  youtubeWatchURL + videoID,
			ImageURL:    highThumbnail(item.Snippet.Thumbnails),
		})
	}

	y.log.Debug("Fetched playlist items",
		zap.String("playlist", playlistID),
		zap.Int("items", len(resp.Items)),
		zap.Int("videos", len(records)))
	return records, nil
}

func (y *YouTube) Details(ctx context.Context, rec songs.RawRecord) (songs.RawRecord, error) {
	resp, err := y.svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(rec.ID).
		Context(ctx).
		Do()
	if err != nil {
		return songs.RawRecord{}, upstreamErr(providerYouTube, "video", fmt.Errorf("video %s: %w", rec.ID, err))
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return songs.RawRecord{}, upstreamErr(providerYouTube, "video", fmt.Errorf("video %s: %w", rec.ID, errors.New("no such video")))
	}

	video := resp.Items[0]
	return songs.RawRecord{
		ID:          video.Id,
		Title:       video.Snippet.Title,
		Artist:      video.Snippet.ChannelTitle,
		Album:       YouTubeAlbum,
		Description: video.Snippet.Description,
		PreviewURL:  youtubeWatchURL + video.Id,
		ImageURL:    highThumbnail(video.Snippet.Thumbnails),
	}, nil
}

func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]songs.RawRecord, error) {
	resp, err := y.svc.Search.List([]string{"snippet"}).
		Q(query + " music").
		Type("video").
		VideoCategoryId(youtubeMusicCategory).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstreamErr(providerYouTube, "search", err)
	}

	results := lo.Filter(resp.Items, func(item *youtube.SearchResult, _ int) bool {
		return item.Id != nil && item.Id.VideoId != "" && item.Snippet != nil
	})
	return lo.Map(results, func(item *youtube.SearchResult, _ int) songs.RawRecord {
		return songs.RawRecord{
			ID:          item.Id.VideoId,
			Title:       item.Snippet.Title,
			Artist:      item.Snippet.ChannelTitle,
			Album:       YouTubeAlbum,
			ReleaseDate: item.Snippet.PublishedAt,
			PreviewURL:  youtubeWatchURL + item.Id.VideoId,
			ImageURL:    highThumbnail(item.Snippet.Thumbnails),
		}
	}), nil
}

func highThumbnail(th *youtube.ThumbnailDetails) string {
	if th == nil || th.High == nil {
		return ""
	}
	return th.High.Url
}
