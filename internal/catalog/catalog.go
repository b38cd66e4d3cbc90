// Package catalog adapts third-party media catalogs (Spotify, YouTube) to
// raw song records.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"musicwordle/internal/songs"
)

// ErrUpstreamFetch marks any failed or malformed catalog call.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// UpstreamError records which catalog call failed.
type UpstreamError struct {
	Provider string
	Op       string
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, ErrUpstreamFetch)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrUpstreamFetch) hold for every UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamFetch
}

func upstreamErr(provider, op string, err error) error {
	return &UpstreamError{Provider: provider, Op: op, Err: err}
}

// Catalog is a media catalog the daily song can be drawn from.
type Catalog interface {
	// Name identifies the provider in logs and cache keys.
	Name() string
	// PlaylistItems returns the playlist's entries in catalog order.
	PlaylistItems(ctx context.Context, playlistID string) ([]songs.RawRecord, error)
	// Details refetches one entry with everything needed to assemble a Song.
	Details(ctx context.Context, rec songs.RawRecord) (songs.RawRecord, error)
	// Search returns up to limit matching entries.
	Search(ctx context.Context, query string, limit int) ([]songs.RawRecord, error)
}
