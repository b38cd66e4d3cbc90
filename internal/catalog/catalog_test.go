package catalog

import (
	"errors"
	"fmt"
	"testing"

	"musicwordle/internal/songs"
)

func rawID(id string) songs.RawRecord { return songs.RawRecord{ID: id} }

func TestUpstreamError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("daily song: %w", upstreamErr("spotify", "search", cause))

	if !errors.Is(err, ErrUpstreamFetch) {
		t.Error("wrapped UpstreamError should match ErrUpstreamFetch")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped UpstreamError should unwrap to its cause")
	}
	if got, want := err.Error(), "daily song: spotify search: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &UpstreamError{Provider: "youtube", Op: "video"}
	if got, want := bare.Error(), "youtube video: upstream fetch failed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
