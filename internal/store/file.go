package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"musicwordle/internal/types"
)

// DefaultDir is where File keeps one JSON document per session.
const DefaultDir = "data/sessions"

// File stores each session as <dir>/<session id>.json. A file's mtime is
// its last access.
type File struct {
	dir     string
	timeout time.Duration
	log     *zap.Logger
}

func NewFile(dir string, timeout time.Duration, log *zap.Logger) (*File, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sessions directory: %w", err)
	}
	return &File{dir: dir, timeout: timeout, log: log}, nil
}

func (f *File) path(sessionID string) string {
	return filepath.Join(f.dir, sessionID+".json")
}

func (f *File) Load(_ context.Context, sessionID string) (types.GameState, error) {
	if err := validateID(sessionID); err != nil {
		return types.GameState{}, ErrNotFound
	}
	sessionFile := f.path(sessionID)

	info, err := os.Stat(sessionFile)
	if errors.Is(err, os.ErrNotExist) {
		return types.GameState{}, ErrNotFound
	}
	if err != nil {
		return types.GameState{}, fmt.Errorf("stat %s: %w", sessionFile, err)
	}

	if age := time.Since(info.ModTime()); age > f.timeout {
		f.log.Info("Session file expired, removing",
			zap.String("file", sessionFile), zap.Duration("age", age), zap.Duration("max", f.timeout))
		f.remove(sessionFile)
		return types.GameState{}, ErrNotFound
	}

	data, err := os.ReadFile(sessionFile)
	if err != nil {
		return types.GameState{}, fmt.Errorf("reading %s: %w", sessionFile, err)
	}

	var state types.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		f.log.Warn("Session file corrupted, removing", zap.String("file", sessionFile), zap.Error(err))
		f.remove(sessionFile)
		return types.GameState{}, ErrNotFound
	}
	if !validState(state) {
		f.log.Warn("Session file has invalid structure, removing",
			zap.String("file", sessionFile), zap.Int("guesses", len(state.Guesses)), zap.String("date", state.Date))
		f.remove(sessionFile)
		return types.GameState{}, ErrNotFound
	}

	return state, nil
}

func (f *File) Save(_ context.Context, sessionID string, state types.GameState) error {
	if err := validateID(sessionID); err != nil {
		return err
	}

	state.LastAccessTime = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", sessionID, err)
	}

	// Write then rename so readers never see a partial file.
	sessionFile := f.path(sessionID)
	tmp := sessionFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, sessionFile); err != nil {
		f.remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	f.log.Debug("Saved session file", zap.String("file", sessionFile))
	return nil
}

func (f *File) Delete(_ context.Context, sessionID string) error {
	if err := validateID(sessionID); err != nil {
		return nil
	}
	if err := os.Remove(f.path(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session %s: %w", sessionID, err)
	}
	return nil
}

func (f *File) Cleanup(_ context.Context) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading sessions directory: %w", err)
	}

	cutoff := time.Now().Add(-f.timeout)
	removed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			failed++
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(f.dir, entry.Name())); err != nil {
				failed++
				continue
			}
			removed++
		}
	}

	f.log.Info("Session cleanup completed", zap.Int("removed", removed), zap.Int("errors", failed))
	return removed, nil
}

func (f *File) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		f.log.Warn("Failed to remove session file", zap.String("file", path), zap.Error(err))
	}
}

func (f *File) Close() error { return nil }
