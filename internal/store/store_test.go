package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"musicwordle/internal/types"
)

func sampleState() types.GameState {
	return types.GameState{
		Date:   "2024-3-15",
		Status: types.StatusPlaying,
		Song:   &types.Song{ID: "t21", Title: "Dreams", Artist: "Fleetwood Mac", Year: 1977},
		Guesses: []types.Guess{
			{SongID: "x", Title: "Wrong", Artist: "Someone", Timestamp: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		},
		Hints: []types.Hint{
			{Type: types.HintGenre, Content: "soft rock", Revealed: true},
			{Type: types.HintYear, Content: "1977"},
		},
	}
}

func newSQLiteMemory(t *testing.T) *SQLite {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLite(db, time.Hour)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newFileStore(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "sessions"), time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	return f
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory(time.Hour) },
		"file":   func(t *testing.T) Store { return newFileStore(t) },
		"sqlite": func(t *testing.T) Store { return newSQLiteMemory(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			id := uuid.NewString()

			if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Load(unknown) error = %v, want ErrNotFound", err)
			}

			want := sampleState()
			if err := s.Save(ctx, id, want); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			got, err := s.Load(ctx, id)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got.Date != want.Date || got.Status != want.Status || got.Song == nil || got.Song.ID != "t21" {
				t.Errorf("Load() = %+v", got)
			}
			if len(got.Guesses) != 1 || got.Guesses[0].SongID != "x" || len(got.Hints) != 2 || !got.Hints[0].Revealed {
				t.Errorf("Load() lost guesses or hints: %+v", got)
			}
			if got.LastAccessTime.IsZero() {
				t.Error("Save() did not stamp LastAccessTime")
			}

			// Overwrite.
			want.Status = types.StatusWon
			if err := s.Save(ctx, id, want); err != nil {
				t.Fatal(err)
			}
			if got, _ := s.Load(ctx, id); got.Status != types.StatusWon {
				t.Errorf("overwrite not visible: %s", got.Status)
			}

			if err := s.Delete(ctx, id); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Load(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load after Delete error = %v", err)
			}

			if err := s.Save(ctx, "../../etc/passwd", want); !errors.Is(err, ErrInvalidSession) {
				t.Errorf("Save(bad id) error = %v, want ErrInvalidSession", err)
			}
			if _, err := s.Load(ctx, "short"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load(bad id) error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestMemoryIsolation(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()
	id := uuid.NewString()

	state := sampleState()
	if err := m.Save(ctx, id, state); err != nil {
		t.Fatal(err)
	}
	state.Guesses[0].SongID = "mutated"

	got, _ := m.Load(ctx, id)
	if got.Guesses[0].SongID != "x" {
		t.Error("store shares memory with the saved value")
	}
	got.Hints[1].Revealed = true
	again, _ := m.Load(ctx, id)
	if again.Hints[1].Revealed {
		t.Error("store shares memory with loaded values")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()
	now := time.Now()
	m.now = func() time.Time { return now }

	fresh, stale := uuid.NewString(), uuid.NewString()
	m.Save(ctx, stale, sampleState())
	now = now.Add(50 * time.Minute)
	m.Save(ctx, fresh, sampleState())
	now = now.Add(20 * time.Minute)

	removed, err := m.Cleanup(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("Cleanup() = %d, %v; want 1", removed, err)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if _, err := m.Load(ctx, fresh); err != nil {
		t.Errorf("fresh session lost: %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := m.Load(ctx, fresh); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(expired) error = %v, want ErrNotFound", err)
	}
}

func TestFileExpiredAndCorrupted(t *testing.T) {
	f := newFileStore(t)
	ctx := context.Background()

	t.Run("old file removed", func(t *testing.T) {
		id := uuid.NewString()
		if err := f.Save(ctx, id, sampleState()); err != nil {
			t.Fatal(err)
		}
		old := time.Now().Add(-2 * time.Hour)
		if err := os.Chtimes(f.path(id), old, old); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Load(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(old) error = %v, want ErrNotFound", err)
		}
		if _, err := os.Stat(f.path(id)); !os.IsNotExist(err) {
			t.Error("old session file was not removed")
		}
	})

	t.Run("corrupted file removed", func(t *testing.T) {
		id := uuid.NewString()
		if err := os.WriteFile(f.path(id), []byte("{ not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Load(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(corrupted) error = %v, want ErrNotFound", err)
		}
		if _, err := os.Stat(f.path(id)); !os.IsNotExist(err) {
			t.Error("corrupted session file was not removed")
		}
	})

	t.Run("invalid structure removed", func(t *testing.T) {
		id := uuid.NewString()
		bad := sampleState()
		bad.Guesses = make([]types.Guess, types.MaxAttempts+1)
		if err := f.Save(ctx, id, bad); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Load(ctx, id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(invalid) error = %v, want ErrNotFound", err)
		}
	})
}

func TestFileCleanup(t *testing.T) {
	f := newFileStore(t)
	ctx := context.Background()

	oldID, newID := uuid.NewString(), uuid.NewString()
	f.Save(ctx, oldID, sampleState())
	f.Save(ctx, newID, sampleState())
	old := time.Now().Add(-3 * time.Hour)
	os.Chtimes(f.path(oldID), old, old)

	// Unrelated files are left alone.
	notes := filepath.Join(f.dir, "README.txt")
	os.WriteFile(notes, []byte("keep"), 0o644)
	os.Chtimes(notes, old, old)

	removed, err := f.Cleanup(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("Cleanup() = %d, %v; want 1", removed, err)
	}
	if _, err := os.Stat(f.path(newID)); err != nil {
		t.Errorf("recent session removed: %v", err)
	}
	if _, err := os.Stat(notes); err != nil {
		t.Errorf("non-session file removed: %v", err)
	}
}

func TestSQLiteSchema(t *testing.T) {
	s := newSQLiteMemory(t)

	var name string
	if err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='game_sessions'").Scan(&name); err != nil {
		t.Fatalf("game_sessions table missing: %v", err)
	}
	// Migrating twice is harmless.
	if err := initDB(s.db); err != nil {
		t.Errorf("second migration failed: %v", err)
	}
}

func TestSQLiteExpiry(t *testing.T) {
	s := newSQLiteMemory(t)
	ctx := context.Background()
	now := time.Now()
	s.now = func() time.Time { return now }

	stale, fresh := uuid.NewString(), uuid.NewString()
	if err := s.Save(ctx, stale, sampleState()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(45 * time.Minute)
	if err := s.Save(ctx, fresh, sampleState()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)

	if _, err := s.Load(ctx, stale); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(stale) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Load(ctx, fresh); err != nil {
		t.Errorf("Load(fresh) error = %v", err)
	}

	now = now.Add(time.Hour)
	removed, err := s.Cleanup(ctx)
	if err != nil || removed != 1 {
		t.Errorf("Cleanup() = %d, %v; want 1", removed, err)
	}
}

func TestOpenSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s, err := OpenSQLite(path, time.Hour)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	id := uuid.NewString()
	if err := s.Save(context.Background(), id, sampleState()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := OpenSQLite(path, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if _, err := reopened.Load(context.Background(), id); err != nil {
		t.Errorf("state did not survive reopen: %v", err)
	}
}
