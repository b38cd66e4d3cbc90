package daily

import (
	"testing"
	"time"
)

func TestDateString(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"no padding", time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC), "2024-3-5"},
		{"two digit month and day", time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC), "2025-12-31"},
		{"first of year", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "2024-1-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateString(tt.in); got != tt.want {
				t.Errorf("DateString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateStringUsesLocation(t *testing.T) {
	utc := time.Date(2024, time.March, 15, 2, 0, 0, 0, time.UTC)
	west := time.FixedZone("UTC-5", -5*60*60)
	if got := DateString(utc.In(west)); got != "2024-3-14" {
		t.Errorf("DateString in UTC-5 = %q, want 2024-3-14", got)
	}
}

func TestHashDate(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"a", 97},
		{"2024-3-15", 534489771},
		{"2024-1-1", 1922422968},
		{"2025-12-31", 275115454},
		{"é", 233},
		// surrogate pair: hashed as two UTF-16 units, not one code point
		{"😀", 1772899},
	}
	for _, tt := range tests {
		if got := HashDate(tt.in); got != tt.want {
			t.Errorf("HashDate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHashDateDeterministicAndNonNegative(t *testing.T) {
	day := time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 2000; i++ {
		d := DateString(day.AddDate(0, 0, i))
		h1 := HashDate(d)
		h2 := HashDate(d)
		if h1 != h2 {
			t.Fatalf("HashDate(%q) not deterministic: %d vs %d", d, h1, h2)
		}
		if h1 < 0 {
			t.Fatalf("HashDate(%q) = %d, want non-negative", d, h1)
		}
	}
}

func TestSelectIndexInRange(t *testing.T) {
	day := time.Date(2023, time.June, 1, 12, 0, 0, 0, time.UTC)
	for _, n := range []int{1, 2, 5, 7, 50, 101} {
		for i := 0; i < 500; i++ {
			d := DateString(day.AddDate(0, 0, i))
			idx := IndexForDate(d, n)
			if idx < 0 || idx >= n {
				t.Fatalf("IndexForDate(%q, %d) = %d, out of range", d, n, idx)
			}
			if again := IndexForDate(d, n); again != idx {
				t.Fatalf("IndexForDate(%q, %d) changed: %d then %d", d, n, idx, again)
			}
		}
	}
}

func TestSelectIndexEmptyPool(t *testing.T) {
	if got := SelectIndex(12345, 0); got != 0 {
		t.Errorf("SelectIndex(_, 0) = %d, want 0", got)
	}
	if got := SelectIndex(12345, -3); got != 0 {
		t.Errorf("SelectIndex(_, -3) = %d, want 0", got)
	}
}

func TestSelectIndexMinInt32(t *testing.T) {
	// abs(math.MinInt32) must stay positive
	if got := SelectIndex(2147483648, 7); got != int(2147483648%7) {
		t.Errorf("SelectIndex(2^31, 7) = %d, want %d", got, 2147483648%7)
	}
}

func TestPlaylistAndTrackShareHash(t *testing.T) {
	h := HashDate("2024-3-15")
	if got := SelectIndex(h, 7); got != 4 {
		t.Errorf("playlist index = %d, want 4", got)
	}
	if got := SelectIndex(h, 50); got != 21 {
		t.Errorf("track index = %d, want 21", got)
	}
}
