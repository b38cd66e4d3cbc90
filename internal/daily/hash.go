// Package daily picks the song of the day and serves catalog searches.
package daily

import (
	"fmt"
	"time"
	"unicode/utf16"
)

// DateString formats t as YYYY-M-D without zero padding, using t's location.
func DateString(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// HashDate returns a stable non-negative hash of s.
//
// The hash runs over UTF-16 code units with signed 32-bit wraparound
// (hash*31 + unit), and the absolute value is taken in 64 bits so that
// math.MinInt32 becomes 2147483648 instead of staying negative.
func HashDate(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// SelectIndex maps hash into [0, n). It returns 0 when n <= 0.
func SelectIndex(hash int64, n int) int {
	if n <= 0 {
		return 0
	}
	return int(hash % int64(n))
}

// IndexForDate is SelectIndex(HashDate(date), n).
func IndexForDate(date string, n int) int {
	return SelectIndex(HashDate(date), n)
}
