package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var sugar = zap.NewNop().Sugar()

// setLogger routes the log helpers to l.
func setLogger(l *zap.Logger) {
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// formatUptime returns a human-readable string for a duration.
func formatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, plural(hours),
			minutes, plural(minutes),
			seconds, plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, plural(minutes),
			seconds, plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, plural(seconds))
	}
}

// plural returns "s" if n != 1, otherwise "".
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// requestID returns the id stored by requestIDMiddleware, or "-".
func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return "-"
}

// logInfo logs an info-level message.
func logInfo(format string, v ...any) {
	sugar.Infof(format, v...)
}

// logWarn logs a warning-level message.
func logWarn(format string, v ...any) {
	sugar.Warnf(format, v...)
}
