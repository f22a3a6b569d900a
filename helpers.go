package scheduler

import (
	"context"
	"log/slog"
	"runtime"
)

func ternary[T any](condition bool, value1, value2 T) T {
	if condition {
		return value1
	}

	return value2
}

func abs(value int) int {
	return ternary(value < 0, -value, value)
}

// ceilDiv rounds a positive division up.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// traceExit logs the calling function and attrs at debug level.
func traceExit(logger *slog.Logger, attrs ...slog.Attr) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	pc, _, line, ok := runtime.Caller(1)
	if ok {
		logger.LogAttrs(
			context.Background(),
			slog.LevelDebug,
			"exiting function",

			append(
				attrs,
				slog.String("function", runtime.FuncForPC(pc).Name()),
				slog.Int("line", line),
			)...,
		)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
