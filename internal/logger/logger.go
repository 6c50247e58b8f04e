// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup returns a logger writing to stderr.
func Setup(getenv func(string) string) *slog.Logger {
	return New(os.Stderr, getenv)
}

// New returns a logger writing to w. LOG_LEVEL is one of debug, info, warn or error and
// defaults to info; LOG_FORMAT=json selects JSON output, anything else text.
func New(w io.Writer, getenv func(string) string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if strings.ToLower(getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(h)
}
