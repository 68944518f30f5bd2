// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LogEnvVar is the environment variable that selects verbose logging if set
// to "debug".
const LogEnvVar = "GUESTINIT_LOG"

// debugFromEnv returns true if debug logging is requested via [LogEnvVar].
func debugFromEnv() bool {
	return strings.EqualFold(os.Getenv(LogEnvVar), "debug")
}

func setupLogging(writer io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	// The console is a serial line without color support.
	slog.SetDefault(slog.New(tint.NewHandler(
		writer,
		&tint.Options{
			Level:      level,
			TimeFormat: time.StampMicro,
			NoColor:    true,
		},
	)))
}
