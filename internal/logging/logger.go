// Package logging is the sharing service's slog pipeline: JSON records on
// stdout for every level, ERROR and above batched into the system_logs
// table, with a retention sweep for old rows.
package logging

import (
	"log/slog"
	"os"
)

// Setup installs the stdout JSON handler as the global logger. The Postgres
// handler is layered on later in main, once the database is up.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
}
