// Package logging sets up the process logger: a rotating file, stdout, and
// a broadcaster that feeds the dashboard's live log panel.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the default slog logger. Log files rotate at 10 MB and
// are kept for a week.
func Setup(logPath string, broadcaster *Broadcaster, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	writers := []io.Writer{os.Stdout}
	if logPath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename: logPath,
			MaxSize:  10, // megabytes
			MaxAge:   7,  // days
		})
	}
	if broadcaster != nil {
		writers = append(writers, broadcaster)
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
