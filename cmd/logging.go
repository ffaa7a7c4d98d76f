/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = slog.New(slog.DiscardHandler)

// setupLogging builds the process logger from the verbose and log-file
// settings. With a log file, records go there as JSON with rotation;
// otherwise warnings and errors go to stderr as text.
func setupLogging(stderr io.Writer) {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler

	if path := viper.GetString("log-file"); path != "" {
		if !viper.GetBool("verbose") {
			opts.Level = slog.LevelInfo
		}
		writer := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    viper.GetInt("log-max-size"),
			MaxBackups: viper.GetInt("log-max-backups"),
			MaxAge:     viper.GetInt("log-max-age"),
			Compress:   true,
		}
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(stderr, opts)
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}
