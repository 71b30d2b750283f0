// Command ticketcore runs the train-ticket reservation engine as a
// line-oriented batch processor: it reads framed commands from stdin and
// writes framed replies to stdout until exit or EOF.
package main

import (
	"log/slog"
	"os"

	"ticketcore/internal/textline"
	"ticketcore/pkg/command"
	"ticketcore/pkg/config"
	"ticketcore/pkg/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
	var handler slog.Handler
	if cfg.Log.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Store.DataDir, 0o755); err != nil {
		logger.Error("create data directory", "dir", cfg.Store.DataDir, "error", err)
		os.Exit(1)
	}

	stores, err := store.Open(cfg.Store.DataDir, cfg.Store.CacheCapacity)
	if err != nil {
		logger.Error("open stores", "error", err)
		os.Exit(1)
	}

	dispatcher := command.New(stores, logger)

	if err := textline.Run(os.Stdin, os.Stdout, dispatcher); err != nil {
		logger.Error("fatal dispatch error", "error", err)
		stores.Close()
		os.Exit(1)
	}

	if err := stores.Close(); err != nil {
		logger.Error("close stores", "error", err)
		os.Exit(1)
	}
}
