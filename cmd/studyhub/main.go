package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/internal/server"
	"studyhub/internal/session"
	"studyhub/internal/storage/sqlite"
	"studyhub/internal/util"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if err := util.LoadDotEnv(); err != nil {
		logger.Error("unable to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	addrFlag := flag.String("addr", util.EnvOrDefault("STUDYHUB_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("STUDYHUB_DB_PATH", sqlite.MemoryPath), "Activity journal sqlite path (:memory: keeps it in RAM)")
	staticFlag := flag.String("static", util.EnvOrDefault("STUDYHUB_STATIC_DIR", "web/dist"), "Directory with built frontend")
	tzFlag := flag.String("tz", util.EnvOrDefault("STUDYHUB_TZ", "Local"), "Time zone used to decide today's date")
	corsFlag := flag.String("cors-origins", util.EnvOrDefault("STUDYHUB_CORS_ORIGINS", "*"), "Comma separated list of allowed CORS origins")
	flag.Parse()

	loc, err := time.LoadLocation(*tzFlag)
	if err != nil {
		logger.Error("invalid time zone", slog.String("tz", *tzFlag), slog.String("error", err.Error()))
		os.Exit(1)
	}

	journal, err := sqlite.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open activity journal", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer journal.Close()

	srv := server.New(session.New(), journal, logger, server.Config{
		StaticDir: *staticFlag,
		Location:  loc,
	})

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Handler(util.SplitList(*corsFlag)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("tz", loc.String()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
