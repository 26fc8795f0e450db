package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cartable-app/cartable/app/api"
	"github.com/cartable-app/cartable/app/calendar"
	"github.com/cartable-app/cartable/app/cfg"
	"github.com/cartable-app/cartable/app/database"
	"github.com/cartable-app/cartable/app/homework"
	"github.com/cartable-app/cartable/app/sources"
	"github.com/cartable-app/cartable/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// .env is optional; flags and environment variables take over
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Cartable server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	feedRepo := database.NewFeedRepository(db)
	homeworkRepo := database.NewHomeworkRepository(db)

	// Register calendar sources declared in the seed file
	seeded, err := sources.Load(appCfg.SourcesFile)
	if err != nil {
		log.Fatalf("Failed to load sources file: %v", err)
	}
	for _, source := range seeded {
		err := feedRepo.UpsertFeed(context.Background(), calendar.Feed{
			URL:                source.URL,
			Title:              source.Title,
			IntelligentParsing: source.IntelligentParsing,
			Color:              source.Color,
		})
		if err != nil {
			slog.Warn("Failed to register source", "url", source.URL, "error", err)
		}
	}
	if len(seeded) > 0 {
		slog.Info("Registered seeded sources", "count", len(seeded))
	}

	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	feedCache := calendar.NewCache(
		appCfg.CacheDir,
		httpClient,
		time.Duration(appCfg.FeedTTL)*time.Second,
		time.Duration(appCfg.FetchTimeout)*time.Second,
		appCfg.UserAgent,
	)
	calendarService := calendar.NewService(feedCache, calendar.NewParser(), calendar.NewConverter(), feedRepo)

	var remote homework.RemoteSource
	if appCfg.RemoteURL != "" {
		remote = homework.NewRemoteClient(appCfg.RemoteURL, appCfg.RemoteToken, appCfg.UserAgent, httpClient)
		slog.Info("Remote homework source configured", "url", appCfg.RemoteURL)
	} else {
		slog.Info("No remote homework source configured, serving local records only")
	}
	homeworkService := homework.NewService(homeworkRepo, remote)

	scheduler := tasks.NewScheduler(calendarService, homeworkService)
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("Background scheduler started", "workers", appCfg.WorkerCount, "interval_seconds", appCfg.SchedulerInterval)

	handler := api.NewHandler(calendarService, homeworkService, feedRepo, homeworkRepo)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
