// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command portal runs the REST backend of the regional council portal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/consejoregional/portal-go/internal/auth"
	"github.com/consejoregional/portal-go/internal/cache"
	"github.com/consejoregional/portal-go/internal/config"
	"github.com/consejoregional/portal-go/internal/geoip"
	"github.com/consejoregional/portal-go/internal/handler/api"
	"github.com/consejoregional/portal-go/internal/imaging"
	"github.com/consejoregional/portal-go/internal/logging"
	"github.com/consejoregional/portal-go/internal/notifier"
	"github.com/consejoregional/portal-go/internal/scheduler"
	"github.com/consejoregional/portal-go/internal/service"
	"github.com/consejoregional/portal-go/internal/session"
	"github.com/consejoregional/portal-go/internal/storage"
	"github.com/consejoregional/portal-go/internal/store"
	"github.com/consejoregional/portal-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("portal %s (commit: %s, built: %s)\n",
			info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors are mirrored into the events table once the
	// database is up.
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	if cfg.DoSeed {
		res, err := store.New(db).Seed(context.Background(), time.Now())
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if res.AdminCreated {
			// Printed once; the operator must change it after first login.
			logger.Info("bootstrap admin created",
				"email", store.SeedAdminEmail, "password", res.AdminPassword)
		}
	}

	appCache, err := cache.New(cache.Options{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		CleanupInterval: time.Minute,
		MaxEntries:      cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()

	resolver := storage.NewResolver(cfg.StorageBaseURL, cfg.SGDStorageBaseURL,
		int64(cfg.SGDYearThreshold))
	processor := imaging.NewProcessor(cfg.UploadsDir)

	var mailer notifier.Mailer
	if cfg.SMTPEnabled() {
		mailer = notifier.NewSMTPMailer(notifier.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	} else {
		logger.Warn("SMTP not configured, notifications stay queued and passwords are returned in responses")
	}

	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		logger.Warn("geoip disabled", "error", err)
	}
	defer geo.Close()

	eventService := service.NewEventService(db)

	dispatcher := notifier.NewDispatcher(db, mailer, logger, notifier.DefaultConfig())
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher.Start(dispatcherCtx)
	defer func() {
		stopDispatcher()
		dispatcher.Stop()
	}()

	sched := scheduler.New(logger, dispatcher, eventService, geo)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	sessions := session.New(db, cfg.IsDevelopment())
	jwt := auth.JWT{Secret: []byte(cfg.JWTSecret), TokenTTL: 24 * time.Hour}

	handler := api.NewHandler(api.Deps{
		DB:         db,
		Agendas:    service.NewAgendaService(db),
		Documentos: service.NewDocumentoService(db, resolver, cfg.UploadsDir),
		Noticias:   service.NewNoticiaService(db, resolver, appCache),
		Consejeros: service.NewConsejeroService(db, resolver, processor),
		Users:      service.NewUserService(db, processor, mailer),
		Config:     service.NewConfigService(db, appCache),
		Events:     eventService,
		Processor:  processor,
		Sessions:   sessions,
		JWT:        jwt,
		Geo:        geo,
	})

	router := handler.BuildRouter(api.RouterConfig{
		IsDev:          cfg.IsDevelopment(),
		CSRFKey:        []byte(cfg.SessionSecret),
		TrustedOrigins: cfg.TrustedOrigins,
		UploadsDir:     cfg.UploadsDir,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // room for 50MB document uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("starting server",
			"addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
