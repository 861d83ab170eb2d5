// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/docpropel/docpropel/internal/auth"
	"github.com/docpropel/docpropel/internal/cache"
	"github.com/docpropel/docpropel/internal/config"
	"github.com/docpropel/docpropel/internal/geoip"
	"github.com/docpropel/docpropel/internal/handler"
	"github.com/docpropel/docpropel/internal/handler/api"
	"github.com/docpropel/docpropel/internal/legacy"
	"github.com/docpropel/docpropel/internal/logging"
	"github.com/docpropel/docpropel/internal/middleware"
	"github.com/docpropel/docpropel/internal/notify"
	"github.com/docpropel/docpropel/internal/render"
	"github.com/docpropel/docpropel/internal/scheduler"
	"github.com/docpropel/docpropel/internal/service"
	"github.com/docpropel/docpropel/internal/session"
	"github.com/docpropel/docpropel/internal/store"
	"github.com/docpropel/docpropel/internal/version"
	"github.com/docpropel/docpropel/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// staticMaxAge is the browser cache lifetime of /static assets in production.
const staticMaxAge = 7 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	importDSN := flag.String("import-mysql", "", "Import the legacy MySQL database at `dsn` and exit")
	hashPassword := flag.String("hash-password", "", "Print an argon2id hash of `password` for ADMIN_PASSWORD and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "DocPropel - practice growth site and lead desk\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_SESSION_SECRET  Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_TOKEN_SECRET    Admin token signing key (default: session secret)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_DB_PATH         SQLite database path, empty to run without one (default: ./data/docpropel.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_REDIS_URL       Redis URL for the content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DOCPROPEL_GEOIP_DB_PATH   MaxMind country database for lead locations (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_USERNAME            Dashboard username (default: admin)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADMIN_PASSWORD            Dashboard password or argon2id hash; empty disables login\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENDGRID_API_KEY          Email notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TWILIO_ACCOUNT_SID        SMS and WhatsApp notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OAUTH_SERVER_URL          Identity provider for owner sign-in (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(hash)
		os.Exit(0)
	}

	var err error
	if *importDSN != "" {
		err = runImport(*importDSN)
	} else {
		err = run(info)
	}
	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the text logger at the configured level.
func setupLogger(cfg *config.Config) (*slog.Logger, slog.Level) {
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return logger, logLevel
}

// openDatabase creates the data directory, opens the database and applies
// migrations.
func openDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", path)
	db, err := store.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")
	return db, nil
}

// runImport copies the legacy MySQL data into the configured database.
func runImport(dsn string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, _ := setupLogger(cfg)

	if !cfg.DatabaseEnabled() {
		return errors.New("DOCPROPEL_DB_PATH is empty; nothing to import into")
	}

	db, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	reader, err := legacy.Open(dsn)
	if err != nil {
		return fmt.Errorf("opening legacy database: %w", err)
	}
	defer func() { _ = reader.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := legacy.Import(ctx, reader, db, logger); err != nil {
		return fmt.Errorf("importing legacy data: %w", err)
	}
	return nil
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, logLevel := setupLogger(cfg)
	ctx := context.Background()

	var db *sql.DB
	if cfg.DatabaseEnabled() {
		db, err = openDatabase(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("error closing database connection", "error", err)
			}
		}()

		// Upgrade logger to also write WARN and ERROR logs to the event log
		textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
		logger = slog.New(logging.NewEventLogHandler(textHandler, db))
		slog.SetDefault(logger)
		slog.Info("event log integration enabled", "min_level", "warn")

		if cfg.DoSeed {
			if err := store.Seed(ctx, db); err != nil {
				return fmt.Errorf("seeding database: %w", err)
			}
		}
	} else {
		slog.Warn("no database configured; leads and content edits will not be saved")
	}

	contentCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
	})
	defer func() { _ = contentCache.Close() }()

	var cachePinger handler.Pinger
	if rc, ok := contentCache.(*cache.RedisCache); ok {
		cachePinger = rc
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip database unavailable, lead countries disabled", "path", cfg.GeoIPDBPath, "error", err)
		geo = &geoip.Lookup{}
	}
	defer func() { _ = geo.Close() }()

	// Services
	contentService := service.NewContentService(db, contentCache, time.Duration(cfg.CacheTTL)*time.Second)
	eventService := service.NewEventService(db)
	testimonialService := service.NewTestimonialService(db)
	userService := service.NewUserService(db, cfg.OwnerOpenID)

	var recorder notify.Recorder
	if db != nil {
		recorder = store.New(db)
	}
	dispatcher := notify.NewDispatcher(
		contentService,
		&notify.SendGrid{APIKey: cfg.SendGridAPIKey, FromEmail: cfg.SendGridFromEmail, FromName: cfg.SendGridFromName},
		&notify.Twilio{AccountSID: cfg.TwilioAccountSID, AuthToken: cfg.TwilioAuthToken, From: cfg.TwilioPhoneNumber},
		&notify.Twilio{AccountSID: cfg.TwilioAccountSID, AuthToken: cfg.TwilioAuthToken, From: cfg.TwilioWhatsApp, WhatsApp: true},
		recorder,
		logger,
	)
	leadService := service.NewLeadService(db, dispatcher, geo)

	// Scheduler
	sched := scheduler.New(logger)
	if db != nil {
		if err := sched.AddRetentionJob(eventService, cfg.EventRetentionDays); err != nil {
			return fmt.Errorf("scheduling retention job: %w", err)
		}
	}
	if err := sched.AddGeoIPReloadJob(geo); err != nil {
		return fmt.Errorf("scheduling geoip reload: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Sessions, tokens and templates
	sessionManager := session.New(db, cfg.IsDevelopment())
	signer := auth.NewTokenSigner(cfg.SigningSecret())
	oauthClient := auth.NewOAuthClient(cfg.OAuthServerURL, cfg.OAuthClientID, cfg.OAuthClientSecret)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates filesystem: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()
	submissionLimiter := middleware.NewRateLimiter(1, 5)
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

	// Handlers
	pagesHandler := handler.NewPagesHandler(renderer, contentService, leadService, testimonialService, logger)
	authHandler := handler.NewAuthHandler(renderer, sessionManager, oauthClient, userService, cfg.AdminPassword != "", logger)
	healthHandler := handler.NewHealthHandler(db, cachePinger, dataDir(cfg), info)
	var sitemapContent *service.ContentService
	if db != nil {
		sitemapContent = contentService
	}
	seoHandler := handler.NewSEOHandler(sitemapContent, cfg.IsDevelopment(), logger)
	apiHandler := api.NewHandler(api.Config{
		Content:      contentService,
		Leads:        leadService,
		Testimonials: testimonialService,
		Users:        userService,
		Events:       eventService,
		Notifier:     dispatcher,
		Credentials:  auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		Tokens:       signer,
		Login:        loginProtection,
		Submissions:  submissionLimiter,
		Sessions:     sessionManager,
		Jobs:         sched.Registry(),
		Logger:       logger,
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.RedirectSlashes)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Probes and crawler files skip sessions so bots do not create them
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadIdentity(nil, nil, signer))
		r.Get(handler.RouteHealth, healthHandler.Health)
		r.Get(handler.RouteHealthLive, healthHandler.Liveness)
		r.Get(handler.RouteHealthReady, healthHandler.Readiness)
		r.Get(handler.RouteRobots, seoHandler.Robots)
		r.Get(handler.RouteSitemap, seoHandler.Sitemap)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadIdentity(sessionManager, userService, signer))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, pagesHandler.Home)
		r.Get(handler.RouteServices, pagesHandler.Services)
		r.Get(handler.RouteHowItWorks, pagesHandler.HowItWorks)
		r.Get(handler.RouteCompare, pagesHandler.Compare)
		r.Get(handler.RouteAbout, pagesHandler.About)
		r.Get(handler.RouteResults, pagesHandler.Results)
		r.Get(handler.RoutePresenter, pagesHandler.Presenter)
		r.Get(handler.RouteCalculator, pagesHandler.Calculator)
		r.Get(handler.RouteContact, pagesHandler.Contact)

		r.Group(func(r chi.Router) {
			r.Use(submissionLimiter.HTMLMiddleware())
			r.Post(handler.RouteCalculator, pagesHandler.SubmitCalculator)
			r.Post(handler.RouteContact, pagesHandler.SubmitContact)
		})

		r.Get(handler.RouteAdmin, authHandler.Dashboard)
		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.Get(handler.RouteOAuthLogin, authHandler.OAuthLogin)
		r.Get(handler.RouteOAuthCallback, authHandler.OAuthCallback)

		r.Mount(handler.RouteRPC, apiHandler.Routes())
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static filesystem: %w", err)
	}
	maxAge := staticMaxAge
	if cfg.IsDevelopment() {
		maxAge = 0
	}
	r.Handle(handler.RouteStatic, middleware.StaticCache(maxAge)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	r.NotFound(pagesHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// dataDir is the directory the health check watches for free space.
func dataDir(cfg *config.Config) string {
	if !cfg.DatabaseEnabled() {
		return ""
	}
	return filepath.Dir(cfg.DBPath)
}
