// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"scalers/internal/cache"
	"scalers/internal/catalog"
	"scalers/internal/config"
	"scalers/internal/contact"
	"scalers/internal/database"
	"scalers/internal/handlers"
	"scalers/internal/middleware"
	"scalers/internal/notify"
	"scalers/internal/realtime"
	"scalers/internal/render"
	"scalers/internal/router"
	"scalers/internal/session"
	"scalers/internal/site"
	"scalers/internal/storage"
	"scalers/internal/store"
	"scalers/web"
)

const (
	snapshotMaxAge  = 30 * time.Second
	contactLimit    = 5
	contactWindow   = time.Minute
	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the website and admin panel",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"notify", cfg.NotifyBackend,
	)

	// Connect to PostgreSQL and bring the schema up to date.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	// Valkey holds sessions and rendered pages, and fans out changes.
	vk, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer vk.Close()

	sessions := session.NewStore(vk, cfg.SecureCookies())
	pageCache := cache.NewPageCache(vk, cache.DefaultPageTTL)

	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	changeLog := store.NewChangeLogStore(db)
	userStore := store.NewUserStore(db)

	objects, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	bus := openBus(cfg, vk)

	siteContent, err := site.Load(cfg.SiteContentPath)
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg.IsDev(), siteContent)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	svc := catalog.NewService(contentStore, categoryStore, objects, bus, changeLog)
	snapshot := catalog.NewSnapshot(contentStore, snapshotMaxAge)

	relay := contact.NewRelay(cfg.FormRelayURL, cfg.FormRelayTimeout)
	contactSvc := contact.NewService(relay, func(s string) bool {
		return renderer.Site().OffersService(s)
	})

	limiter := middleware.NewRateLimiter(contactLimit, contactWindow)
	defer limiter.Stop()

	hub := realtime.NewHub(wsOrigins(cfg.Origins())...)
	defer hub.Close()

	admin := handlers.NewAdmin(renderer, sessions, svc, changeLog, contentStore)
	auth := handlers.NewAuth(renderer, sessions, userStore, cfg.Require2FA)
	public := handlers.NewPublic(renderer, snapshot, categoryStore, contactSvc, pageCache)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	var mediaOrigins []string
	if cfg.S3PublicURL != "" {
		mediaOrigins = append(mediaOrigins, cfg.S3PublicURL)
	}
	r := router.New(router.Options{
		Sessions:      sessions,
		SecureCookies: cfg.SecureCookies(),
		CORSOrigins:   cfg.Origins(),
		MediaOrigins:  mediaOrigins,
		Static:        static,
		Changes:       hub,
		ContactLimit:  limiter.Middleware,
	}, admin, auth, public)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second, // uploads up to 50 MB
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		hub.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	// Every content or category change drops the public snapshot and all
	// rendered pages, and tells open browsers to refresh.
	g.Go(func() error {
		snapshot.Watch(ctx, bus, func(ev notify.Event) {
			pageCache.InvalidateAll(ctx)
			slog.Debug("page cache cleared", "table", ev.Table, "action", ev.Action)
		})
		return nil
	})
	g.Go(func() error {
		hub.Run(ctx, bus)
		return nil
	})

	if cfg.SiteContentPath != "" {
		g.Go(func() error {
			return site.Watch(ctx, cfg.SiteContentPath, func(c *site.Content) {
				renderer.SetSite(c)
				pageCache.InvalidateAll(ctx)
			})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}

// openStorage returns nil when no bucket is configured, leaving the admin
// with URL entry only.
func openStorage(ctx context.Context, cfg *config.Config) (catalog.ObjectStore, error) {
	client, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, err
	}
	if client == nil {
		slog.Warn("S3 not configured, media uploads disabled")
		return nil, nil
	}
	if err := client.Check(ctx); err != nil {
		slog.Warn("S3 bucket unreachable, uploads may fail", "bucket", client.Bucket(), "error", err)
	} else {
		slog.Info("S3 storage ready", "bucket", client.Bucket())
	}
	return client, nil
}

func openBus(cfg *config.Config, vk *redis.Client) notify.Bus {
	if cfg.NotifyBackend == config.NotifyLocal {
		return notify.NewLocalBus()
	}
	return notify.NewRedisBus(vk, notify.DefaultChannel)
}

// wsOrigins drops the CORS wildcard, which would otherwise be compared
// literally against Origin headers.
func wsOrigins(origins []string) []string {
	var out []string
	for _, o := range origins {
		if o != "*" {
			out = append(out, o)
		}
	}
	return out
}
