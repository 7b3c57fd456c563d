// Package main is the entry point for the storefront API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/entitlement"
	"storefront/internal/handlers"
	"storefront/internal/mail"
	"storefront/internal/paths"
	"storefront/internal/payment"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/store"
)

func main() {
	// Structured logger — text output, debug level.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Ensure the configured admin allow-list exists with admin role.
	if err := database.EnsureAdmins(db, cfg.AdminEmails); err != nil {
		slog.Error("failed to ensure admin accounts", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// session cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Catalog cache for the category tree.
	catalogCache := cache.NewCatalogCache(valkeyClient, cache.DefaultTreeTTL)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)
	purchaseStore := store.NewPurchaseStore(db)
	visitorStore := store.NewVisitorStore(db)

	// Connect to S3-compatible object storage (optional — the API works
	// without it, but download links then carry no URL).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3FilesBucket,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", cfg.S3FilesBucket,
		)
	} else {
		slog.Warn("s3 storage not configured — download links disabled")
	}

	// Transactional mail provider (no-op when unconfigured).
	mailer := mail.New(cfg.MailEndpoint, cfg.MailAPIKey, cfg.MailFrom)

	// Payment gateway verification (skipped when unconfigured).
	var verifier payment.Verifier
	if client := payment.New(cfg.PaymentEndpoint, cfg.PaymentAPIKey); client != nil {
		verifier = client
		slog.Info("payment verification enabled", "endpoint", cfg.PaymentEndpoint)
	} else {
		slog.Warn("payment gateway not configured — purchases recorded unverified")
	}

	// Entitlement checker issues presigned download links for completed
	// purchases. A nil signer is tolerated when S3 is not configured.
	var signer entitlement.LinkSigner
	if storageClient != nil {
		signer = storageClient
	}
	checker := entitlement.NewChecker(purchaseStore, postStore, signer, cfg.DownloadLinkTTL)

	// Path resolver for category URLs.
	resolver := paths.NewResolver(categoryStore)

	// Create handler groups with their dependencies.
	catalogHandlers := handlers.NewCatalog(categoryStore, catalogCache)
	productHandlers := handlers.NewProducts(postStore, categoryStore, resolver, cfg.BaseURL)
	purchaseHandlers := handlers.NewPurchases(purchaseStore, postStore, verifier, mailer)
	downloadHandlers := handlers.NewDownloads(checker)
	authHandlers := handlers.NewAuth(userStore, sessionStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:  sessionStore,
		Visitors:  visitorStore,
		Catalog:   catalogHandlers,
		Products:  productHandlers,
		Purchases: purchaseHandlers,
		Downloads: downloadHandlers,
		Auth:      authHandlers,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// payment verification and presigning on the slowest endpoints.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
