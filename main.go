package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cenkokut62/sagaplus/collections"
	"github.com/cenkokut62/sagaplus/commands"
	"github.com/cenkokut62/sagaplus/config"
	"github.com/cenkokut62/sagaplus/handlers"
	"github.com/cenkokut62/sagaplus/services"
	"github.com/cenkokut62/sagaplus/sessions"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	app := pocketbase.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.Fatal("session store", zap.Error(err))
	}

	company := services.CompanyInfo{Name: cfg.CompanyName, Tagline: cfg.CompanyTagline}
	loc := cfg.Location()

	app.RootCmd.AddCommand(commands.NewQuoteCommand(app))

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			logger.Warn("seed data failed", zap.Error(err))
		}
		if err := collections.MigrateVisitDurations(app); err != nil {
			logger.Warn("visit duration migration failed", zap.Error(err))
		}
		if err := services.BackfillOfferNumbers(app); err != nil {
			logger.Warn("offer number backfill failed", zap.Error(err))
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Catalog ─────────────────────────────────────────────
		catalog := se.Router.Group("/api/catalog")
		catalog.Bind(apis.RequireAuth())
		catalog.GET("/premium/compatible", handlers.HandleCompatiblePeripherals(app))
		catalog.GET("/{category}", handlers.HandleCatalog(app))
		se.Router.GET("/api/options", handlers.HandleOptions()).Bind(apis.RequireAuth())

		// ── Quote sessions ──────────────────────────────────────
		quotes := se.Router.Group("/api/quotes")
		quotes.Bind(apis.RequireAuth())
		quotes.POST("", handlers.HandleQuoteCreate(app, store))

		loadQuote := handlers.QuoteSessionMiddleware(store)
		quotes.GET("/{id}", handlers.HandleQuoteGet()).BindFunc(loadQuote)
		quotes.DELETE("/{id}", handlers.HandleQuoteDelete(store)).BindFunc(loadQuote)
		quotes.POST("/{id}/package", handlers.HandleQuoteSelectPackage(app, store)).BindFunc(loadQuote)
		quotes.DELETE("/{id}/package", handlers.HandleQuoteClearPackage(store)).BindFunc(loadQuote)
		quotes.POST("/{id}/peripherals", handlers.HandleQuoteSetPeripheral(app, store)).BindFunc(loadQuote)
		quotes.POST("/{id}/peripherals/add", handlers.HandleQuoteAddPeripheral(app, store)).BindFunc(loadQuote)
		quotes.POST("/{id}/flags", handlers.HandleQuoteFlags(store)).BindFunc(loadQuote)
		quotes.POST("/{id}/finalize", handlers.HandleQuoteFinalize(app, store, company)).BindFunc(loadQuote)

		// ── Offers ──────────────────────────────────────────────
		offers := se.Router.Group("/api/offers")
		offers.Bind(apis.RequireAuth())
		offers.GET("/{id}/pdf", handlers.HandleOfferPDF(app))

		// ── Reports ─────────────────────────────────────────────
		reports := se.Router.Group("/api/reports")
		reports.Bind(apis.RequireAuth())
		reports.GET("/daily", handlers.HandleDailyReport(app, loc))
		reports.GET("/daily/pdf", handlers.HandleDailyReportPDF(app, company, loc))
		reports.GET("/daily/xlsx", handlers.HandleDailyReportExcel(app, company, loc))

		// ── Product import ──────────────────────────────────────
		products := se.Router.Group("/api/products")
		products.Bind(apis.RequireAuth())
		products.POST("/import", handlers.HandleProductImport(app))
		products.POST("/import/errors", handlers.HandleProductErrorReport())
		products.GET("/import/template", handlers.HandleProductTemplateDownload())

		// ── Targets ─────────────────────────────────────────────
		targets := se.Router.Group("/api/targets")
		targets.Bind(apis.RequireAuth())
		targets.POST("", handlers.HandleTargetUpsert(app))
		targets.GET("/progress", handlers.HandleTargetProgress(app, loc))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/_/")
		})

		return se.Next()
	})

	app.OnTerminate().BindFunc(func(te *core.TerminateEvent) error {
		cancel()
		return te.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("app stopped", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newSessionStore picks the quote session backend. The memory store is
// swept periodically until ctx is cancelled.
func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client, err := sessions.DialRedis(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisConnectTimeout)
		if err != nil {
			return nil, err
		}
		zap.L().Info("quote sessions stored in redis", zap.String("addr", cfg.RedisAddr))
		return sessions.NewRedisStore(client, cfg.SessionTTL), nil
	default:
		store := sessions.NewMemoryStore(cfg.SessionTTL)
		go func() {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := store.Sweep(); n > 0 {
						zap.L().Debug("expired quote sessions dropped", zap.Int("count", n))
					}
				}
			}
		}()
		return store, nil
	}
}
