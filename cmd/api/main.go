package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chachabrian/ridebook-backend/internal/authclient"
	"github.com/chachabrian/ridebook-backend/internal/config"
	"github.com/chachabrian/ridebook-backend/internal/database"
	"github.com/chachabrian/ridebook-backend/internal/handlers"
	"github.com/chachabrian/ridebook-backend/internal/ledger"
	"github.com/chachabrian/ridebook-backend/internal/logger"
	"github.com/chachabrian/ridebook-backend/internal/payments"
	"github.com/chachabrian/ridebook-backend/internal/services"
	"github.com/chachabrian/ridebook-backend/internal/store/memory"
	"github.com/chachabrian/ridebook-backend/internal/store/mongostore"
	"github.com/chachabrian/ridebook-backend/internal/textgen"
)

type rideStore interface {
	ledger.Store
	Close() error
}

func main() {
	cfg, foundEnv, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	if !foundEnv {
		logg.Warn("no .env file found, using process environment")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.App, logg *zap.Logger) (rideStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.InitDB(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return database.NewRideStore(db), nil
	case config.StoreDriverMongo:
		return mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logg)
	case config.StoreDriverMemory:
		logg.Warn("using in-memory ride store, bookings are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func run(ctx context.Context, cfg config.App, logg *zap.Logger) error {
	store, err := openStore(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize ride store: %w", err)
	}
	defer store.Close()
	logg.Info("ride store ready", zap.String("driver", cfg.StoreDriver))

	// Initialize WebSocket hub
	hub := services.NewHub(logg)
	go hub.Run(ctx)

	notifiers := []ledger.Notifier{hub}

	if cfg.RedisURL != "" {
		rdb, err := services.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer rdb.Close()
		notifiers = append(notifiers, services.NewRidePublisher(rdb))
	} else {
		logg.Warn("REDIS_URL not set, ride events are not published")
	}

	// Initialize Storage (S3 or local fallback)
	archiver, err := services.InitStorage(cfg.Storage, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	notifiers = append(notifiers, archiver)

	rides := ledger.New(store,
		ledger.WithLogger(logg),
		ledger.WithNotifiers(notifiers...),
		ledger.WithPersistedSharedNames(cfg.PersistSharedNames),
	)

	deps := handlers.Deps{
		Ledger:      rides,
		Auth:        authclient.New(cfg.AuthBaseURL),
		Hub:         hub,
		Log:         logg,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.StripeKey != "" {
		deps.Payments = payments.NewStripeProvider(cfg.StripeKey, cfg.CheckoutCurrency)
	} else {
		logg.Warn("STRIPE_KEY not set, checkout is disabled")
	}
	if cfg.GeminiAPIKey != "" {
		gen, err := textgen.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to initialize text generation: %w", err)
		}
		deps.TextGen = gen
	} else {
		logg.Warn("GEMINI_API_KEY not set, text generation is disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
