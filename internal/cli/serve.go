package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/arigopay/backend/docs"
	"github.com/arigopay/backend/internal/audit"
	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/database"
	"github.com/arigopay/backend/internal/handlers"
	"github.com/arigopay/backend/internal/logger"
	mW "github.com/arigopay/backend/internal/middleware"
	"github.com/arigopay/backend/internal/services"
	"github.com/arigopay/backend/internal/store"
	"github.com/spf13/cobra"
)

var migrateOnStart bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook and account API server",
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "Apply pending postgres migrations before serving")
	return cmd
}

// backend is the storage wiring selected by store.driver.
type backend struct {
	settlements services.SettlementStore
	accounts    services.AccountStore
	cache       services.SettlementCache
	checks      map[string]handlers.HealthCheck
	closers     []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	b := &backend{checks: map[string]handlers.HealthCheck{}}

	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		mdb, err := database.InitMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mdb.Client().Disconnect(shutdownCtx)
		})

		ms := store.NewMongoStore(mdb)
		if err := ms.EnsureIndexes(ctx); err != nil {
			b.close()
			return nil, err
		}
		b.settlements, b.accounts = ms, ms
		b.checks["mongo"] = func(ctx context.Context) error { return mdb.Client().Ping(ctx, nil) }

	default:
		db, err := database.InitDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() { db.Close() })

		if migrateOnStart {
			if err := database.RunMigrations(db); err != nil {
				b.close()
				return nil, err
			}
		}

		ps := store.NewPostgresStore(db)
		b.settlements, b.accounts = ps, ps
		b.checks["postgres"] = db.PingContext
	}

	if rdb := database.InitRedis(ctx, cfg.Redis); rdb != nil {
		b.cache = services.NewRedisSettlementCache(rdb, cfg.Settlement.CacheTTL)
		b.closers = append(b.closers, func() { rdb.Close() })
		b.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	return b, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier, err := services.NewWebhookVerifier(cfg.Paystack.SecretKey)
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.JWT.SecretKey == "" {
		logger.Warnf("[SERVER] jwt.secret_key is empty; /api/v1 will reject every request")
	}

	// Let the swagger UI target whichever host served it.
	docs.SwaggerInfo.Host = ""

	auditLogger := audit.NewLogger()
	settlements := services.NewSettlementService(be.settlements, be.cache, auditLogger)
	limiter := mW.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	defer limiter.Stop()

	router := newRouter(routes{
		webhook:   handlers.NewWebhookHandler(verifier, settlements, auditLogger, cfg.Paystack.SignatureHeader),
		account:   handlers.NewAccountHandler(services.NewAccountService(be.accounts)),
		health:    handlers.NewHealthHandler(be.checks),
		limiter:   limiter,
		jwtSecret: cfg.JWT.SecretKey,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("[SERVER] Starting on :%s (store=%s)", cfg.Server.Port, cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("[SERVER] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Infof("[SERVER] Stopped")
	return nil
}
