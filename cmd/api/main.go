package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io/fs"
	"log"
	"os"
	"runtime"
	"strings"
	"time"

	"paybridge/internal/billing"
	"paybridge/internal/cache"
	"paybridge/internal/db"
	"paybridge/internal/domain/paymentsrepo"
	"paybridge/internal/domain/plans"
	"paybridge/internal/domain/storage"
	"paybridge/internal/payments"
	"paybridge/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

var version = "1.0.0"

//	@title			Paybridge API
//	@description	Plan catalog, Konnect payment initiation and payment verification.

//	@contact.name	API Support
//	@contact.url	http://www.swagger.io/support
//	@contact.email	support@swagger.io

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/
//	@securityDefinitions.basic	BasicAuth

func main() {
	// .env is optional; deployments inject the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	if cfg.db.autoMigrate {
		if err := db.Migrate(pool, "up"); err != nil {
			logger.Fatalw("migrations failed", "error", err.Error())
		}
		logger.Info("database migrations applied")
	}

	container := storage.NewContainer(pool)

	gateway := payments.NewKonnectAdapter(payments.KonnectConfig{
		BaseURL:                cfg.konnect.apiURL,
		APIKey:                 cfg.konnect.apiKey,
		WalletID:               cfg.konnect.walletID,
		CallbackURL:            strings.TrimRight(cfg.frontendURL, "/") + "/verify-payment",
		CheckoutForm:           true,
		AddPaymentFeesToAmount: true,
		Timeout:                cfg.konnect.timeout,
	})

	svc := billing.NewService(container.Repos, container, gateway, cfg.billing, logger)

	var catalog plans.Lister = container.Plans
	if cfg.redis.addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := cache.NewClient(ctx, cfg.redis.addr, cfg.redis.password)
		cancel()
		if err != nil {
			logger.Warnw("plan cache disabled, redis unreachable", "addr", cfg.redis.addr, "error", err.Error())
		} else {
			defer rdb.Close()
			catalog = cache.NewPlanCache(rdb, container.Plans, cfg.redis.plansTTL, logger)
			logger.Infow("plan cache enabled", "addr", cfg.redis.addr, "ttl", cfg.redis.plansTTL)
		}
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		billing:     svc,
		catalog:     catalog,
		payments:    container.Payments,
		paymentLogs: paymentsrepo.NewLogsRepository(pool),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.rateLimiter.RequestsPerTimeFrame,
			cfg.rateLimiter.TimeFrame,
		),
	}

	//Metrics collected http://localhost:3000/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
