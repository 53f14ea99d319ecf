package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"paynow/internal/db"
	"paynow/internal/ledger"
	"paynow/internal/paynow"
	"paynow/internal/ratelimiter"
)

var version = "0.1.0"

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	if os.Getenv("ENV") == "development" {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)
	return zap.New(core).Sugar(), nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logger, err := NewLogger()
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer logger.Sync()

	maxConns, err := strconv.Atoi(os.Getenv("DB_MAX_CONNS"))
	if err != nil {
		logger.Fatalw("invalid DB_MAX_CONNS", "error", err)
	}

	cfg := config{
		addr:   os.Getenv("ADDR"),
		env:    os.Getenv("ENV"),
		apiURL: os.Getenv("EXTERNAL_URL"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    maxConns,
			maxIdleTime: os.Getenv("DB_MAX_IDLE_TIME"),
		},
		auth: basicConfig{
			user: os.Getenv("BASIC_AUTH_USER"),
			pass: os.Getenv("BASIC_AUTH_PASS"),
		},
		ratelimiter: loadRateLimiterConfig(),
	}

	integrationID, err := strconv.ParseUint(os.Getenv("PAYNOW_INTEGRATION_ID"), 10, 64)
	if err != nil {
		logger.Fatalw("invalid PAYNOW_INTEGRATION_ID", "error", err)
	}
	key, err := paynow.ParseIntegrationKey(os.Getenv("PAYNOW_INTEGRATION_KEY"))
	if err != nil {
		logger.Fatalw("invalid PAYNOW_INTEGRATION_KEY", "error", err)
	}
	defer key.Zero()

	database, err := db.New(cfg.db.addr, int32(cfg.db.maxConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatalw("could not connect to database", "error", err)
	}
	defer database.Close()
	logger.Info("database connection pool established")

	app := &application{
		config: cfg,
		logger: logger,
		paynow: paynow.New(integrationID, key, paynow.WithLogger(logger)),
		ledger: ledger.NewRepository(database),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(
			cfg.ratelimiter.RequestsPerTimeFrame,
			cfg.ratelimiter.TimeFrame,
		),
	}

	mux := app.mount()
	logger.Fatal(app.run(mux))
}

func loadRateLimiterConfig() ratelimiter.Config {
	cfg := ratelimiter.Config{
		RequestsPerTimeFrame: 200,
		TimeFrame:            5 * time.Second,
		Enabled:              os.Getenv("RATE_LIMITER_ENABLED") == "true",
	}
	if v := os.Getenv("RATELIMITER_REQUESTS_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestsPerTimeFrame = n
		}
	}
	return cfg
}
