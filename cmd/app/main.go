package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/labelstore"
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/labelrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/jobs"
	"fulfillment/internal/metrics"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	createDbIfNotExists(configs)
	gormDB := mustConnectDB(configs)
	mustMigrateDB(gormDB)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	labelStore := mustCreateLabelStore(ctx, configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, labelStore, redisClient, m)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateTaskStore(),
		app.CreateGenerateShipmentCommandHandler(),
		app.CreateProcessWebhookCommandHandler(),
		logger,
		m,
	)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, m, registry, configs.HTTPPort, logger)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RedisAddr:            goDotEnvVariable("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		TrackingCacheTTLSecs: envInt("TRACKING_CACHE_TTL_SECONDS", 300),

		S3Region:      goDotEnvVariable("S3_REGION"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3LabelBucket: goDotEnvVariable("S3_LABEL_BUCKET"),

		CarrierABaseURL: goDotEnvVariable("CARRIER_A_BASE_URL"),
		CarrierAAPIKey:  os.Getenv("CARRIER_A_API_KEY"),
		CarrierBBaseURL: goDotEnvVariable("CARRIER_B_BASE_URL"),
		CarrierBAPIKey:  os.Getenv("CARRIER_B_API_KEY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

// createDbIfNotExists bootstraps the application database over a raw lib/pq
// connection, since GORM needs the database to already exist.
func createDbIfNotExists(configs cmd.Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBSslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", configs.DBName).
		Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if _, err := db.Exec("CREATE DATABASE " + configs.DBName); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
	}
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func mustMigrateDB(db *gorm.DB) {
	err := db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&labelrepo.LabelDTO{},
		&webhookrepo.WebhookDTO{},
		&auditrepo.EntryDTO{},
		&taskrepo.TaskDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}

func mustCreateLabelStore(ctx context.Context, configs cmd.Config) *labelstore.S3Store {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(configs.S3Region),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if configs.S3Endpoint != "" {
			o.BaseEndpoint = &configs.S3Endpoint
			o.UsePathStyle = true
		}
	})

	store, err := labelstore.NewS3Store(client, configs.S3LabelBucket)
	if err != nil {
		log.Fatalf("Failed to create label store: %v", err)
	}
	return store
}

func startWebServer(app *cmd.CompositionRoot, m *metrics.Metrics, registry *prometheus.Registry, port string, logger *slog.Logger) {
	e := echo.New()
	e.HideBanner = true

	server := httpadapter.NewServer(
		app.CreateTransitionOrderCommandHandler(),
		app.CreateGenerateShipmentCommandHandler(),
		app.CreateDeleteShipmentCommandHandler(),
		app.CreateRefreshTrackingCommandHandler(),
		app.CreateIngestWebhookCommandHandler(),
		app.CreateReprocessWebhookCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetWebhookQueryHandler(),
		m,
		registry,
	)
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}
