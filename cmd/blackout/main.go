package main

// @title           Blackout API
// @version         1.0
// @description     PDF redaction service. Blackout manages redaction marks on registered documents and exports redacted copies with opaque black annotations burned in.

// @contact.name   Blackout OSS
// @contact.url    https://github.com/custodia-labs/blackout/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/blackout/internal/adapters/driven/pdfwriter"
	"github.com/custodia-labs/blackout/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/blackout/internal/adapters/driven/redis"
	"github.com/custodia-labs/blackout/internal/adapters/driving/http"
	"github.com/custodia-labs/blackout/internal/config"
	"github.com/custodia-labs/blackout/internal/core/domain"
	"github.com/custodia-labs/blackout/internal/core/ports/driven"
	"github.com/custodia-labs/blackout/internal/core/services"
)

var version = "dev"

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("blackout %s starting", version)

	ctx := context.Background()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	dbConfig := postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleSec) * time.Second,
	}
	db, err := postgres.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== PostgreSQL Stores =====
	documentStore := postgres.NewDocumentStore(db)
	redactionStore := postgres.NewRedactionStore(db)

	// ===== Distributed Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var distributedLock driven.DistributedLock
	if redisClient != nil {
		distributedLock = redisadapter.NewLock(redisClient)
		log.Println("Using Redis distributed lock")
	} else {
		distributedLock = postgres.NewAdvisoryLock(db)
		log.Println("Using PostgreSQL advisory lock")
	}

	// ===== PDF Renderer =====
	renderer := pdfwriter.NewRenderer()

	// ===== Services (core business logic) =====
	builder := domain.Builder{Strict: cfg.Redactions.StrictMultiBox}
	logger := slog.Default()

	documentService := services.NewDocumentService(documentStore, redactionStore, renderer, logger)
	redactionService := services.NewRedactionService(documentStore, redactionStore, renderer, distributedLock, builder, logger)

	log.Printf("Validation config: strict_multi_box=%t", cfg.Redactions.StrictMultiBox)

	// ===== HTTP server =====
	serverCfg := http.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	server := http.NewServer(serverCfg, documentService, redactionService, db, distributedLock)

	log.Printf("API server starting on :%d", cfg.Server.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
