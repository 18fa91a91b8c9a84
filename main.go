package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/susradar/susradar-server/handlers"
	"github.com/susradar/susradar-server/internal/backup"
	"github.com/susradar/susradar-server/internal/config"
	"github.com/susradar/susradar-server/internal/database"
	"github.com/susradar/susradar-server/internal/tokens"
	"github.com/susradar/susradar-server/internal/userdata"
	"github.com/susradar/susradar-server/internal/users"
	"github.com/susradar/susradar-server/pkg/logger"
	"github.com/susradar/susradar-server/pkg/metrics"
	"github.com/susradar/susradar-server/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if os.Getenv("SECRET_KEY") == "" {
		logger.Warnf("SECRET_KEY not set; using a random signing key, tokens will not survive a restart")
	}
	logger.Infof("config loaded: env=%s data_dir=%s token_ttl=%s mongo=%v redis=%v",
		cfg.Server.Environment, cfg.Storage.DataDir, cfg.Auth.TokenTTL, cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	r.Use(cors.New(corsConfig()))

	// Redis is optional; used by the distributed rate limiter when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// storage backends: Mongo when configured, JSON files otherwise
	ctx := context.Background()
	var userRepo users.Repository
	var dataRepo userdata.Repository
	if cfg.MongoDB.URI != "" {
		client, err := connectMongoWithRetry(ctx, cfg)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		defer func() { _ = client.Disconnect(ctx) }()
		db := client.Database(cfg.MongoDB.Database)
		userRepo = users.NewMongoRepository(db.Collection("users"))
		dataRepo = userdata.NewMongoRepository(db.Collection("documents"))
		logger.Infof("using MongoDB storage (%s)", cfg.MongoDB.Database)
	} else {
		fr, err := users.NewFileRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatalf("failed to open user registry: %v", err)
		}
		dr, err := userdata.NewFileRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatalf("failed to open data directory: %v", err)
		}
		userRepo, dataRepo = fr, dr
		logger.Infof("using file storage in %s", cfg.Storage.DataDir)
	}

	dataSvc := userdata.NewService(dataRepo)
	userSvc := users.NewService(userRepo, dataSvc, cfg.Auth.BcryptCost)
	tokenSvc := tokens.NewService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	// optional document snapshots to an S3-compatible bucket
	if snapCfg := backup.LoadConfig(); snapCfg.Endpoint != "" {
		snap, err := backup.NewStore(snapCfg)
		if err != nil {
			logger.Warnf("snapshot storage unavailable: %v", err)
		} else {
			dataSvc.EnableSnapshots(snap)
			logger.Infof("document snapshots enabled (bucket %s)", snapCfg.Bucket)
		}
	}

	handlers.RegisterHealth(r, startTime, map[string]handlers.ReadinessProbe{
		"storage": func() bool { return dataRepo != nil },
		"redis": func() bool {
			if cfg.Redis.Host == "" || !cfg.RateLimit.UseRedis {
				return true
			}
			return redisClient != nil
		},
	})
	handlers.RegisterSwagger(r)

	api := r.Group("/api")
	handlers.NewAuthHandler(userSvc, tokenSvc).Register(api)
	protected := api.Group("", middleware.Auth(tokenSvc))
	handlers.NewDataHandler(dataSvc).Register(protected)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting susradar server on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// corsConfig allows the browser extension plus local development origins.
func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	c.AllowOriginFunc = func(origin string) bool {
		return strings.HasPrefix(origin, "chrome-extension://") ||
			strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:")
	}
	return c
}

// connectMongoWithRetry retries with backoff to tolerate container startup
// races where Mongo is not accepting connections yet.
func connectMongoWithRetry(ctx context.Context, cfg *config.Config) (client *mongo.Client, err error) {
	const maxAttempts = 5
	backoff := time.Second
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			return client, nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, err
}
