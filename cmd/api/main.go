package main

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"wardrobeapi/config"
	"wardrobeapi/controllers"
	"wardrobeapi/dbhelper"
	"wardrobeapi/logger"
	"wardrobeapi/services"
	"wardrobeapi/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal(err)
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Env,
		Release:          "wardrobeapi@1.0.0",
		TracesSampleRate: 1.0,
	})
	if err != nil {
		logger.Log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	db, err := dbhelper.SetupDB(cfg)
	if err != nil {
		logger.Log.Fatal(err)
	}

	var analyzer services.ClothingAnalyzer
	var suggester services.OutfitSuggester
	if cfg.GoogleAPIKey != "" {
		llm := services.NewGoogleLLMProcessor(cfg.GoogleAPIKey, services.ParseLLMModelName(cfg.LLMModel))
		analyzer = llm
		suggester = llm
	} else {
		logger.Log.Warn("GOOGLE_API_KEY is not set, image analysis disabled")
	}

	var awsService services.AWSServiceProvider
	var urlCache services.URLCacheServiceProvider
	if cfg.StorageEnabled() {
		r2 := services.NewAWSService(cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret)
		if err := r2.InitPresignClient(context.Background()); err != nil {
			logger.Log.Fatalf("Failed to initialize AWS provider: %v", err)
		}
		cache, err := services.NewURLCacheService(r2, cfg.R2BucketName)
		if err != nil {
			logger.Log.Fatal("Failed to initialize URL cache service")
		}
		awsService = r2
		urlCache = cache
	}

	var queue controllers.TaskEnqueuer
	if cfg.AsyncBrokerAddress != "" && awsService != nil {
		client := tasks.NewClient(cfg.AsyncBrokerAddress)
		defer client.Close()
		queue = client
	}

	e := controllers.SetupServer(db, analyzer, suggester, awsService, urlCache, queue, controllers.ServerOptions{
		BucketName:     cfg.R2BucketName,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	})
	e.Debug = !cfg.IsProduction()
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", cfg.Port)))
}
