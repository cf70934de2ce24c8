package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"

	"wardrobeapi/config"
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
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Env,
		Release:     "wardrobeworker@1.0.0",
	})
	if err != nil {
		logger.Log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)
	if cfg.AsyncBrokerAddress == "" {
		logger.Log.Fatal("[Queue] ASYNC_BROKER_ADDRESS is not set")
	}
	if !cfg.StorageEnabled() {
		logger.Log.Fatal("[Queue] R2 storage is not configured, nothing to process")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.AsyncBrokerAddress},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			tasks.QueueGenerate: 7,
		}},
	)
	awsService := services.NewAWSService(cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2AccessKeySecret)
	if err := awsService.InitPresignClient(context.Background()); err != nil {
		logger.Log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}
	db, err := dbhelper.SetupDB(cfg)
	if err != nil {
		logger.Log.Fatal(err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeProcessClothing, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleProcessClothingTask(ctx, t, db, awsService, cfg.R2BucketName)
	})

	if err := srv.Run(mux); err != nil {
		logger.Log.Fatal(err)
	}
}
