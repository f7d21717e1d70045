package main

import (
	"context"
	"log"
	"time"

	"photoline/config"
	"photoline/internal/handler"
	"photoline/internal/media"
	photoredis "photoline/internal/redis"
	"photoline/internal/repository"
	"photoline/internal/server"
	"photoline/internal/services"
	"photoline/internal/storage"
	"photoline/internal/twilio"
	"photoline/internal/websocket"
	"photoline/pkg/database"
	"photoline/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	logMode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		logMode = logger.ProductionMode
	}
	l := logger.New(logMode)
	logger.SetGlobalLogger(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.ApplyMigrations(ctx, db, "migrations", l); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := photoredis.NewClient(photoredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	twilioClient := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	validator := twilio.NewRequestValidator(cfg.TwilioAuthToken)
	fetcher := media.NewFetcher(time.Duration(cfg.MediaFetchTimeoutSec) * time.Second)

	var archiver services.ImageArchiver
	if cfg.S3Bucket != "" {
		s3Archiver, err := storage.NewArchiver(ctx, storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image archiver: %v", err)
		}
		archiver = s3Archiver
	}

	repo := repository.NewSubmissionRepository(db)
	eventPublisher := services.NewEventPublisher(photoredis.NewPublisher(redisClient), l)
	cleanup := services.NewCleanupScheduler(twilioClient, time.Duration(cfg.CleanupDelaySec)*time.Second, l)
	ingestService := services.NewIngestService(repo, fetcher, eventPublisher, cleanup, archiver, l)
	submissionService := services.NewSubmissionService(repo, eventPublisher)
	authService := services.NewAuthService(cfg)
	metadataCache := photoredis.NewMetadataCache(redisClient, photoredis.DefaultMetadataTTL)
	metadataService := services.NewMetadataService(twilioClient, metadataCache, l)

	hub := websocket.NewHub()
	bridge := websocket.NewRedisBridge(photoredis.NewSubscriber(redisClient), hub)

	go hub.Run(ctx)
	go cleanup.Run(ctx)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			l.Errorf("redis bridge stopped: %s", err)
		}
	}()

	srv := server.New(cfg, l, db)
	srv.SetupRoutes(&server.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Twilio:     handler.NewTwilioHandler(validator, ingestService, l),
		Submission: handler.NewSubmissionHandler(submissionService, cfg.ImageCacheSec),
		Metadata:   handler.NewMetadataHandler(metadataService),
		Feed:       websocket.NewHandler(hub),
	}, authService)

	if err := srv.Start(); err != nil {
		l.Errorf("server shutdown: %s", err)
	}
}
