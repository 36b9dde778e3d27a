package app

import (
	"backend/internal/app/board"
	"backend/internal/app/classifier"
	"backend/internal/app/enrichment"
	"backend/internal/app/health"
	"backend/internal/app/ingest"
	"backend/internal/app/message"
	"backend/internal/app/user"
	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/gateways/ingress"
	"backend/internal/providers/minio"
	"backend/internal/providers/redis"
	"backend/internal/router"
	"backend/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Application struct {
	Router   *router.Router
	DB       *gorm.DB
	EventBus *utils.EventBus
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.DedupTTL)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider, media mirroring disabled", zap.Error(err))
		minioProvider = nil
	}
	eventBus := utils.NewEventBus()

	userRepo := user.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)
	messageRepo := message.NewRepository(dbConn)

	userService := user.NewService(userRepo, logger)
	boardService := board.NewService(boardRepo, logger)
	messageService := message.NewService(messageRepo, redisProvider, logger)

	dedupGuard := ingest.NewRedisDedupGuard(redisProvider, cfg.DedupTTL, logger)
	inheritance := ingest.NewInheritanceResolver(messageService, cfg.InheritanceWindow)

	dispatcher := enrichment.NewDispatcher(cfg.EnrichmentConcurrency, cfg.EnrichmentTimeout, logger)
	previewFetcher := enrichment.NewPreviewFetcher(enrichment.PreviewFetcherOptions{
		UserAgent:    cfg.PreviewUserAgent,
		RateInterval: rate.Every(cfg.PreviewRateInterval),
		RateBurst:    cfg.PreviewRateBurst,
		MaxBodyBytes: cfg.PreviewMaxBodyBytes,
	})

	var mediaMirror enrichment.MediaMirror
	if minioProvider != nil {
		mediaMirror = minioProvider
	}
	enrichmentService := enrichment.NewService(
		dispatcher, previewFetcher, messageService, mediaMirror, eventBus, logger)

	var suggester ingest.Suggester
	if cfg.ClassifierAPIKey != "" {
		classifierClient := classifier.NewClient(
			cfg.ClassifierURL, cfg.ClassifierAPIKey, cfg.ClassifierModel, cfg.ClassifierTimeout)
		suggester = classifier.NewService(classifierClient, cfg.ClassifierMinConfidence, logger)
	} else {
		logger.Warn("Classifier API key not configured, AI categorization disabled")
	}

	ingestService := ingest.NewService(
		messageService,
		boardService,
		dedupGuard,
		inheritance,
		suggester,
		enrichmentService,
		eventBus,
		logger,
	)

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	userHandler := user.NewHandler(userService)
	boardHandler := board.NewHandler(boardService, userService)
	messageHandler := message.NewHandler(messageService)
	ingressHandler := ingress.NewHandler(ingestService, userService, logger)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterUserRoutes(userHandler)
	r.RegisterBoardRoutes(boardHandler)
	r.RegisterMessageRoutes(messageHandler)
	r.RegisterIngressRoutes(ingressHandler)

	return &Application{
		Router:   r,
		DB:       dbConn,
		EventBus: eventBus,
	}, nil
}
