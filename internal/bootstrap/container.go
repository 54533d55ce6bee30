package bootstrap

import (
	"context"
	"log"
	"time"

	"legal-insight-be/internal/config"
	"legal-insight-be/internal/controller"
	"legal-insight-be/internal/pkg/logger"
	"legal-insight-be/internal/pkg/serverutils"
	"legal-insight-be/internal/repository/memory"
	"legal-insight-be/internal/repository/unitofwork"
	"legal-insight-be/internal/service"
	"legal-insight-be/pkg/lock"

	pktNats "legal-insight-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const ingestDurableName = "analysis-ingest-trigger"

type Container struct {
	// Controllers
	AnalysisController controller.IAnalysisController
	JwtMiddleware      fiber.Handler

	// Services
	AnalysisService    service.IAnalysisService
	AnalysisJobService service.IAnalysisJobService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	cfg     *config.Config
	pubSub  *gochannel.GoChannel
	natsPub *pktNats.Publisher
	natsSub *pktNats.Subscriber
	rdb     *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. In-process job queue
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 16},
		watermillLogger,
	)

	// 3. NATS (optional, runs still work without the bus)
	var eventPublisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 4. Redis lock, falling back to a process-local one
	rdb, locker := newLocker(cfg.App.RedisURL)

	// 5. Services
	analysisCache := memory.NewAnalysisCache(cfg.Analysis.CacheTTL)
	analysisService := service.NewAnalysisService(uowFactory, analysisCache, sysLogger, cfg.Analysis)
	publisherService := service.NewPublisherService(cfg.Analysis.JobTopic, pubSub)
	jobService := service.NewAnalysisJobService(
		analysisService,
		publisherService,
		eventPublisher,
		locker,
		cfg.Analysis.LockTTL,
		sysLogger,
	)
	consumerService := service.NewConsumerService(pubSub, cfg.Analysis.JobTopic, jobService, sysLogger)

	return &Container{
		AnalysisController: controller.NewAnalysisController(analysisService, jobService),
		JwtMiddleware:      serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret),
		AnalysisService:    analysisService,
		AnalysisJobService: jobService,
		ConsumerService:    consumerService,
		Logger:             sysLogger,
		cfg:                cfg,
		pubSub:             pubSub,
		natsPub:            natsPub,
		natsSub:            natsSub,
		rdb:                rdb,
	}
}

func newLocker(redisURL string) (*redis.Client, lock.Locker) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: redisURL,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Analysis runs are serialized per process only", err)
		_ = rdb.Close()
		return nil, lock.NewLocalLocker()
	}
	return rdb, lock.NewRedisLocker(rdb, "legal-insight:lock:")
}

// Start launches the job consumer and, when NATS is up, the ingest trigger.
func (c *Container) Start(ctx context.Context) error {
	if err := c.ConsumerService.Consume(ctx); err != nil {
		return err
	}

	if c.natsSub != nil {
		if err := c.natsSub.Subscribe(ctx, c.cfg.Analysis.IngestSubject, ingestDurableName, c.AnalysisJobService.HandleCorpusIngested); err != nil {
			c.Logger.Warn("BOOTSTRAP", "Ingest trigger disabled", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func (c *Container) Close() {
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.pubSub.Close(); err != nil {
		log.Printf("[WARN] Failed to close job queue: %v", err)
	}
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
