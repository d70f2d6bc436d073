// Package wire 提供依赖装配
package wire

import (
	"fmt"
	"os"

	"bookforge-api/internal/application/bulk"
	"bookforge-api/internal/application/content"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/marketing"
	"bookforge-api/internal/application/project"
	"bookforge-api/internal/application/style"
	"bookforge-api/internal/config"
	"bookforge-api/internal/infrastructure/llm"
	"bookforge-api/internal/infrastructure/messaging"
	"bookforge-api/internal/infrastructure/persistence/postgres"
	"bookforge-api/internal/infrastructure/persistence/redis"
	"bookforge-api/internal/interfaces/http/handler"
	"bookforge-api/internal/interfaces/http/router"
)

// DataLayer 数据层依赖容器
type DataLayer struct {
	PgClient    *postgres.Client
	TxManager   *postgres.TxManager
	ProjectRepo *postgres.ProjectRepository
	StyleRepo   *postgres.StyleProfileRepository
	OutlineRepo *postgres.OutlineRepository
	ChapterRepo *postgres.ChapterRepository
	MktRepo     *postgres.MarketingRepository
	RunRepo     *postgres.RunRepository

	RedisClient *redis.Client
	Cache       *redis.Cache
	RateLimiter *redis.RateLimiter

	Producer *messaging.Producer
}

// Close 释放数据层持有的连接
func (d *DataLayer) Close() {
	if d.RedisClient != nil {
		_ = d.RedisClient.Close()
	}
	if d.PgClient != nil {
		_ = d.PgClient.Close()
	}
}

// InitializeDataLayer 初始化数据层
func InitializeDataLayer(cfg *config.Config) (*DataLayer, error) {
	pgClient, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	redisClient, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		pgClient.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	txManager := postgres.NewTxManager(pgClient)

	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}

	return &DataLayer{
		PgClient:    pgClient,
		TxManager:   txManager,
		ProjectRepo: postgres.NewProjectRepository(pgClient),
		StyleRepo:   postgres.NewStyleProfileRepository(pgClient),
		OutlineRepo: postgres.NewOutlineRepository(pgClient, txManager),
		ChapterRepo: postgres.NewChapterRepository(pgClient),
		MktRepo:     postgres.NewMarketingRepository(pgClient),
		RunRepo:     postgres.NewRunRepository(pgClient, txManager),
		RedisClient: redisClient,
		Cache:       redis.NewCache(redisClient),
		RateLimiter: redis.NewRateLimiter(redisClient),
		Producer:    messaging.NewProducer(redisClient.Redis(), int64(maxLen)),
	}, nil
}

// GenerationLayer 生成服务依赖容器
type GenerationLayer struct {
	Invoker   generation.Invoker
	Engine    *generation.Engine
	Assembler *generation.Assembler
	Service   *generation.Service
}

// InitializeGeneration 初始化生成服务
func InitializeGeneration(cfg *config.Config, data *DataLayer) (*GenerationLayer, error) {
	providerName := cfg.LLM.DefaultProvider
	providerCfg, ok := cfg.LLM.Providers[providerName]
	if !ok {
		return nil, fmt.Errorf("llm provider %q not configured", providerName)
	}

	invoker, err := llm.NewOpenAIClient(providerName, providerCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init llm client: %w", err)
	}

	engine := generation.NewEngine(invoker, generation.NewRegistry(), cfg.Generation)
	assembler := generation.NewAssembler(
		data.StyleRepo, data.OutlineRepo, data.ChapterRepo, data.MktRepo,
		cfg.Generation.ContextBudgetChars, cfg.Generation.OutlineChapters,
	)
	svc := generation.NewService(
		data.ProjectRepo, data.OutlineRepo, data.ChapterRepo, data.MktRepo,
		assembler, engine,
	)

	return &GenerationLayer{
		Invoker:   invoker,
		Engine:    engine,
		Assembler: assembler,
		Service:   svc,
	}, nil
}

// InitializeWorkerGeneration 初始化 worker 侧生成服务
// 执行器逐章串行消费且没有交互调用方，并发满时排队而非快速失败
func InitializeWorkerGeneration(cfg *config.Config, data *DataLayer) (*GenerationLayer, error) {
	return InitializeGeneration(workerGenerationConfig(cfg), data)
}

// workerGenerationConfig 复制配置并将生成队列策略固定为排队
func workerGenerationConfig(cfg *config.Config) *config.Config {
	workerCfg := *cfg
	workerCfg.Generation.QueuePolicy = generation.QueuePolicyWait
	return &workerCfg
}

// InitializeRouter 装配 HTTP 路由器
func InitializeRouter(cfg *config.Config, data *DataLayer, gen *GenerationLayer) *router.Router {
	cacheTTL := cfg.Cache.TTL

	projectSvc := project.NewService(data.ProjectRepo, data.Cache, cacheTTL)
	styleSvc := style.NewService(data.ProjectRepo, data.StyleRepo, style.NewHeuristicScorer(), data.Cache, cacheTTL)
	contentSvc := content.NewService(data.ProjectRepo, data.OutlineRepo, data.ChapterRepo)
	mktSvc := marketing.NewService(data.ProjectRepo, data.MktRepo)
	bulkSvc := bulk.NewService(
		data.ProjectRepo, data.OutlineRepo, data.ChapterRepo, data.RunRepo,
		data.Producer, cfg.Bulk.RunBudget,
	)

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(data.PgClient, data.RedisClient),
		Project:   handler.NewProjectHandler(projectSvc),
		Style:     handler.NewStyleHandler(styleSvc),
		Outline:   handler.NewOutlineHandler(gen.Service, contentSvc),
		Chapter:   handler.NewChapterHandler(gen.Service, contentSvc),
		Marketing: handler.NewMarketingHandler(gen.Service, mktSvc),
		Run:       handler.NewRunHandler(bulkSvc),
	}

	return router.New(cfg, handlers, data.RateLimiter)
}

// InitializeBulkWorker 装配批量运行消费者
func InitializeBulkWorker(cfg *config.Config, data *DataLayer, gen *GenerationLayer) *messaging.Consumer {
	executor := bulk.NewExecutor(data.RunRepo, data.ChapterRepo, gen.Service)

	consumer := messaging.NewConsumer(data.RedisClient.Redis(), messaging.ConsumerConfig{
		Stream:        messaging.StreamBulkGen,
		Group:         messaging.ConsumerGroupBulkWorker,
		ConsumerName:  consumerName(),
		BlockTimeout:  cfg.Messaging.RedisStream.BlockTimeout,
		ClaimInterval: cfg.Messaging.RedisStream.ClaimInterval,
		RetryLimit:    cfg.Messaging.RedisStream.RetryLimit,
		Backoff: messaging.BackoffConfig{
			Initial:    cfg.Messaging.RedisStream.RetryBackoff.Initial,
			Max:        cfg.Messaging.RedisStream.RetryBackoff.Max,
			Multiplier: cfg.Messaging.RedisStream.RetryBackoff.Multiplier,
		},
	})
	consumer.RegisterHandler(messaging.MsgTypeBulkRun, executor.HandleMessage)

	return consumer
}

func consumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
