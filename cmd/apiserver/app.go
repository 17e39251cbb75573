package main

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"grabsync/internal/app/config"
	"grabsync/internal/app/consumer"
	"grabsync/internal/app/domains/modules/mdsync"
	"grabsync/internal/app/domains/repo/rporder"
	"grabsync/internal/app/domains/repo/rpsynclog"
	"grabsync/internal/app/domains/services/svdashboard"
	"grabsync/internal/app/domains/services/svorder"
	"grabsync/internal/app/domains/services/svsync"
	"grabsync/internal/app/domains/services/svwebhook"
	"grabsync/internal/app/infra/mq/lmstfy"
	"grabsync/internal/app/infra/partner/ginee"
	"grabsync/internal/app/infra/persistence/mysql"
	"grabsync/internal/app/infra/persistence/redis"
	"grabsync/internal/app/pkg/logger"
	"grabsync/internal/app/server/handlers/dashboard"
	"grabsync/internal/app/server/handlers/order"
	"grabsync/internal/app/server/handlers/simulator"
	"grabsync/internal/app/server/handlers/webhook"
	"grabsync/internal/app/server/routers"
)

// App 应用聚合（HTTP 引擎 + 同步消费者）
type App struct {
	Engine       *gin.Engine
	SyncConsumer *consumer.SyncConsumer
	Logger       logger.Logger
}

// InitializeApp 组装全部依赖
// 返回的 cleanup 负责按依赖反序释放外部连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	db, err := mysql.Open(cfg.MySQL)
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql failed: %w", err)
	}

	pubsub, err := redis.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis failed: %w", err)
	}

	queue, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("init lmstfy client failed: %w", err)
	}

	// 仓储
	orderRepo := rporder.NewOrderRepository(db)
	logRepo := rpsynclog.NewSyncLogRepository(db)

	// 模块与服务
	syncModule := mdsync.NewSyncModule(queue, pubsub, cfg.Sync.QueueName)
	webhookService := svwebhook.NewWebhookService(orderRepo, syncModule, zapLogger)
	orderService := svorder.NewOrderService(orderRepo, logRepo, syncModule, cfg.Sync.WaitTimeout, zapLogger)
	dashboardService := svdashboard.NewDashboardService(orderRepo, logRepo)

	gineeClient := ginee.NewClient(
		cfg.Ginee.Endpoint,
		cfg.Ginee.MaxAttempts,
		cfg.Ginee.AttemptTimeout,
		cfg.Ginee.RetryDelay,
	)
	syncService := svsync.NewSyncService(orderRepo, logRepo, gineeClient, syncModule, zapLogger)

	syncConsumer := consumer.NewSyncConsumer(queue, syncService, consumer.Options{
		QueueName:    cfg.Sync.QueueName,
		Threads:      cfg.Sync.Threads,
		Timeout:      time.Duration(cfg.Sync.Timeout) * time.Second,
		TTR:          time.Duration(cfg.Sync.TTR) * time.Second,
		ErrorBackoff: cfg.Sync.ErrorBackoff,
	}, zapLogger)

	// HTTP 层
	var simulatorHandler *simulator.GineeSimulatorHandler
	if cfg.App.Env != "prod" {
		simulatorHandler = simulator.NewGineeSimulatorHandler()
	}

	engine := routers.SetupRoutes(
		webhook.NewWebhookHandler(webhookService),
		order.NewOrderHandler(orderService),
		dashboard.NewDashboardHandler(dashboardService),
		simulatorHandler,
	)

	cleanup := func() {
		pubsub.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		zapLogger.Sync()
	}

	return &App{
		Engine:       engine,
		SyncConsumer: syncConsumer,
		Logger:       zapLogger,
	}, cleanup, nil
}
