package main

// @title           GrabSync API
// @version         1.0
// @description     Grab 订单接入与 Ginee 同步服务，提供 webhook 接收、手动重同步与运营看板查询

// @host      localhost:3000
// @BasePath  /

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"grabsync/internal/app/config"
)

func main() {
	// 1. 加载环境变量文件（不存在则忽略，线上直接注入环境变量）
	_ = godotenv.Load()

	// 2. 加载配置
	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 3. 初始化应用（包含 HTTP Server 和 Consumer）
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	// 4. 创建 HTTP Server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: app.Engine,
	}

	// 5. 启动同步消费者（后台 goroutine）
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	log.Printf("Starting sync consumer...")
	app.SyncConsumer.Start(consumerCtx)

	// 6. 启动 HTTP Server（后台 goroutine）
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 7. 优雅停机处理
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Println("Received shutdown signal, gracefully shutting down...")
		gracefulShutdown(server, app, cancelConsumer)
	case err := <-serverErrChan:
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Println("Application stopped")
}

// gracefulShutdown 优雅停机：先停 HTTP 入口，再等消费者把在途任务跑完
func gracefulShutdown(server *http.Server, app *App, cancelConsumer context.CancelFunc) {
	log.Println("Stopping HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}

	// 先让消费者按关闭标记自然退出（在途任务跑完），再取消 Context
	log.Println("Stopping sync consumer...")
	app.SyncConsumer.Stop(context.Background())
	cancelConsumer()

	log.Println("All services stopped gracefully")
}
