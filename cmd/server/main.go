package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/grade-relay-backend/api"
	"github.com/SlpAus/grade-relay-backend/internal/ingest"
	"github.com/SlpAus/grade-relay-backend/internal/platform/config"
	"github.com/SlpAus/grade-relay-backend/internal/platform/database"
	"github.com/SlpAus/grade-relay-backend/internal/platform/health"
	"github.com/SlpAus/grade-relay-backend/internal/platform/links"
	"github.com/SlpAus/grade-relay-backend/internal/platform/mailer"
	"github.com/SlpAus/grade-relay-backend/internal/platform/shutdown"
	"github.com/SlpAus/grade-relay-backend/internal/platform/startup"
	"github.com/SlpAus/grade-relay-backend/internal/platform/storage"
	"github.com/SlpAus/grade-relay-backend/pkg/lifecycle"
	"github.com/SlpAus/grade-relay-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)
	storage.InitStore(cfg.Storage, cfg.Server.BaseURL)
	mailer.InitMailer(cfg.Mail)
	links.InitRegistry()

	// 阻塞式获取初始Run ID，之后的健康检查用它识别Redis重启
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 阻塞式执行一次启动后健康检查
	fmt.Println("正在执行启动后健康检查...")
	health.PerformCheck()

	// 创建生命周期管理器并启动后台服务
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := gracefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	health.StartRedisHealthCheck(healthHandle)

	janitorHandle, err := gracefulMgr.NewServiceHandle("staging-janitor")
	if err != nil {
		panic(err)
	}
	ingest.StartStagingJanitor(janitorHandle)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	allowedOrigins := cfg.Server.Cors.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号，并编排优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
