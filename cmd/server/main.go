package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/looplog/internal/config"
	"github.com/looplog/internal/db"
	"github.com/looplog/internal/handler"
	"github.com/looplog/internal/router"
)

func main() {
	// 本地开发时从 .env 读取配置，不存在则忽略
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	api := handler.NewAPI(db.DB, cfg)

	// 首次运行填充示例数据
	if err := api.SeedSampleData(); err != nil {
		log.Printf("failed to seed sample data: %v", err)
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
