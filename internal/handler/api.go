package handler

import (
	"time"

	"github.com/looplog/internal/config"
	"github.com/looplog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	logs     *service.LogService
	reviews  *service.ReviewService
	insights *service.AIInsightService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	store := service.NewBlobStore(gdb)

	insights := service.NewAIInsightService(cfg.GeminiAPIKey)
	insights.SetBaseURL(cfg.GeminiBaseURL)
	insights.SetModel(cfg.GeminiModel)

	return &API{
		db:       gdb,
		logs:     service.NewLogService(store),
		reviews:  service.NewReviewService(store),
		insights: insights,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// SeedSampleData 在启动时填充示例数据，存储里已有根键时为空操作。
func (a *API) SeedSampleData() error {
	return a.logs.SeedIfEmpty(time.Now())
}
