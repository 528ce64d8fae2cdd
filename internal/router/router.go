package router

import (
	"github.com/gin-gonic/gin"
	"github.com/looplog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/logs", api.ListLogs)
		apiGroup.GET("/logs/:date", api.GetLog)
		apiGroup.PUT("/logs/:date", api.SaveLog)
		apiGroup.POST("/logs/:date", api.SaveLog)

		apiGroup.GET("/stats/weekly", api.GetWeeklyStats)

		apiGroup.GET("/reviews", api.ListReviews)
		apiGroup.POST("/reviews", api.SaveReview)
		apiGroup.POST("/reviews/insight", api.GenerateInsight)
	}

	return r
}
