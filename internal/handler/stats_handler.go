package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looplog/internal/service"
)

// GetWeeklyStats 返回本周（周一到周日）的聚合统计，每次请求重新计算
func (a *API) GetWeeklyStats(c *gin.Context) {
	stats, logs, week := a.logs.CurrentWeekStats()

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"logs":  logs,
		"range": serializeWeekRange(week),
	})
}

func serializeWeekRange(week service.WeekRange) gin.H {
	return gin.H{
		"start": week.Start.Format(dateFormat),
		"end":   week.End.Format(dateFormat),
		"label": week.Label,
	}
}
