package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looplog/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

type reviewPayload struct {
	ID            string               `json:"id"`
	WeekRange     string               `json:"weekRange"`
	StatsSnapshot *service.WeeklyStats `json:"statsSnapshot"`
	Reflection    struct {
		Achievements string `json:"achievements"`
		Problems     string `json:"problems"`
		NextWeekPlan string `json:"nextWeekPlan"`
	} `json:"reflection"`
	CreatedAt int64 `json:"createdAt"`
}

// ListReviews 返回全部周复盘，最新的在最前
func (a *API) ListReviews(c *gin.Context) {
	reviews := a.reviews.Reviews()

	items := make([]gin.H, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, serializeReview(review))
	}

	c.JSON(http.StatusOK, gin.H{"reviews": items})
}

// SaveReview 保存一次周复盘：ID 已存在时原位替换，否则前插
func (a *API) SaveReview(c *gin.Context) {
	var payload reviewPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	review := service.WeeklyReview{
		ID:        payload.ID,
		WeekRange: payload.WeekRange,
		CreatedAt: payload.CreatedAt,
	}
	review.Reflection = service.Reflection{
		Achievements: payload.Reflection.Achievements,
		Problems:     payload.Reflection.Problems,
		NextWeekPlan: payload.Reflection.NextWeekPlan,
	}

	if payload.StatsSnapshot != nil {
		review.StatsSnapshot = *payload.StatsSnapshot
	} else {
		// 未提交快照时以当前周数据冻结一份
		stats, _, week := a.logs.CurrentWeekStats()
		review.StatsSnapshot = stats
		if review.WeekRange == "" {
			review.WeekRange = week.Label
		}
	}

	saved, err := a.reviews.SaveReview(review)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存周复盘失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": serializeReview(saved)})
}

// GenerateInsight 聚合本周数据并调用 AI 起草复盘。
// AI 失败时返回固定降级文案，对调用方始终是 200。
func (a *API) GenerateInsight(c *gin.Context) {
	stats, logs, week := a.logs.CurrentWeekStats()

	insight := a.insights.GenerateWeeklyInsight(c.Request.Context(), stats, logs)

	c.JSON(http.StatusOK, gin.H{
		"insight": insight,
		"stats":   stats,
		"range":   serializeWeekRange(week),
	})
}

func serializeReview(review service.WeeklyReview) gin.H {
	return gin.H{
		"id":            review.ID,
		"weekRange":     review.WeekRange,
		"statsSnapshot": review.StatsSnapshot,
		"reflection": gin.H{
			"achievements": review.Reflection.Achievements,
			"problems":     review.Reflection.Problems,
			"nextWeekPlan": review.Reflection.NextWeekPlan,
		},
		"reflectionHtml": gin.H{
			"achievements": renderMarkdown(review.Reflection.Achievements),
			"problems":     renderMarkdown(review.Reflection.Problems),
			"nextWeekPlan": renderMarkdown(review.Reflection.NextWeekPlan),
		},
		"createdAt": review.CreatedAt,
	}
}

// renderMarkdown 把复盘文本渲染为净化后的 HTML
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return source
	}
	return sanitizer.Sanitize(buf.String())
}
