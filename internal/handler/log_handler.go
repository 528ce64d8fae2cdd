package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/looplog/internal/service"
)

const dateFormat = "2006-01-02"

type financeItemPayload struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note"`
}

type socialMediaPayload struct {
	WechatCount int `json:"wechatCount"`
	XhsCount    int `json:"xhsCount"`
}

type habitsPayload struct {
	Exercise       bool               `json:"exercise"`
	SleepHours     float64            `json:"sleepHours"`
	ReadingMins    int                `json:"readingMins"`
	HobbyMins      int                `json:"hobbyMins"`
	ResearchWords  int                `json:"researchWords"`
	ResearchCharts int                `json:"researchCharts"`
	SocialMedia    socialMediaPayload `json:"socialMedia"`
}

type dailyLogPayload struct {
	Income  float64              `json:"income"`
	Finance []financeItemPayload `json:"finance"`
	Habits  habitsPayload        `json:"habits"`
	Mood    string               `json:"mood"`
	Memo    string               `json:"memo"`
}

// ListLogs 返回全部每日记录（读取时已补齐默认值）
func (a *API) ListLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": a.logs.Logs()})
}

// GetLog 返回指定日期的记录，未记录过的日期返回默认记录
func (a *API) GetLog(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": a.logs.LogForDate(date)})
}

// SaveLog 整条覆盖保存指定日期的记录
func (a *API) SaveLog(c *gin.Context) {
	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	payload, ok := a.parseLogPayload(c)
	if !ok {
		return
	}

	entry := service.DailyLog{
		Date:   date,
		Income: payload.Income,
		Habits: service.Habits{
			Exercise:       payload.Habits.Exercise,
			SleepHours:     payload.Habits.SleepHours,
			ReadingMins:    payload.Habits.ReadingMins,
			HobbyMins:      payload.Habits.HobbyMins,
			ResearchWords:  payload.Habits.ResearchWords,
			ResearchCharts: payload.Habits.ResearchCharts,
			SocialMedia: service.SocialMedia{
				WechatCount: payload.Habits.SocialMedia.WechatCount,
				XhsCount:    payload.Habits.SocialMedia.XhsCount,
			},
		},
		Mood: service.NormalizeMood(service.Mood(payload.Mood)),
		Memo: payload.Memo,
	}

	entry.Finance = make([]service.FinanceItem, 0, len(payload.Finance))
	for _, item := range payload.Finance {
		entry.Finance = append(entry.Finance, service.FinanceItem{
			ID:       item.ID,
			Amount:   item.Amount,
			Category: service.NormalizeCategory(service.FinanceCategory(item.Category)),
			Note:     item.Note,
		})
	}

	if err := a.logs.SaveLog(entry); err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			respondError(c, http.StatusBadRequest, "无效的记录日期")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"log": a.logs.LogForDate(date)})
}

func (a *API) parseLogPayload(c *gin.Context) (dailyLogPayload, bool) {
	var payload dailyLogPayload

	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return dailyLogPayload{}, false
		}
		return payload, true
	}

	// 表单路径：数字字段非法时收敛为 0，不视为错误
	payload.Income = formFloat(c.PostForm("income"))
	payload.Habits.Exercise = c.PostForm("exercise") == "true" || c.PostForm("exercise") == "1"
	payload.Habits.SleepHours = formFloat(c.PostForm("sleep_hours"))
	payload.Habits.ReadingMins = formInt(c.PostForm("reading_mins"))
	payload.Habits.HobbyMins = formInt(c.PostForm("hobby_mins"))
	payload.Habits.ResearchWords = formInt(c.PostForm("research_words"))
	payload.Habits.ResearchCharts = formInt(c.PostForm("research_charts"))
	payload.Habits.SocialMedia.WechatCount = formInt(c.PostForm("wechat_count"))
	payload.Habits.SocialMedia.XhsCount = formInt(c.PostForm("xhs_count"))
	payload.Mood = c.PostForm("mood")
	payload.Memo = c.PostForm("memo")

	return payload, true
}

func parseDateParam(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Param("date"))
	if _, err := time.ParseInLocation(dateFormat, raw, time.Local); err != nil {
		respondError(c, http.StatusBadRequest, "无效的记录日期")
		return "", false
	}
	return raw, true
}
