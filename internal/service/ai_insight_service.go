package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"
	maxInsightLogRunes   = 1024
)

// ErrGeminiAPIKeyMissing 表示未配置 Gemini API Key。
var ErrGeminiAPIKeyMissing = errors.New("gemini api key is required")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// InsightResult 是 AI 起草的周复盘三段内容。
type InsightResult struct {
	Achievements string `json:"achievements"`
	Problems     string `json:"problems"`
	Plan         string `json:"plan"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AIInsightService 调用 Gemini 接口，把周统计和闪念笔记整理成结构化复盘草稿。
type AIInsightService struct {
	http    httpDoer
	apiKey  string
	baseURL string
	model   string
}

// NewAIInsightService 构造默认的 AIInsightService。
func NewAIInsightService(apiKey string) *AIInsightService {
	return &AIInsightService{
		http:    &http.Client{Timeout: 180 * time.Second},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultGeminiBaseURL,
		model:   defaultGeminiModel,
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIInsightService) SetHTTPClient(client httpDoer) {
	if client == nil {
		s.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	s.http = client
}

// SetBaseURL 覆盖默认的 Gemini API 地址。
func (s *AIInsightService) SetBaseURL(base string) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return
	}
	s.baseURL = base
}

// SetModel 指定生成复盘所使用的模型名称。
func (s *AIInsightService) SetModel(model string) {
	model = strings.TrimSpace(model)
	if model == "" {
		return
	}
	s.model = model
}

// GenerateWeeklyInsight 基于周统计生成复盘草稿。
// 任何失败（网络、非 2xx、响应缺失、JSON 解析）都在此处兜底，
// 返回固定的降级文案，绝不向调用方抛错。
func (s *AIInsightService) GenerateWeeklyInsight(ctx context.Context, stats WeeklyStats, logs []DailyLog) InsightResult {
	result, err := s.call(ctx, stats, logs)
	if err != nil {
		log.Printf("generate weekly insight: %v", err)
		return insightFallback()
	}
	return result
}

func (s *AIInsightService) call(ctx context.Context, stats WeeklyStats, logs []DailyLog) (InsightResult, error) {
	if s.apiKey == "" {
		return InsightResult{}, ErrGeminiAPIKeyMissing
	}

	prompt := buildInsightPrompt(stats, logs)
	logInsightExchange("prompt", prompt)

	payload := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{ResponseMIMEType: "application/json"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return InsightResult{}, fmt.Errorf("构造请求失败: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return InsightResult{}, fmt.Errorf("创建 Gemini 请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", s.apiKey)

	client := s.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return InsightResult{}, fmt.Errorf("请求 Gemini 接口失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return InsightResult{}, fmt.Errorf("读取 Gemini 响应失败: %w", err)
	}

	var completion geminiResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return InsightResult{}, fmt.Errorf("解析 Gemini 响应失败: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = resp.Status
		}
		return InsightResult{}, fmt.Errorf("Gemini 接口返回错误：%s", errMsg)
	}

	if len(completion.Candidates) == 0 || len(completion.Candidates[0].Content.Parts) == 0 {
		return InsightResult{}, fmt.Errorf("Gemini 接口未返回结果")
	}

	text := strings.TrimSpace(completion.Candidates[0].Content.Parts[0].Text)
	logInsightExchange("response", text)
	if text == "" {
		return InsightResult{}, fmt.Errorf("Gemini 响应内容为空")
	}

	var result InsightResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return InsightResult{}, fmt.Errorf("解析复盘 JSON 失败: %w", err)
	}

	return result, nil
}

func buildInsightPrompt(stats WeeklyStats, logs []DailyLog) string {
	moods := make([]string, 0, len(stats.Moods))
	for _, mood := range stats.Moods {
		moods = append(moods, string(mood))
	}

	var builder strings.Builder
	builder.WriteString("你是一位极度自律、理性但富有同理心的个人成长教练。\n\n")
	builder.WriteString("这是我过去一周的数据：\n")
	builder.WriteString(fmt.Sprintf("- 财务：支出 ¥%g，收入 ¥%g\n", stats.TotalSpend, stats.TotalIncome))
	builder.WriteString(fmt.Sprintf("- 健康：运动 %d 天，平均睡眠 %g 小时\n", stats.ExerciseDays, stats.AvgSleep))
	builder.WriteString(fmt.Sprintf("- 输入：阅读 %d 分钟，兴趣爱好投入 %d 分钟\n", stats.TotalReadingMins, stats.TotalHobbyMins))
	builder.WriteString(fmt.Sprintf("- 输出（科研）：写了 %d 字，制作图表 %d 张\n", stats.TotalWords, stats.TotalCharts))
	builder.WriteString(fmt.Sprintf("- 输出（自媒体）：合计发布/编辑 %d 篇（公众号/小红书）\n", stats.TotalSocialMedia))
	builder.WriteString(fmt.Sprintf("- 情绪记录：%s\n\n", strings.Join(moods, ", ")))

	builder.WriteString("这是我每天的闪念笔记：\n")
	for _, entry := range logs {
		builder.WriteString(fmt.Sprintf("- %s: %s (心情: %s)\n", entry.Date, entry.Memo, entry.Mood))
	}

	builder.WriteString("\n请基于以上客观数据，用中文为我起草一份结构化的周复盘。\n")
	builder.WriteString("风格要简洁、专业、不仅指出问题，更要给出可执行的建议。\n\n")
	builder.WriteString("请严格按照以下 JSON 格式返回：\n")
	builder.WriteString("{\n")
	builder.WriteString("    \"achievements\": \"总结本周的亮点、坚持下来的习惯和主要产出。\",\n")
	builder.WriteString("    \"problems\": \"敏锐地指出懈怠、焦虑或效率低下的模式。\",\n")
	builder.WriteString("    \"plan\": \"基于本周表现，给出下周 3 个具体的、数字化的改进目标。\"\n")
	builder.WriteString("}\n")

	return builder.String()
}

// insightFallback 是网络或服务异常时的固定降级文案。
func insightFallback() InsightResult {
	return InsightResult{
		Achievements: "无法连接 AI 生成报告。但你自己记录的数据已经很棒了！",
		Problems:     "请检查网络连接或 API Key。",
		Plan:         "保持当前的记录习惯，手动制定计划。",
	}
}

// logInsightExchange 输出 AI 请求与响应的关键信息，方便排查模型行为。
func logInsightExchange(phase, content string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[AI INSIGHT] %s: <empty>", phase)
		return
	}

	runeCount := utf8.RuneCountInString(trimmed)
	snippet := trimmed
	if runeCount > maxInsightLogRunes {
		snippet = string([]rune(trimmed)[:maxInsightLogRunes]) + "…(truncated)"
	}
	log.Printf("[AI INSIGHT] %s (runes=%d): %s", phase, runeCount, snippet)
}
