package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func geminiJSONResponse(t *testing.T, result InsightResult) string {
	t.Helper()
	inner, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("failed to encode insight: %v", err)
	}
	quoted, err := json.Marshal(string(inner))
	if err != nil {
		t.Fatalf("failed to quote insight: %v", err)
	}
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%s}]}}]}`, quoted)
}

func sampleWeek() (WeeklyStats, []DailyLog) {
	entry := DefaultLog("2025-08-20")
	entry.Memo = "赶实验"
	entry.Mood = MoodAnxious

	stats := WeeklyStats{
		TotalSpend:   160,
		TotalIncome:  500,
		ExerciseDays: 3,
		AvgSleep:     7.2,
		Moods:        []Mood{MoodAnxious},
	}
	return stats, []DailyLog{entry}
}

func TestGenerateWeeklyInsight(t *testing.T) {
	svc := NewAIInsightService("test-key")
	svc.SetBaseURL("https://gemini.test/v1beta")

	want := InsightResult{
		Achievements: "坚持运动 3 天",
		Problems:     "睡眠偏少",
		Plan:         "每天 23:30 前就寝",
	}

	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("unexpected api key header %q", got)
		}

		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.GenerationConfig.ResponseMIMEType != "application/json" {
			t.Fatalf("expected json response mime type, got %q", payload.GenerationConfig.ResponseMIMEType)
		}
		prompt := payload.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, "运动 3 天") {
			t.Fatalf("expected stats embedded in prompt, got %q", prompt)
		}
		if !strings.Contains(prompt, "2025-08-20: 赶实验") {
			t.Fatalf("expected memo embedded in prompt, got %q", prompt)
		}

		body := geminiJSONResponse(t, want)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	}})

	stats, logs := sampleWeek()
	got := svc.GenerateWeeklyInsight(context.Background(), stats, logs)

	if got != want {
		t.Fatalf("unexpected insight:\n got %#v\nwant %#v", got, want)
	}
}

func TestGenerateWeeklyInsightFallbackOnNetworkError(t *testing.T) {
	svc := NewAIInsightService("test-key")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}})

	stats, logs := sampleWeek()
	got := svc.GenerateWeeklyInsight(context.Background(), stats, logs)

	if got != insightFallback() {
		t.Fatalf("expected fallback insight, got %#v", got)
	}
}

func TestGenerateWeeklyInsightFallbackWithoutKey(t *testing.T) {
	svc := NewAIInsightService("")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(*http.Request) (*http.Response, error) {
		t.Fatal("expected no request without api key")
		return nil, nil
	}})

	stats, logs := sampleWeek()
	got := svc.GenerateWeeklyInsight(context.Background(), stats, logs)

	if got != insightFallback() {
		t.Fatalf("expected fallback insight, got %#v", got)
	}
}

func TestGenerateWeeklyInsightFallbackOnBadStatus(t *testing.T) {
	svc := NewAIInsightService("test-key")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(*http.Request) (*http.Response, error) {
		body := `{"error":{"message":"API key not valid"}}`
		return &http.Response{
			StatusCode: http.StatusBadRequest,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	}})

	stats, logs := sampleWeek()
	got := svc.GenerateWeeklyInsight(context.Background(), stats, logs)

	if got != insightFallback() {
		t.Fatalf("expected fallback insight, got %#v", got)
	}
}

func TestGenerateWeeklyInsightFallbackOnMalformedReply(t *testing.T) {
	svc := NewAIInsightService("test-key")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(*http.Request) (*http.Response, error) {
		body := `{"candidates":[{"content":{"parts":[{"text":"这不是 JSON"}]}}]}`
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		}, nil
	}})

	stats, logs := sampleWeek()
	got := svc.GenerateWeeklyInsight(context.Background(), stats, logs)

	if got != insightFallback() {
		t.Fatalf("expected fallback insight, got %#v", got)
	}
}
