package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/looplog/internal/db"
)

// Reflection 是周复盘的三段自由文本。
type Reflection struct {
	Achievements string `json:"achievements"`
	Problems     string `json:"problems"`
	NextWeekPlan string `json:"nextWeekPlan"`
}

// WeeklyReview 表示一次已归档的周复盘。
type WeeklyReview struct {
	ID            string      `json:"id"`
	WeekRange     string      `json:"weekRange"`
	StatsSnapshot WeeklyStats `json:"statsSnapshot"`
	Reflection    Reflection  `json:"reflection"`
	CreatedAt     int64       `json:"createdAt"` // 毫秒时间戳
}

// ReviewService 负责周复盘列表的读写。
// 列表最新在前；按 ID 保存具有幂等性：已存在则原位替换，否则前插。
type ReviewService struct {
	store BlobStore
}

// NewReviewService 构造 ReviewService
func NewReviewService(store BlobStore) *ReviewService {
	return &ReviewService{store: store}
}

// Reviews 返回全部周复盘，最新的在最前。
// 底层 JSON 无法解析时记录日志并返回空列表。
func (s *ReviewService) Reviews() []WeeklyReview {
	raw, ok, err := s.store.Get(db.KeyWeeklyReviews)
	if err != nil {
		log.Printf("load weekly reviews: %v", err)
		return []WeeklyReview{}
	}
	if !ok || raw == "" {
		return []WeeklyReview{}
	}

	var reviews []WeeklyReview
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		log.Printf("parse weekly reviews, falling back to empty list: %v", err)
		return []WeeklyReview{}
	}
	if reviews == nil {
		reviews = []WeeklyReview{}
	}
	return reviews
}

// SaveReview 保存一次复盘。ID / 周标签 / 创建时间缺失时自动补齐。
func (s *ReviewService) SaveReview(review WeeklyReview) (WeeklyReview, error) {
	if strings.TrimSpace(review.ID) == "" {
		review.ID = uuid.NewString()
	}
	if strings.TrimSpace(review.WeekRange) == "" {
		review.WeekRange = WeekRangeAt(time.Now()).Label
	}
	if review.CreatedAt == 0 {
		review.CreatedAt = time.Now().UnixMilli()
	}
	if review.StatsSnapshot.Moods == nil {
		review.StatsSnapshot.Moods = []Mood{}
	}

	reviews := s.Reviews()

	replaced := false
	for i := range reviews {
		if reviews[i].ID == review.ID {
			reviews[i] = review
			replaced = true
			break
		}
	}
	if !replaced {
		reviews = append([]WeeklyReview{review}, reviews...)
	}

	payload, err := json.Marshal(reviews)
	if err != nil {
		return WeeklyReview{}, fmt.Errorf("encode weekly reviews: %w", err)
	}
	if err := s.store.Set(db.KeyWeeklyReviews, string(payload)); err != nil {
		return WeeklyReview{}, fmt.Errorf("save weekly reviews: %w", err)
	}

	return review, nil
}
