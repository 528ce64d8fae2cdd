package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/looplog/internal/db"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate 在日期不符合 YYYY-MM-DD 时返回
var ErrInvalidDate = errors.New("invalid log date")

// LogService 负责每日记录的读写与示例数据初始化。
// 读路径强制规范化：老版本保存的残缺记录在这里补齐默认值；
// 写路径整条覆盖，不做字段级合并。
type LogService struct {
	store BlobStore
}

// NewLogService 构造 LogService
func NewLogService(store BlobStore) *LogService {
	return &LogService{store: store}
}

// Logs 返回全部记录（日期 → 规范化记录）。
// 底层 JSON 无法解析时记录日志并返回空集合，绝不向上抛出。
func (s *LogService) Logs() map[string]DailyLog {
	logs := make(map[string]DailyLog)

	raw, ok, err := s.store.Get(db.KeyDailyLogs)
	if err != nil {
		log.Printf("load daily logs: %v", err)
		return logs
	}
	if !ok || raw == "" {
		return logs
	}

	var stored map[string]storedLog
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("parse daily logs, falling back to empty set: %v", err)
		return logs
	}

	for date, entry := range stored {
		logs[date] = normalizeStored(date, &entry)
	}

	return logs
}

// LogForDate 返回指定日期的规范化记录，不存在时返回默认记录。
func (s *LogService) LogForDate(date string) DailyLog {
	raw, ok, err := s.store.Get(db.KeyDailyLogs)
	if err != nil {
		log.Printf("load daily logs: %v", err)
		return DefaultLog(date)
	}
	if !ok || raw == "" {
		return DefaultLog(date)
	}

	var stored map[string]storedLog
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("parse daily logs, falling back to default: %v", err)
		return DefaultLog(date)
	}

	entry, exists := stored[date]
	if !exists {
		return DefaultLog(date)
	}
	return normalizeStored(date, &entry)
}

// SaveLog 以日期为键整条覆盖保存。负数指标收敛为默认值，
// 支出条目缺失 ID 时自动补一个。
func (s *LogService) SaveLog(entry DailyLog) error {
	if _, err := time.ParseInLocation(dateLayout, entry.Date, time.Local); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, entry.Date)
	}

	entry = sanitizeLog(entry)

	logs := make(map[string]json.RawMessage)
	raw, ok, err := s.store.Get(db.KeyDailyLogs)
	if err != nil {
		return fmt.Errorf("load daily logs: %w", err)
	}
	if ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &logs); err != nil {
			log.Printf("parse daily logs before save, starting from empty set: %v", err)
			logs = make(map[string]json.RawMessage)
		}
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode daily log: %w", err)
	}
	logs[entry.Date] = encoded

	payload, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("encode daily logs: %w", err)
	}

	if err := s.store.Set(db.KeyDailyLogs, string(payload)); err != nil {
		return fmt.Errorf("save daily logs: %w", err)
	}
	return nil
}

func sanitizeLog(entry DailyLog) DailyLog {
	if entry.Income < 0 {
		entry.Income = 0
	}
	if entry.Finance == nil {
		entry.Finance = []FinanceItem{}
	}
	for i := range entry.Finance {
		if entry.Finance[i].ID == "" {
			entry.Finance[i].ID = uuid.NewString()
		}
		entry.Finance[i].Category = NormalizeCategory(entry.Finance[i].Category)
	}

	if entry.Habits.SleepHours < 0 {
		entry.Habits.SleepHours = 7
	}
	if entry.Habits.ReadingMins < 0 {
		entry.Habits.ReadingMins = 0
	}
	if entry.Habits.HobbyMins < 0 {
		entry.Habits.HobbyMins = 0
	}
	if entry.Habits.ResearchWords < 0 {
		entry.Habits.ResearchWords = 0
	}
	if entry.Habits.ResearchCharts < 0 {
		entry.Habits.ResearchCharts = 0
	}
	if entry.Habits.SocialMedia.WechatCount < 0 {
		entry.Habits.SocialMedia.WechatCount = 0
	}
	if entry.Habits.SocialMedia.XhsCount < 0 {
		entry.Habits.SocialMedia.XhsCount = 0
	}

	entry.Mood = NormalizeMood(entry.Mood)
	return entry
}

// SeedIfEmpty 在存储为空时生成最近 7 天的确定性示例数据。
// 判断依据是根键是否存在，而非映射是否为空：用户清空全部记录后不再重新播种。
func (s *LogService) SeedIfEmpty(now time.Time) error {
	_, ok, err := s.store.Get(db.KeyDailyLogs)
	if err != nil {
		return fmt.Errorf("check daily logs: %w", err)
	}
	if ok {
		return nil
	}

	logs := make(map[string]DailyLog, 7)
	for i := 0; i < 7; i++ {
		date := now.AddDate(0, 0, -i).Format(dateLayout)

		entry := DefaultLog(date)
		if i == 2 {
			entry.Income = 500
		}
		if i%2 == 0 {
			entry.Finance = []FinanceItem{{
				ID:       uuid.NewString(),
				Amount:   float64(150 + i*10),
				Category: CategoryFood,
				Note:     "午餐",
			}}
		}
		entry.Habits.Exercise = i%3 != 0
		entry.Habits.SleepHours = 7 + float64(i%2)*0.5
		entry.Habits.ReadingMins = 30
		if i == 6 {
			entry.Habits.HobbyMins = 120
		}
		entry.Habits.ResearchWords = i * 150
		if i == 2 {
			entry.Habits.ResearchCharts = 1
		}
		if i == 1 {
			entry.Habits.SocialMedia.WechatCount = 1
		}
		if i == 3 {
			entry.Habits.SocialMedia.XhsCount = 1
		}
		if i%2 == 0 {
			entry.Mood = MoodGood
		} else {
			entry.Mood = MoodTired
		}
		if i == 0 {
			entry.Memo = "开始使用 Loop 助手。"
		} else {
			entry.Memo = "今天是平稳的一天。"
		}

		logs[date] = entry
	}

	payload, err := json.Marshal(logs)
	if err != nil {
		return fmt.Errorf("encode seed logs: %w", err)
	}
	if err := s.store.Set(db.KeyDailyLogs, string(payload)); err != nil {
		return fmt.Errorf("save seed logs: %w", err)
	}
	return nil
}
