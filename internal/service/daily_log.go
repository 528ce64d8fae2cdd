package service

// Mood 表示当日情绪，取值为固定枚举。
type Mood string

const (
	MoodGreat   Mood = "Great"
	MoodGood    Mood = "Good"
	MoodNeutral Mood = "Neutral"
	MoodAnxious Mood = "Anxious"
	MoodTired   Mood = "Tired"
)

// MoodLabels 为情绪枚举提供中文展示文案。
var MoodLabels = map[Mood]string{
	MoodGreat:   "状态极佳",
	MoodGood:    "不错",
	MoodNeutral: "平淡",
	MoodAnxious: "焦虑",
	MoodTired:   "疲惫",
}

// NormalizeMood 将任意输入收敛到合法枚举，未知值回退为平淡。
func NormalizeMood(m Mood) Mood {
	switch m {
	case MoodGreat, MoodGood, MoodNeutral, MoodAnxious, MoodTired:
		return m
	default:
		return MoodNeutral
	}
}

// FinanceCategory 表示支出分类，取值为固定枚举。
type FinanceCategory string

const (
	CategoryFood      FinanceCategory = "餐饮"
	CategoryShopping  FinanceCategory = "购物"
	CategoryTransport FinanceCategory = "交通"
	CategoryFixed     FinanceCategory = "固定"
	CategoryOther     FinanceCategory = "其他"
)

// NormalizeCategory 将未知分类归入"其他"。
func NormalizeCategory(c FinanceCategory) FinanceCategory {
	switch c {
	case CategoryFood, CategoryShopping, CategoryTransport, CategoryFixed, CategoryOther:
		return c
	default:
		return CategoryOther
	}
}

// FinanceItem 表示一笔支出，ID 在单条记录内唯一。
type FinanceItem struct {
	ID       string          `json:"id"`
	Amount   float64         `json:"amount"`
	Category FinanceCategory `json:"category"`
	Note     string          `json:"note"`
}

// SocialMedia 记录自媒体运营产出（公众号 / 小红书）。
type SocialMedia struct {
	WechatCount int `json:"wechatCount"`
	XhsCount    int `json:"xhsCount"`
}

// Habits 记录当日习惯指标。
type Habits struct {
	Exercise       bool        `json:"exercise"`
	SleepHours     float64     `json:"sleepHours"`
	ReadingMins    int         `json:"readingMins"`
	HobbyMins      int         `json:"hobbyMins"`
	ResearchWords  int         `json:"researchWords"`
	ResearchCharts int         `json:"researchCharts"`
	SocialMedia    SocialMedia `json:"socialMedia"`
}

// DailyLog 表示某个日期的完整记录，date（YYYY-MM-DD）即身份键。
type DailyLog struct {
	Date    string        `json:"date"`
	Income  float64       `json:"income"`
	Finance []FinanceItem `json:"finance"`
	Habits  Habits        `json:"habits"`
	Mood    Mood          `json:"mood"`
	Memo    string        `json:"memo"`
}

// DefaultLog 返回指定日期的规范默认记录。
func DefaultLog(date string) DailyLog {
	return DailyLog{
		Date:    date,
		Income:  0,
		Finance: []FinanceItem{},
		Habits: Habits{
			Exercise:       false,
			SleepHours:     7,
			ReadingMins:    0,
			HobbyMins:      0,
			ResearchWords:  0,
			ResearchCharts: 0,
			SocialMedia:    SocialMedia{WechatCount: 0, XhsCount: 0},
		},
		Mood: MoodNeutral,
		Memo: "",
	}
}

// storedLog 是持久化记录的原始形态。指针字段用于区分"字段缺失"
// 与"显式零值"，老版本保存的数据可能缺少 income、socialMedia 等字段。
type storedLog struct {
	Date    *string       `json:"date"`
	Income  *float64      `json:"income"`
	Finance []FinanceItem `json:"finance"`
	Habits  *storedHabits `json:"habits"`
	Mood    *Mood         `json:"mood"`
	Memo    *string       `json:"memo"`
}

type storedHabits struct {
	Exercise       *bool        `json:"exercise"`
	SleepHours     *float64     `json:"sleepHours"`
	ReadingMins    *int         `json:"readingMins"`
	HobbyMins      *int         `json:"hobbyMins"`
	ResearchWords  *int         `json:"researchWords"`
	ResearchCharts *int         `json:"researchCharts"`
	SocialMedia    *SocialMedia `json:"socialMedia"`
}

// normalizeStored 将原始记录与默认值合并，保证所有字段齐全。
// 纯函数且幂等：对已规范化的记录再执行一次不会产生任何变化。
// 合并顺序：默认值 → 顶层字段 → habits 嵌套字段；socialMedia 整体覆盖，
// 缺失时回退默认，不做字段级合并。
func normalizeStored(date string, raw *storedLog) DailyLog {
	normalized := DefaultLog(date)
	if raw == nil {
		return normalized
	}

	if raw.Income != nil {
		normalized.Income = *raw.Income
	}
	if raw.Finance != nil {
		items := make([]FinanceItem, 0, len(raw.Finance))
		for _, item := range raw.Finance {
			item.Category = NormalizeCategory(item.Category)
			items = append(items, item)
		}
		normalized.Finance = items
	}
	if raw.Mood != nil {
		normalized.Mood = NormalizeMood(*raw.Mood)
	}
	if raw.Memo != nil {
		normalized.Memo = *raw.Memo
	}

	if raw.Habits != nil {
		if raw.Habits.Exercise != nil {
			normalized.Habits.Exercise = *raw.Habits.Exercise
		}
		if raw.Habits.SleepHours != nil {
			normalized.Habits.SleepHours = *raw.Habits.SleepHours
		}
		if raw.Habits.ReadingMins != nil {
			normalized.Habits.ReadingMins = *raw.Habits.ReadingMins
		}
		if raw.Habits.HobbyMins != nil {
			normalized.Habits.HobbyMins = *raw.Habits.HobbyMins
		}
		if raw.Habits.ResearchWords != nil {
			normalized.Habits.ResearchWords = *raw.Habits.ResearchWords
		}
		if raw.Habits.ResearchCharts != nil {
			normalized.Habits.ResearchCharts = *raw.Habits.ResearchCharts
		}
		if raw.Habits.SocialMedia != nil {
			normalized.Habits.SocialMedia = *raw.Habits.SocialMedia
		}
	}

	return normalized
}
