package service

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// WeeklyStats 汇总本周记录的统计值。
type WeeklyStats struct {
	TotalSpend       float64 `json:"totalSpend"`
	TotalIncome      float64 `json:"totalIncome"`
	ExerciseDays     int     `json:"exerciseDays"`
	AvgSleep         float64 `json:"avgSleep"`
	TotalReadingMins int     `json:"totalReadingMins"`
	TotalHobbyMins   int     `json:"totalHobbyMins"`
	TotalWords       int     `json:"totalWords"`
	TotalCharts      int     `json:"totalCharts"`
	TotalSocialMedia int     `json:"totalSocialMedia"`
	Moods            []Mood  `json:"moods"`
}

// WeekRange 描述一个周一到周日的日历周窗口。
type WeekRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// WeekRangeAt 计算 now 所在的周一到周日窗口。
// diff = 当月日 - 星期数 + (周日 ? -6 : 1)，用 AddDate 做日数运算，
// 跨月 / 跨年时依然得到正确的日历日期。
func WeekRangeAt(now time.Time) WeekRange {
	day := int(now.Weekday()) // 周日为 0
	diff := 1 - day
	if day == 0 {
		diff = -6
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, diff)
	end := start.AddDate(0, 0, 6)

	label := fmt.Sprintf("%d/%d - %d/%d", int(start.Month()), start.Day(), int(end.Month()), end.Day())
	return WeekRange{Start: start, End: end, Label: label}
}

// CurrentWeekStats 基于当前时刻聚合本周统计，每次调用重新计算，不做缓存。
func (s *LogService) CurrentWeekStats() (WeeklyStats, []DailyLog, WeekRange) {
	return s.WeeklyStatsAt(time.Now())
}

// WeeklyStatsAt 聚合 now 所在日历周内的记录。
// 返回的记录按日期升序排列，moods 因此是时间顺序而非落库顺序。
func (s *LogService) WeeklyStatsAt(now time.Time) (WeeklyStats, []DailyLog, WeekRange) {
	week := WeekRangeAt(now)
	logs := s.Logs()

	weekLogs := make([]DailyLog, 0, 7)
	for _, entry := range logs {
		logDate, err := time.ParseInLocation(dateLayout, entry.Date, now.Location())
		if err != nil {
			continue
		}
		if logDate.Before(week.Start) || logDate.After(week.End) {
			continue
		}
		weekLogs = append(weekLogs, entry)
	}

	// ISO 日期字符串的字典序即时间序
	sort.Slice(weekLogs, func(i, j int) bool {
		return weekLogs[i].Date < weekLogs[j].Date
	})

	stats := WeeklyStats{Moods: []Mood{}}

	var sleepTotal float64
	var sleepCount int

	for _, entry := range weekLogs {
		for _, item := range entry.Finance {
			stats.TotalSpend += item.Amount
		}
		stats.TotalIncome += entry.Income

		if entry.Habits.Exercise {
			stats.ExerciseDays++
		}

		// 睡眠为 0 的记录视为未填写，不计入平均值的分子与分母
		if entry.Habits.SleepHours > 0 {
			sleepTotal += entry.Habits.SleepHours
			sleepCount++
		}

		stats.TotalReadingMins += entry.Habits.ReadingMins
		stats.TotalHobbyMins += entry.Habits.HobbyMins
		stats.TotalWords += entry.Habits.ResearchWords
		stats.TotalCharts += entry.Habits.ResearchCharts
		stats.TotalSocialMedia += entry.Habits.SocialMedia.WechatCount + entry.Habits.SocialMedia.XhsCount

		stats.Moods = append(stats.Moods, entry.Mood)
	}

	if sleepCount > 0 {
		stats.AvgSleep = math.Round(sleepTotal/float64(sleepCount)*10) / 10
	}

	return stats, weekLogs, week
}
