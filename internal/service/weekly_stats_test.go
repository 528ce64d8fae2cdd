package service

import (
	"testing"
	"time"
)

func mustSaveLog(t *testing.T, svc *LogService, entry DailyLog) {
	t.Helper()
	if err := svc.SaveLog(entry); err != nil {
		t.Fatalf("failed to save log %s: %v", entry.Date, err)
	}
}

func TestWeekRangeMidWeek(t *testing.T) {
	// 2025-08-20 是周三
	now := time.Date(2025, 8, 20, 15, 30, 0, 0, time.Local)
	week := WeekRangeAt(now)

	if got := week.Start.Format(dateLayout); got != "2025-08-18" {
		t.Fatalf("expected week start 2025-08-18, got %s", got)
	}
	if got := week.End.Format(dateLayout); got != "2025-08-24" {
		t.Fatalf("expected week end 2025-08-24, got %s", got)
	}
	if week.Label != "8/18 - 8/24" {
		t.Fatalf("unexpected label %q", week.Label)
	}
}

func TestWeekRangeSunday(t *testing.T) {
	// 周日属于上一个周一开始的那一周
	now := time.Date(2025, 8, 24, 9, 0, 0, 0, time.Local)
	week := WeekRangeAt(now)

	if got := week.Start.Format(dateLayout); got != "2025-08-18" {
		t.Fatalf("expected week start 2025-08-18, got %s", got)
	}
	if got := week.End.Format(dateLayout); got != "2025-08-24" {
		t.Fatalf("expected week end 2025-08-24, got %s", got)
	}
}

func TestWeekRangeYearBoundary(t *testing.T) {
	// 2025-01-01 是周三，本周起点落在上一年的 12 月
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)
	week := WeekRangeAt(now)

	if got := week.Start.Format(dateLayout); got != "2024-12-30" {
		t.Fatalf("expected week start 2024-12-30, got %s", got)
	}
	if got := week.End.Format(dateLayout); got != "2025-01-05" {
		t.Fatalf("expected week end 2025-01-05, got %s", got)
	}
	if week.Label != "12/30 - 1/5" {
		t.Fatalf("unexpected label %q", week.Label)
	}
}

func TestWeeklyStatsScenario(t *testing.T) {
	svc := NewLogService(NewMemoryBlobStore())
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	entry := DefaultLog("2025-08-20")
	entry.Income = 50
	entry.Finance = []FinanceItem{{ID: "f1", Amount: 100, Category: CategoryFood, Note: "午餐"}}
	entry.Habits.Exercise = true
	entry.Habits.SleepHours = 8
	mustSaveLog(t, svc, entry)

	// 窗口之外的记录不参与聚合
	outside := DefaultLog("2025-08-10")
	outside.Finance = []FinanceItem{{ID: "f2", Amount: 999, Category: CategoryShopping, Note: ""}}
	outside.Income = 777
	mustSaveLog(t, svc, outside)

	stats, logs, week := svc.WeeklyStatsAt(now)

	if len(logs) != 1 {
		t.Fatalf("expected 1 in-week log, got %d", len(logs))
	}
	if stats.TotalSpend != 100 {
		t.Fatalf("expected totalSpend 100, got %v", stats.TotalSpend)
	}
	if stats.TotalIncome != 50 {
		t.Fatalf("expected totalIncome 50, got %v", stats.TotalIncome)
	}
	if stats.ExerciseDays != 1 {
		t.Fatalf("expected 1 exercise day, got %d", stats.ExerciseDays)
	}
	if stats.AvgSleep != 8.0 {
		t.Fatalf("expected avgSleep 8.0, got %v", stats.AvgSleep)
	}
	if len(stats.Moods) != 1 {
		t.Fatalf("expected 1 mood entry, got %d", len(stats.Moods))
	}
	if got := week.Start.Format(dateLayout); got != "2025-08-18" {
		t.Fatalf("unexpected week start %s", got)
	}
}

func TestAvgSleepExcludesZero(t *testing.T) {
	svc := NewLogService(NewMemoryBlobStore())
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	slept := DefaultLog("2025-08-19")
	slept.Habits.SleepHours = 7.5
	mustSaveLog(t, svc, slept)

	// 睡眠为 0 视为未填写，不拉低平均值
	unrecorded := DefaultLog("2025-08-20")
	unrecorded.Habits.SleepHours = 0
	mustSaveLog(t, svc, unrecorded)

	stats, _, _ := svc.WeeklyStatsAt(now)
	if stats.AvgSleep != 7.5 {
		t.Fatalf("expected avgSleep 7.5, got %v", stats.AvgSleep)
	}
}

func TestAvgSleepAllZero(t *testing.T) {
	svc := NewLogService(NewMemoryBlobStore())
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	entry := DefaultLog("2025-08-20")
	entry.Habits.SleepHours = 0
	mustSaveLog(t, svc, entry)

	stats, _, _ := svc.WeeklyStatsAt(now)
	if stats.AvgSleep != 0 {
		t.Fatalf("expected avgSleep 0 when no record has sleep, got %v", stats.AvgSleep)
	}
}

func TestAvgSleepRounding(t *testing.T) {
	svc := NewLogService(NewMemoryBlobStore())
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	first := DefaultLog("2025-08-18")
	first.Habits.SleepHours = 7
	mustSaveLog(t, svc, first)

	second := DefaultLog("2025-08-19")
	second.Habits.SleepHours = 6
	mustSaveLog(t, svc, second)

	third := DefaultLog("2025-08-20")
	third.Habits.SleepHours = 7
	mustSaveLog(t, svc, third)

	stats, _, _ := svc.WeeklyStatsAt(now)
	if stats.AvgSleep != 6.7 {
		t.Fatalf("expected avgSleep 6.7, got %v", stats.AvgSleep)
	}
}

func TestMoodsChronological(t *testing.T) {
	svc := NewLogService(NewMemoryBlobStore())
	now := time.Date(2025, 8, 20, 10, 0, 0, 0, time.Local)

	later := DefaultLog("2025-08-20")
	later.Mood = MoodTired
	mustSaveLog(t, svc, later)

	earlier := DefaultLog("2025-08-18")
	earlier.Mood = MoodGreat
	mustSaveLog(t, svc, earlier)

	stats, logs, _ := svc.WeeklyStatsAt(now)

	if len(stats.Moods) != 2 {
		t.Fatalf("expected 2 moods, got %d", len(stats.Moods))
	}
	if stats.Moods[0] != MoodGreat || stats.Moods[1] != MoodTired {
		t.Fatalf("expected chronological moods, got %v", stats.Moods)
	}
	if logs[0].Date != "2025-08-18" {
		t.Fatalf("expected logs sorted by date, got %s first", logs[0].Date)
	}
}
