package db

import "gorm.io/gorm"

// AppBlob 以固定键存储整份 JSON 文档，对应浏览器端的 localStorage 结构。
type AppBlob struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (AppBlob) TableName() string {
	return "app_blobs"
}

const (
	// KeyDailyLogs 存放日期 → 每日记录的 JSON 对象。
	KeyDailyLogs = "daily-logs"
	// KeyWeeklyReviews 存放周复盘的 JSON 数组，最新的在最前。
	KeyWeeklyReviews = "weekly-reviews"
)
