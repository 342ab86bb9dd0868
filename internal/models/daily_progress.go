package models

import "time"

// DailyProgress is a cached daily rollup for one user.
// Rows are derived from tasks and may be dropped or rebuilt at any time.
type DailyProgress struct {
	UserID         string    `gorm:"primaryKey;column:user_id"`
	Date           string    `gorm:"primaryKey;column:date;size:10"`
	CompletedCount int       `gorm:"column:completed_count;not null"`
	TotalCount     int       `gorm:"column:total_count;not null"`
	Percentage     int       `gorm:"not null"`
	ComputedAt     time.Time `gorm:"column:computed_at;not null;index"`
}

// TableName specifies the table name for DailyProgress Model
func (DailyProgress) TableName() string {
	return "daily_progress"
}
