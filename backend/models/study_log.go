package models

import "gorm.io/gorm"

// StudyLog is one day of recorded activity. Exactly one row may exist
// per user per calendar date.
type StudyLog struct {
	gorm.Model
	UserID      uint   `gorm:"not null;uniqueIndex:uidx_user_date"`
	Date        string `gorm:"type:varchar(10);not null;uniqueIndex:uidx_user_date"` // YYYY-MM-DD
	WakeTime    string
	SleepTime   string
	Pages       int `gorm:"default:0"`
	Questions   int `gorm:"default:0"`
	WorkoutSets int `gorm:"default:0"`
	Studied     bool
	// Questions answered per subject. Its sum is the canonical Questions total.
	Breakdown map[string]int `gorm:"serializer:json"`
	// Study time per subject, kept as the raw text the user typed ("1h30m").
	Durations map[string]string `gorm:"serializer:json"`
}

// Plan is a free-text planning note attached to a calendar date.
type Plan struct {
	gorm.Model
	UserID uint   `gorm:"not null;uniqueIndex:uidx_user_plan_date"`
	Date   string `gorm:"type:varchar(10);not null;uniqueIndex:uidx_user_plan_date"`
	Body   string
}
