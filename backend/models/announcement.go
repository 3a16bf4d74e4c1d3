package models

import "gorm.io/gorm"

// Announcement is a moderator broadcast visible to every user,
// listed most-recent-first.
type Announcement struct {
	gorm.Model
	Body string `gorm:"not null"`
}
