package models

import (
	"gorm.io/gorm"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"default:user"` // user, moderator
	TreeBranches int    `gorm:"default:1"`
	// Personal note written by the moderator, overwritten wholesale.
	ModMessage string
	// User-configurable subject list shown in the daily form.
	Subjects []string `gorm:"serializer:json"`
}
