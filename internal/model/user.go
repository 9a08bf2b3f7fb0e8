package model

import (
	"time"
)

// User 仅承载通知分发所需的最小用户视图，登录鉴权由外部网关负责
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;size:256" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// UserPreference 用户的通知偏好
type UserPreference struct {
	ID                   uint64 `gorm:"primaryKey" json:"id"`
	UserID               uint64 `gorm:"not null;uniqueIndex" json:"userId"`
	EmailNotifications   bool   `gorm:"not null;default:true" json:"emailNotifications"`
	WebhookNotifications bool   `gorm:"not null;default:false" json:"webhookNotifications"`
	WebhookURL           string `gorm:"size:512" json:"webhookUrl"`
	DailyDigest          bool   `gorm:"not null;default:false" json:"dailyDigest"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
