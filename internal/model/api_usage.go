package model

import (
	"time"
)

// APIUsage 上游 TikTok API 的调用流水，用于配额和延迟观测
type APIUsage struct {
	ID           uint64    `gorm:"primaryKey"`
	Endpoint     string    `gorm:"not null;size:256"`
	Method       string    `gorm:"not null;size:8"`
	StatusCode   int       `gorm:"not null;default:0"`
	ResponseTime int       `gorm:"not null;default:0;comment:毫秒"`
	Timestamp    time.Time `gorm:"not null;index"`
}

func (APIUsage) TableName() string {
	return "api_usages"
}
