package model

import (
	"time"
)

// AlertRule 用户自定义的阈值告警规则。
// CooldownSeconds 为 0 表示不启用冷却，条件持续满足时每个检查周期都可以重复触发。
type AlertRule struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	UserID          uint64     `gorm:"not null;index" json:"userId"`
	EntityType      string     `gorm:"not null;size:16" json:"entityType"`
	EntityID        uint64     `gorm:"not null" json:"entityId"`
	Threshold       float64    `gorm:"not null" json:"threshold"`
	Condition       string     `gorm:"not null;size:8;default:'>='" json:"condition"`
	IsActive        bool       `gorm:"not null;default:true;index" json:"isActive"`
	CooldownSeconds int        `gorm:"not null;default:0" json:"cooldownSeconds"`
	LastTriggered   *time.Time `json:"lastTriggered"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (AlertRule) TableName() string {
	return "alert_rules"
}
