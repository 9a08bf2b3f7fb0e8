package model

import (
	"time"
)

type Creator struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"not null;uniqueIndex;size:128" json:"username"`
	Nickname      string    `gorm:"not null;size:128" json:"nickname"`
	FollowerCount int64     `gorm:"not null;default:0" json:"followerCount"`
	VideoCount    int       `gorm:"not null;default:0" json:"videoCount"`
	TrendScore    int       `gorm:"not null;default:0;index" json:"trendScore"`
	GrowthRate    float64   `gorm:"not null;default:0" json:"growthRate"`
	FirstSeenAt   time.Time `gorm:"autoCreateTime" json:"firstSeenAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func (Creator) TableName() string {
	return "creators"
}
