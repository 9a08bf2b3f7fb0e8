package model

import (
	"time"
)

type Sound struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	TikTokID      string    `gorm:"not null;uniqueIndex;size:64;column:tiktok_id" json:"tiktokId"`
	Title         string    `gorm:"not null;size:256" json:"title"`
	Author        string    `gorm:"size:128" json:"author"`
	PlayCount     int64     `gorm:"not null;default:0" json:"playCount"`
	VideoCount    int       `gorm:"not null;default:0" json:"videoCount"`
	TrendScore    int       `gorm:"not null;default:0;index" json:"trendScore"`
	GrowthRate    float64   `gorm:"not null;default:0" json:"growthRate"`
	FirstSeenAt   time.Time `gorm:"autoCreateTime" json:"firstSeenAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func (Sound) TableName() string {
	return "sounds"
}
