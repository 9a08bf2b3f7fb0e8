package model

import (
	"time"
)

type Hashtag struct {
	ID            uint64    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"not null;uniqueIndex;size:128" json:"name"`
	DisplayName   string    `gorm:"not null;size:128" json:"displayName"`
	ViewCount     int64     `gorm:"not null;default:0" json:"viewCount"`
	VideoCount    int       `gorm:"not null;default:0" json:"videoCount"`
	TrendScore    int       `gorm:"not null;default:0;index" json:"trendScore"`
	GrowthRate    float64   `gorm:"not null;default:0" json:"growthRate"`
	FirstSeenAt   time.Time `gorm:"autoCreateTime" json:"firstSeenAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func (Hashtag) TableName() string {
	return "hashtags"
}
