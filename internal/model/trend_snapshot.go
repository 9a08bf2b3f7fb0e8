package model

import (
	"time"
)

// TrendSnapshot 某个实体在一次采集周期的指标快照。
// 快照只追加，写入后不再修改；同一实体的快照按 Timestamp 全序排列，
// GrowthRate 永远相对紧邻的上一条快照计算。
type TrendSnapshot struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	EntityType   string    `gorm:"not null;size:16;index:idx_entity_ts,priority:1" json:"entityType"`
	EntityID     uint64    `gorm:"not null;index:idx_entity_ts,priority:2" json:"entityId"`
	VolumeCount  int64     `gorm:"not null;default:0" json:"volumeCount"`
	VideoCount   int       `gorm:"not null;default:0" json:"videoCount"`
	LikeCount    int64     `gorm:"not null;default:0" json:"likeCount"`
	ShareCount   int64     `gorm:"not null;default:0" json:"shareCount"`
	CommentCount int64     `gorm:"not null;default:0" json:"commentCount"`
	GrowthRate   float64   `gorm:"not null;default:0" json:"growthRate"`
	Velocity     float64   `gorm:"not null;default:0" json:"velocity"`
	TrendScore   int       `gorm:"not null;default:0" json:"trendScore"`
	Timestamp    time.Time `gorm:"not null;index:idx_entity_ts,priority:3" json:"timestamp"`
}

func (TrendSnapshot) TableName() string {
	return "trend_snapshots"
}
