package dto

import (
	"time"
)

// TrendEntryDTO 热榜条目
type TrendEntryDTO struct {
	ID            uint64    `json:"id"`
	EntityType    string    `json:"entityType"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"displayName"`
	VolumeCount   int64     `json:"volumeCount"`
	VolumeLabel   string    `json:"volumeLabel"`
	VideoCount    int       `json:"videoCount"`
	TrendScore    int       `json:"trendScore"`
	GrowthRate    float64   `json:"growthRate"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ChartPointDTO 走势图单点
type ChartPointDTO struct {
	Timestamp   time.Time `json:"timestamp"`
	VolumeCount int64     `json:"volumeCount"`
	GrowthRate  float64   `json:"growthRate"`
	Velocity    float64   `json:"velocity"`
	TrendScore  int       `json:"trendScore"`
}

// LifecycleDTO 生命周期判定结果
type LifecycleDTO struct {
	EntityType string `json:"entityType"`
	EntityID   uint64 `json:"entityId"`
	Stage      string `json:"stage"`
	Sampled    int    `json:"sampled"` // 参与判定的快照数
}

// StatsDTO 平台概览统计
type StatsDTO struct {
	TrackedHashtags  int64   `json:"trackedHashtags"`
	TrackedSounds    int64   `json:"trackedSounds"`
	TrackedCreators  int64   `json:"trackedCreators"`
	ActiveAlerts     int64   `json:"activeAlerts"`
	SnapshotsLast24h int64   `json:"snapshotsLast24h"`
	APICallsLast24h  int64   `json:"apiCallsLast24h"`
	APIErrorsLast24h int64   `json:"apiErrorsLast24h"`
	AvgLatencyMs     float64 `json:"avgLatencyMs"`
}

// SearchHitDTO 实体检索结果
type SearchHitDTO struct {
	EntityType  string `json:"entityType"`
	EntityID    uint64 `json:"entityId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	TrendScore  int    `json:"trendScore"`
	VolumeCount int64  `json:"volumeCount"`
}
