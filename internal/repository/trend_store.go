package repository

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type TrendStore interface {
	// AppendObservation 在同一事务内追加快照并回写实体表的冗余计数，
	// 保证读取方不会看到计数已更新但快照缺失的中间状态
	AppendObservation(ctx context.Context, snap *model.TrendSnapshot) error
	// LatestSnapshots 取最近 n 条快照，新的在前
	LatestSnapshots(ctx context.Context, entityType string, entityID uint64, n int) ([]*model.TrendSnapshot, error)
	// SnapshotsSince 取某时间之后的快照，按时间升序
	SnapshotsSince(ctx context.Context, entityType string, entityID uint64, since time.Time) ([]*model.TrendSnapshot, error)
	// CountSnapshotsSince 统计某时间之后的快照总量
	CountSnapshotsSince(ctx context.Context, since time.Time) (int64, error)
}

type trendStoreImpl struct {
	db *gorm.DB
}

func NewTrendStore(db *gorm.DB) TrendStore {
	return &trendStoreImpl{db: db}
}

func (r *trendStoreImpl) AppendObservation(ctx context.Context, snap *model.TrendSnapshot) error {
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(snap).Error; err != nil {
			return err
		}
		return r.syncEntityCounters(tx, snap)
	})
}

// syncEntityCounters 把快照里的最新计数刷回对应实体表
func (r *trendStoreImpl) syncEntityCounters(tx *gorm.DB, snap *model.TrendSnapshot) error {
	updates := map[string]interface{}{
		"video_count":     snap.VideoCount,
		"trend_score":     snap.TrendScore,
		"growth_rate":     snap.GrowthRate,
		"last_updated_at": snap.Timestamp,
	}

	switch snap.EntityType {
	case consts.EntityTypeHashtag:
		updates["view_count"] = snap.VolumeCount
		return tx.Model(&model.Hashtag{}).Where("id = ?", snap.EntityID).Updates(updates).Error
	case consts.EntityTypeSound:
		updates["play_count"] = snap.VolumeCount
		return tx.Model(&model.Sound{}).Where("id = ?", snap.EntityID).Updates(updates).Error
	case consts.EntityTypeCreator:
		updates["follower_count"] = snap.VolumeCount
		return tx.Model(&model.Creator{}).Where("id = ?", snap.EntityID).Updates(updates).Error
	default:
		return fmt.Errorf("unknown entity type: %s", snap.EntityType)
	}
}

func (r *trendStoreImpl) LatestSnapshots(ctx context.Context, entityType string, entityID uint64, n int) ([]*model.TrendSnapshot, error) {
	snapshots := make([]*model.TrendSnapshot, 0, n)
	result := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC").
		Limit(n).
		Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}

func (r *trendStoreImpl) SnapshotsSince(ctx context.Context, entityType string, entityID uint64, since time.Time) ([]*model.TrendSnapshot, error) {
	snapshots := make([]*model.TrendSnapshot, 0)
	result := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND timestamp >= ?", entityType, entityID, since).
		Order("timestamp ASC").
		Find(&snapshots)
	if result.Error != nil {
		return nil, result.Error
	}
	return snapshots, nil
}

func (r *trendStoreImpl) CountSnapshotsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TrendSnapshot{}).
		Where("timestamp >= ?", since).
		Count(&count).Error
	return count, err
}
