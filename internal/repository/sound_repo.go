package repository

import (
	"TrendPulse/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SoundRepo interface {
	UpsertByTikTokID(ctx context.Context, sound *model.Sound) error
	GetByID(ctx context.Context, id uint64) (*model.Sound, error)
	ListTracked(ctx context.Context) ([]*model.Sound, error)
	TopByScore(ctx context.Context, limit int) ([]*model.Sound, error)
	Count(ctx context.Context) (int64, error)
}

type soundRepoImpl struct {
	db *gorm.DB
}

func NewSoundRepository(db *gorm.DB) SoundRepo {
	return &soundRepoImpl{db: db}
}

func (r *soundRepoImpl) UpsertByTikTokID(ctx context.Context, sound *model.Sound) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tiktok_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"author",
			"play_count",
			"video_count",
			"last_updated_at",
		}),
	}).Create(sound).Error
}

func (r *soundRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Sound, error) {
	var sound model.Sound
	err := r.db.WithContext(ctx).First(&sound, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sound, nil
}

func (r *soundRepoImpl) ListTracked(ctx context.Context) ([]*model.Sound, error) {
	sounds := make([]*model.Sound, 0)
	result := r.db.WithContext(ctx).Order("id ASC").Find(&sounds)
	if result.Error != nil {
		return nil, result.Error
	}
	return sounds, nil
}

func (r *soundRepoImpl) TopByScore(ctx context.Context, limit int) ([]*model.Sound, error) {
	sounds := make([]*model.Sound, 0, limit)
	result := r.db.WithContext(ctx).
		Order("trend_score DESC, play_count DESC").
		Limit(limit).
		Find(&sounds)
	if result.Error != nil {
		return nil, result.Error
	}
	return sounds, nil
}

func (r *soundRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sound{}).Count(&count).Error
	return count, err
}
