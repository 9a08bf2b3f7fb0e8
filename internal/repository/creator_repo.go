package repository

import (
	"TrendPulse/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatorRepo interface {
	UpsertByUsername(ctx context.Context, creator *model.Creator) error
	GetByID(ctx context.Context, id uint64) (*model.Creator, error)
	ListTracked(ctx context.Context) ([]*model.Creator, error)
	TopByScore(ctx context.Context, limit int) ([]*model.Creator, error)
	Count(ctx context.Context) (int64, error)
}

type creatorRepoImpl struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepo {
	return &creatorRepoImpl{db: db}
}

func (r *creatorRepoImpl) UpsertByUsername(ctx context.Context, creator *model.Creator) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"nickname",
			"follower_count",
			"video_count",
			"last_updated_at",
		}),
	}).Create(creator).Error
}

func (r *creatorRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Creator, error) {
	var creator model.Creator
	err := r.db.WithContext(ctx).First(&creator, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &creator, nil
}

func (r *creatorRepoImpl) ListTracked(ctx context.Context) ([]*model.Creator, error) {
	creators := make([]*model.Creator, 0)
	result := r.db.WithContext(ctx).Order("id ASC").Find(&creators)
	if result.Error != nil {
		return nil, result.Error
	}
	return creators, nil
}

func (r *creatorRepoImpl) TopByScore(ctx context.Context, limit int) ([]*model.Creator, error) {
	creators := make([]*model.Creator, 0, limit)
	result := r.db.WithContext(ctx).
		Order("trend_score DESC, follower_count DESC").
		Limit(limit).
		Find(&creators)
	if result.Error != nil {
		return nil, result.Error
	}
	return creators, nil
}

func (r *creatorRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Creator{}).Count(&count).Error
	return count, err
}
