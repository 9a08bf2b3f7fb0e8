package repository

import (
	"TrendPulse/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HashtagRepo interface {
	UpsertByName(ctx context.Context, hashtag *model.Hashtag) error
	GetByID(ctx context.Context, id uint64) (*model.Hashtag, error)
	ListTracked(ctx context.Context) ([]*model.Hashtag, error)
	TopByScore(ctx context.Context, limit int) ([]*model.Hashtag, error)
	Count(ctx context.Context) (int64, error)
}

type hashtagRepoImpl struct {
	db *gorm.DB
}

func NewHashtagRepository(db *gorm.DB) HashtagRepo {
	return &hashtagRepoImpl{db: db}
}

// UpsertByName 按名称 Upsert。已存在时仅刷新展示名与计数，保留首次发现时间
func (r *hashtagRepoImpl) UpsertByName(ctx context.Context, hashtag *model.Hashtag) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name",
			"view_count",
			"video_count",
			"last_updated_at",
		}),
	}).Create(hashtag).Error
}

func (r *hashtagRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Hashtag, error) {
	var hashtag model.Hashtag
	err := r.db.WithContext(ctx).First(&hashtag, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hashtag, nil
}

func (r *hashtagRepoImpl) ListTracked(ctx context.Context) ([]*model.Hashtag, error) {
	hashtags := make([]*model.Hashtag, 0)
	result := r.db.WithContext(ctx).Order("id ASC").Find(&hashtags)
	if result.Error != nil {
		return nil, result.Error
	}
	return hashtags, nil
}

// TopByScore 按当前热度分取排行
func (r *hashtagRepoImpl) TopByScore(ctx context.Context, limit int) ([]*model.Hashtag, error) {
	hashtags := make([]*model.Hashtag, 0, limit)
	result := r.db.WithContext(ctx).
		Order("trend_score DESC, view_count DESC").
		Limit(limit).
		Find(&hashtags)
	if result.Error != nil {
		return nil, result.Error
	}
	return hashtags, nil
}

func (r *hashtagRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Hashtag{}).Count(&count).Error
	return count, err
}
