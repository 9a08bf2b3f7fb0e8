package repository

import (
	"TrendPulse/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetPreference(ctx context.Context, userID uint64) (*model.UserPreference, error)
	// ListDigestRecipients 列出开启了每日摘要的用户
	ListDigestRecipients(ctx context.Context) ([]*model.User, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

func (r *userRepoImpl) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepoImpl) GetPreference(ctx context.Context, userID uint64) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *userRepoImpl) ListDigestRecipients(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	result := r.db.WithContext(ctx).
		Joins("JOIN user_preferences ON user_preferences.user_id = users.id").
		Where("user_preferences.daily_digest = ?", true).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
