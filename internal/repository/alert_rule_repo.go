package repository

import (
	"TrendPulse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AlertRuleRepo interface {
	Create(ctx context.Context, rule *model.AlertRule) error
	GetByID(ctx context.Context, id uint64) (*model.AlertRule, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.AlertRule, error)
	// ActiveRules 未激活的规则永远不会被评估
	ActiveRules(ctx context.Context) ([]*model.AlertRule, error)
	SetActive(ctx context.Context, id uint64, active bool) error
	UpdateThreshold(ctx context.Context, id uint64, threshold float64, cooldownSeconds int) error
	StampTriggered(ctx context.Context, id uint64, when time.Time) error
	CountActive(ctx context.Context) (int64, error)
}

type alertRuleRepoImpl struct {
	db *gorm.DB
}

func NewAlertRuleRepository(db *gorm.DB) AlertRuleRepo {
	return &alertRuleRepoImpl{db: db}
}

func (r *alertRuleRepoImpl) Create(ctx context.Context, rule *model.AlertRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *alertRuleRepoImpl) GetByID(ctx context.Context, id uint64) (*model.AlertRule, error) {
	var rule model.AlertRule
	err := r.db.WithContext(ctx).First(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *alertRuleRepoImpl) ListByUser(ctx context.Context, userID uint64) ([]*model.AlertRule, error) {
	rules := make([]*model.AlertRule, 0)
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}

func (r *alertRuleRepoImpl) ActiveRules(ctx context.Context) ([]*model.AlertRule, error) {
	rules := make([]*model.AlertRule, 0)
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}

func (r *alertRuleRepoImpl) SetActive(ctx context.Context, id uint64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.AlertRule{}).
		Where("id = ?", id).
		Update("is_active", active).Error
}

func (r *alertRuleRepoImpl) UpdateThreshold(ctx context.Context, id uint64, threshold float64, cooldownSeconds int) error {
	return r.db.WithContext(ctx).
		Model(&model.AlertRule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"threshold":        threshold,
			"cooldown_seconds": cooldownSeconds,
		}).Error
}

func (r *alertRuleRepoImpl) StampTriggered(ctx context.Context, id uint64, when time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.AlertRule{}).
		Where("id = ?", id).
		Update("last_triggered", when).Error
}

func (r *alertRuleRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AlertRule{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
