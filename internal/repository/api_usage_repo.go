package repository

import (
	"TrendPulse/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// APIUsageSummary 一段时间内的调用汇总
type APIUsageSummary struct {
	TotalCalls int64   `json:"totalCalls"`
	ErrorCalls int64   `json:"errorCalls"`
	AvgLatency float64 `json:"avgLatency"`
}

type APIUsageRepo interface {
	Record(ctx context.Context, usage *model.APIUsage) error
	SummarySince(ctx context.Context, since time.Time) (*APIUsageSummary, error)
}

type apiUsageRepoImpl struct {
	db *gorm.DB
}

func NewAPIUsageRepository(db *gorm.DB) APIUsageRepo {
	return &apiUsageRepoImpl{db: db}
}

func (r *apiUsageRepoImpl) Record(ctx context.Context, usage *model.APIUsage) error {
	if usage.Timestamp.IsZero() {
		usage.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *apiUsageRepoImpl) SummarySince(ctx context.Context, since time.Time) (*APIUsageSummary, error) {
	var summary APIUsageSummary

	err := r.db.WithContext(ctx).
		Model(&model.APIUsage{}).
		Where("timestamp >= ?", since).
		Select("COUNT(*) AS total_calls, SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) AS error_calls, COALESCE(AVG(response_time), 0) AS avg_latency").
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
