package mongo

import (
	"time"
)

// Notification 通知明细模型
type Notification struct {
	ID        string         `bson:"_id,omitempty" json:"id"`          // MongoDB 自动生成的 ObjectID
	UserID    uint64         `bson:"user_id" json:"userId"`            // 关联 MySQL 的用户 ID
	RuleID    uint64         `bson:"rule_id,omitempty" json:"ruleId"`  // 触发本条通知的告警规则 ID
	Type      string         `bson:"type" json:"type"`                 // TREND_ALERT / DAILY_DIGEST
	Title     string         `bson:"title" json:"title"`               // 通知标题
	Message   string         `bson:"message" json:"message"`           // 通知正文
	Data      map[string]any `bson:"data,omitempty" json:"data"`       // 触发时的指标明细（类型、当前值、阈值等）
	Read      bool           `bson:"read" json:"read"`                 // 已读标记
	CreatedAt time.Time      `bson:"created_at" json:"createdAt"`      // 生成时间
}
