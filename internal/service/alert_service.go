package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/repository"
	"context"
	log "log/slog"
	"time"
)

// TriggerEvent 一条告警规则本轮命中的描述，交给通知侧分发
type TriggerEvent struct {
	RuleID      uint64    `json:"ruleId"`
	UserID      uint64    `json:"userId"`
	EntityType  string    `json:"entityType"`
	EntityID    uint64    `json:"entityId"`
	EntityName  string    `json:"entityName"`
	Metric      string    `json:"metric"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	TriggeredAt time.Time `json:"triggeredAt"`
}

type AlertService interface {
	CreateRule(ctx context.Context, userID uint64, entityType string, entityID uint64, threshold float64, condition string, cooldownSeconds int) (*model.AlertRule, error)
	ListRules(ctx context.Context, userID uint64) ([]*model.AlertRule, error)
	ToggleRule(ctx context.Context, userID uint64, ruleID uint64, active bool) error
	UpdateRule(ctx context.Context, userID uint64, ruleID uint64, threshold float64, cooldownSeconds int) error
	// EvaluateAlerts 对全部激活规则跑一轮评估，返回本轮命中的事件。
	// 只读取落库快照，自身不抓取上游数据。
	EvaluateAlerts(ctx context.Context) ([]*TriggerEvent, error)
}

type alertServiceImpl struct {
	alertRepo   repository.AlertRuleRepo
	store       repository.TrendStore
	hashtagRepo repository.HashtagRepo
	soundRepo   repository.SoundRepo
	creatorRepo repository.CreatorRepo
}

func NewAlertService(
	alertRepo repository.AlertRuleRepo,
	store repository.TrendStore,
	hashtagRepo repository.HashtagRepo,
	soundRepo repository.SoundRepo,
	creatorRepo repository.CreatorRepo,
) AlertService {
	return &alertServiceImpl{
		alertRepo:   alertRepo,
		store:       store,
		hashtagRepo: hashtagRepo,
		soundRepo:   soundRepo,
		creatorRepo: creatorRepo,
	}
}

func (s *alertServiceImpl) CreateRule(ctx context.Context, userID uint64, entityType string, entityID uint64, threshold float64, condition string, cooldownSeconds int) (*model.AlertRule, error) {
	if condition == "" {
		condition = consts.ConditionGTE
	}
	if condition != consts.ConditionGTE {
		return nil, ErrConditionUnsupported
	}
	if cooldownSeconds < 0 {
		return nil, ErrParamInvalid
	}

	// 确认目标实体确实在追踪
	if _, err := s.entityName(ctx, entityType, entityID); err != nil {
		return nil, err
	}

	rule := &model.AlertRule{
		UserID:          userID,
		EntityType:      entityType,
		EntityID:        entityID,
		Threshold:       threshold,
		Condition:       condition,
		IsActive:        true,
		CooldownSeconds: cooldownSeconds,
	}
	if err := s.alertRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *alertServiceImpl) ListRules(ctx context.Context, userID uint64) ([]*model.AlertRule, error) {
	return s.alertRepo.ListByUser(ctx, userID)
}

func (s *alertServiceImpl) ToggleRule(ctx context.Context, userID uint64, ruleID uint64, active bool) error {
	if err := s.checkOwner(ctx, userID, ruleID); err != nil {
		return err
	}
	return s.alertRepo.SetActive(ctx, ruleID, active)
}

func (s *alertServiceImpl) UpdateRule(ctx context.Context, userID uint64, ruleID uint64, threshold float64, cooldownSeconds int) error {
	if cooldownSeconds < 0 {
		return ErrParamInvalid
	}
	if err := s.checkOwner(ctx, userID, ruleID); err != nil {
		return err
	}
	return s.alertRepo.UpdateThreshold(ctx, ruleID, threshold, cooldownSeconds)
}

func (s *alertServiceImpl) checkOwner(ctx context.Context, userID uint64, ruleID uint64) error {
	rule, err := s.alertRepo.GetByID(ctx, ruleID)
	if err != nil {
		return err
	}
	if rule == nil {
		return ErrAlertNotFound
	}
	if rule.UserID != userID {
		return UnauthorizedError
	}
	return nil
}

func (s *alertServiceImpl) EvaluateAlerts(ctx context.Context) ([]*TriggerEvent, error) {
	rules, err := s.alertRepo.ActiveRules(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	events := make([]*TriggerEvent, 0)

	for _, rule := range rules {
		if ctx.Err() != nil {
			return events, ctx.Err()
		}

		ev, err := s.evaluateRule(ctx, rule, now)
		if err != nil {
			log.WarnContext(ctx, "evaluate alert rule failed", "rule_id", rule.ID, "err", err)
			continue
		}
		if ev == nil {
			continue
		}

		if err := s.alertRepo.StampTriggered(ctx, rule.ID, now); err != nil {
			log.WarnContext(ctx, "stamp alert rule failed", "rule_id", rule.ID, "err", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// evaluateRule 判定单条规则，未命中时返回 nil。
// 不足两条快照说明增长率还没有参照基线，直接跳过。
func (s *alertServiceImpl) evaluateRule(ctx context.Context, rule *model.AlertRule, now time.Time) (*TriggerEvent, error) {
	if rule.CooldownSeconds > 0 && rule.LastTriggered != nil {
		cooldown := time.Duration(rule.CooldownSeconds) * time.Second
		if now.Sub(*rule.LastTriggered) < cooldown {
			return nil, nil
		}
	}

	snaps, err := s.store.LatestSnapshots(ctx, rule.EntityType, rule.EntityID, 2)
	if err != nil {
		return nil, err
	}
	if len(snaps) < 2 {
		return nil, nil
	}

	latest := snaps[0]
	var hit bool
	switch rule.Condition {
	case consts.ConditionGTE:
		hit = latest.GrowthRate >= rule.Threshold
	default:
		return nil, ErrConditionUnsupported
	}
	if !hit {
		return nil, nil
	}

	name, err := s.entityName(ctx, rule.EntityType, rule.EntityID)
	if err != nil {
		return nil, err
	}

	return &TriggerEvent{
		RuleID:      rule.ID,
		UserID:      rule.UserID,
		EntityType:  rule.EntityType,
		EntityID:    rule.EntityID,
		EntityName:  name,
		Metric:      "growth_rate",
		Value:       latest.GrowthRate,
		Threshold:   rule.Threshold,
		TriggeredAt: now,
	}, nil
}

func (s *alertServiceImpl) entityName(ctx context.Context, entityType string, entityID uint64) (string, error) {
	switch entityType {
	case consts.EntityTypeHashtag:
		h, err := s.hashtagRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if h == nil {
			return "", ErrEntityNotFound
		}
		if h.DisplayName != "" {
			return h.DisplayName, nil
		}
		return h.Name, nil
	case consts.EntityTypeSound:
		snd, err := s.soundRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if snd == nil {
			return "", ErrEntityNotFound
		}
		return snd.Title, nil
	case consts.EntityTypeCreator:
		c, err := s.creatorRepo.GetByID(ctx, entityID)
		if err != nil {
			return "", err
		}
		if c == nil {
			return "", ErrEntityNotFound
		}
		if c.Nickname != "" {
			return c.Nickname, nil
		}
		return c.Username, nil
	default:
		return "", ErrEntityTypeInvalid
	}
}
