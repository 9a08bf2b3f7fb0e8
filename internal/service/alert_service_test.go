package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alertFixture struct {
	alertRepo   *fakeAlertRuleRepo
	store       *fakeTrendStore
	hashtagRepo *fakeHashtagRepo
	soundRepo   *fakeSoundRepo
	creatorRepo *fakeCreatorRepo
	svc         AlertService
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	f := &alertFixture{
		alertRepo:   newFakeAlertRuleRepo(),
		store:       &fakeTrendStore{},
		hashtagRepo: newFakeHashtagRepo(),
		soundRepo:   newFakeSoundRepo(),
		creatorRepo: newFakeCreatorRepo(),
	}
	f.svc = NewAlertService(f.alertRepo, f.store, f.hashtagRepo, f.soundRepo, f.creatorRepo)
	return f
}

func (f *alertFixture) trackHashtag(t *testing.T, name string) *model.Hashtag {
	t.Helper()
	h := &model.Hashtag{Name: name, DisplayName: name}
	require.NoError(t, f.hashtagRepo.UpsertByName(context.Background(), h))
	return h
}

func (f *alertFixture) addSnapshot(entityID uint64, growthRate float64, age time.Duration) {
	_ = f.store.AppendObservation(context.Background(), &model.TrendSnapshot{
		EntityType: consts.EntityTypeHashtag,
		EntityID:   entityID,
		GrowthRate: growthRate,
		Timestamp:  time.Now().Add(-age),
	})
}

func TestEvaluateAlertsTriggersOnThreshold(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "dancechallenge")

	rule, err := f.svc.CreateRule(context.Background(), 7, consts.EntityTypeHashtag, h.ID, 50, consts.ConditionGTE, 0)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 10, 2*time.Hour)
	f.addSnapshot(h.ID, 80, time.Minute)

	events, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, rule.ID, ev.RuleID)
	assert.Equal(t, uint64(7), ev.UserID)
	assert.Equal(t, consts.EntityTypeHashtag, ev.EntityType)
	assert.Equal(t, "dancechallenge", ev.EntityName)
	assert.Equal(t, "growth_rate", ev.Metric)
	assert.Equal(t, 80.0, ev.Value)
	assert.Equal(t, 50.0, ev.Threshold)

	stamped, err := f.alertRepo.GetByID(context.Background(), rule.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.LastTriggered)
}

func TestEvaluateAlertsExactThresholdTriggers(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "oOtd")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 50, consts.ConditionGTE, 0)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 0, 2*time.Hour)
	f.addSnapshot(h.ID, 50, time.Minute)

	events, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEvaluateAlertsBelowThreshold(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "fyp")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 50, consts.ConditionGTE, 0)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 10, 2*time.Hour)
	f.addSnapshot(h.ID, 49.9, time.Minute)

	events, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

// 只有一条快照时增长率没有参照基线，规则不评估
func TestEvaluateAlertsSkipsSingleSnapshot(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "newtag")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 0, consts.ConditionGTE, 0)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 100, time.Minute)

	events, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestEvaluateAlertsSkipsInactiveRule(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "sleeper")

	rule, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 10, consts.ConditionGTE, 0)
	require.NoError(t, err)
	require.NoError(t, f.svc.ToggleRule(context.Background(), 1, rule.ID, false))

	f.addSnapshot(h.ID, 10, 2*time.Hour)
	f.addSnapshot(h.ID, 99, time.Minute)

	events, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

// 没有冷却的规则条件持续满足时每轮都会重复触发
func TestEvaluateAlertsRetriggersWithoutCooldown(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "evergreen")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 50, consts.ConditionGTE, 0)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 10, 2*time.Hour)
	f.addSnapshot(h.ID, 80, time.Minute)

	first, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	second, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestEvaluateAlertsCooldownSuppressesRetrigger(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "cooldown")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 50, consts.ConditionGTE, 3600)
	require.NoError(t, err)

	f.addSnapshot(h.ID, 10, 2*time.Hour)
	f.addSnapshot(h.ID, 80, time.Minute)

	first, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)
	second, err := f.svc.EvaluateAlerts(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestCreateRuleDefaultsCondition(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "default")

	rule, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 20, "", 0)
	require.NoError(t, err)
	assert.Equal(t, consts.ConditionGTE, rule.Condition)
	assert.True(t, rule.IsActive)
}

func TestCreateRuleRejectsUnsupportedCondition(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "lt")

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 20, "<", 0)
	assert.ErrorIs(t, err, ErrConditionUnsupported)
}

func TestCreateRuleRejectsUnknownEntity(t *testing.T) {
	f := newAlertFixture(t)

	_, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, 404, 20, consts.ConditionGTE, 0)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestCreateRuleRejectsInvalidEntityType(t *testing.T) {
	f := newAlertFixture(t)

	_, err := f.svc.CreateRule(context.Background(), 1, "video", 1, 20, consts.ConditionGTE, 0)
	assert.ErrorIs(t, err, ErrEntityTypeInvalid)
}

func TestToggleRuleOwnership(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "owned")

	rule, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 20, consts.ConditionGTE, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ToggleRule(context.Background(), 2, rule.ID, false), UnauthorizedError)
	assert.ErrorIs(t, f.svc.ToggleRule(context.Background(), 1, 999, false), ErrAlertNotFound)
	assert.NoError(t, f.svc.ToggleRule(context.Background(), 1, rule.ID, false))
}

func TestUpdateRule(t *testing.T) {
	f := newAlertFixture(t)
	h := f.trackHashtag(t, "tuned")

	rule, err := f.svc.CreateRule(context.Background(), 1, consts.EntityTypeHashtag, h.ID, 20, consts.ConditionGTE, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.UpdateRule(context.Background(), 1, rule.ID, 30, -1), ErrParamInvalid)
	require.NoError(t, f.svc.UpdateRule(context.Background(), 1, rule.ID, 30, 600))

	updated, err := f.alertRepo.GetByID(context.Background(), rule.ID)
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.Threshold)
	assert.Equal(t, 600, updated.CooldownSeconds)
}
