package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/es"
	"TrendPulse/internal/pkg/tiktok"
	"TrendPulse/internal/repository"
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// 内存桩实现，避免单测依赖 MySQL / ES / 上游 API

type fakeTrendStore struct {
	mu    sync.Mutex
	snaps []*model.TrendSnapshot
}

func (f *fakeTrendStore) AppendObservation(_ context.Context, snap *model.TrendSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *snap
	cp.ID = uint64(len(f.snaps) + 1)
	f.snaps = append(f.snaps, &cp)
	return nil
}

func (f *fakeTrendStore) LatestSnapshots(_ context.Context, entityType string, entityID uint64, n int) ([]*model.TrendSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.TrendSnapshot, 0)
	for _, s := range f.snaps {
		if s.EntityType == entityType && s.EntityID == entityID {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	if len(matched) > n {
		matched = matched[:n]
	}
	return matched, nil
}

func (f *fakeTrendStore) SnapshotsSince(_ context.Context, entityType string, entityID uint64, since time.Time) ([]*model.TrendSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]*model.TrendSnapshot, 0)
	for _, s := range f.snaps {
		if s.EntityType == entityType && s.EntityID == entityID && !s.Timestamp.Before(since) {
			matched = append(matched, s)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Timestamp.Before(matched[j].Timestamp)
	})
	return matched, nil
}

func (f *fakeTrendStore) CountSnapshotsSince(_ context.Context, since time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, s := range f.snaps {
		if !s.Timestamp.Before(since) {
			count++
		}
	}
	return count, nil
}

var _ repository.TrendStore = (*fakeTrendStore)(nil)

type fakeHashtagRepo struct {
	mu    sync.Mutex
	items map[uint64]*model.Hashtag
	seq   uint64
}

func newFakeHashtagRepo() *fakeHashtagRepo {
	return &fakeHashtagRepo{items: make(map[uint64]*model.Hashtag)}
}

func (f *fakeHashtagRepo) UpsertByName(_ context.Context, hashtag *model.Hashtag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Name == hashtag.Name {
			existing.ViewCount = hashtag.ViewCount
			existing.VideoCount = hashtag.VideoCount
			existing.LastUpdatedAt = hashtag.LastUpdatedAt
			return nil
		}
	}
	f.seq++
	hashtag.ID = f.seq
	f.items[hashtag.ID] = hashtag
	return nil
}

func (f *fakeHashtagRepo) GetByID(_ context.Context, id uint64) (*model.Hashtag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeHashtagRepo) ListTracked(_ context.Context) ([]*model.Hashtag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Hashtag, 0, len(f.items))
	for _, h := range f.items {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeHashtagRepo) TopByScore(_ context.Context, limit int) ([]*model.Hashtag, error) {
	out, _ := f.ListTracked(context.Background())
	sort.Slice(out, func(i, j int) bool { return out[i].TrendScore > out[j].TrendScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeHashtagRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

var _ repository.HashtagRepo = (*fakeHashtagRepo)(nil)

type fakeSoundRepo struct {
	mu    sync.Mutex
	items map[uint64]*model.Sound
	seq   uint64
}

func newFakeSoundRepo() *fakeSoundRepo {
	return &fakeSoundRepo{items: make(map[uint64]*model.Sound)}
}

func (f *fakeSoundRepo) UpsertByTikTokID(_ context.Context, sound *model.Sound) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.TikTokID == sound.TikTokID {
			existing.PlayCount = sound.PlayCount
			existing.VideoCount = sound.VideoCount
			existing.LastUpdatedAt = sound.LastUpdatedAt
			return nil
		}
	}
	f.seq++
	sound.ID = f.seq
	f.items[sound.ID] = sound
	return nil
}

func (f *fakeSoundRepo) GetByID(_ context.Context, id uint64) (*model.Sound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeSoundRepo) ListTracked(_ context.Context) ([]*model.Sound, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Sound, 0, len(f.items))
	for _, s := range f.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSoundRepo) TopByScore(_ context.Context, limit int) ([]*model.Sound, error) {
	out, _ := f.ListTracked(context.Background())
	sort.Slice(out, func(i, j int) bool { return out[i].TrendScore > out[j].TrendScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSoundRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

var _ repository.SoundRepo = (*fakeSoundRepo)(nil)

type fakeCreatorRepo struct {
	mu    sync.Mutex
	items map[uint64]*model.Creator
	seq   uint64
}

func newFakeCreatorRepo() *fakeCreatorRepo {
	return &fakeCreatorRepo{items: make(map[uint64]*model.Creator)}
}

func (f *fakeCreatorRepo) UpsertByUsername(_ context.Context, creator *model.Creator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if existing.Username == creator.Username {
			existing.FollowerCount = creator.FollowerCount
			existing.VideoCount = creator.VideoCount
			existing.LastUpdatedAt = creator.LastUpdatedAt
			return nil
		}
	}
	f.seq++
	creator.ID = f.seq
	f.items[creator.ID] = creator
	return nil
}

func (f *fakeCreatorRepo) GetByID(_ context.Context, id uint64) (*model.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeCreatorRepo) ListTracked(_ context.Context) ([]*model.Creator, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.Creator, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCreatorRepo) TopByScore(_ context.Context, limit int) ([]*model.Creator, error) {
	out, _ := f.ListTracked(context.Background())
	sort.Slice(out, func(i, j int) bool { return out[i].TrendScore > out[j].TrendScore })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCreatorRepo) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.items)), nil
}

var _ repository.CreatorRepo = (*fakeCreatorRepo)(nil)

type fakeAlertRuleRepo struct {
	mu    sync.Mutex
	rules map[uint64]*model.AlertRule
	seq   uint64
}

func newFakeAlertRuleRepo() *fakeAlertRuleRepo {
	return &fakeAlertRuleRepo{rules: make(map[uint64]*model.AlertRule)}
}

func (f *fakeAlertRuleRepo) Create(_ context.Context, rule *model.AlertRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	rule.ID = f.seq
	cp := *rule
	f.rules[rule.ID] = &cp
	return nil
}

func (f *fakeAlertRuleRepo) GetByID(_ context.Context, id uint64) (*model.AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[id]
	if !ok {
		return nil, nil
	}
	cp := *rule
	return &cp, nil
}

func (f *fakeAlertRuleRepo) ListByUser(_ context.Context, userID uint64) ([]*model.AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.AlertRule, 0)
	for _, rule := range f.rules {
		if rule.UserID == userID {
			cp := *rule
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlertRuleRepo) ActiveRules(_ context.Context) ([]*model.AlertRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.AlertRule, 0)
	for _, rule := range f.rules {
		if rule.IsActive {
			cp := *rule
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAlertRuleRepo) SetActive(_ context.Context, id uint64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rule, ok := f.rules[id]; ok {
		rule.IsActive = active
	}
	return nil
}

func (f *fakeAlertRuleRepo) UpdateThreshold(_ context.Context, id uint64, threshold float64, cooldownSeconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rule, ok := f.rules[id]; ok {
		rule.Threshold = threshold
		rule.CooldownSeconds = cooldownSeconds
	}
	return nil
}

func (f *fakeAlertRuleRepo) StampTriggered(_ context.Context, id uint64, when time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rule, ok := f.rules[id]; ok {
		rule.LastTriggered = &when
	}
	return nil
}

func (f *fakeAlertRuleRepo) CountActive(_ context.Context) (int64, error) {
	rules, _ := f.ActiveRules(context.Background())
	return int64(len(rules)), nil
}

var _ repository.AlertRuleRepo = (*fakeAlertRuleRepo)(nil)

type fakeFetcher struct {
	mu       sync.Mutex
	counters map[string]*tiktok.EntityCounters // externalID → 返回值
	failFor  map[string]bool
	feed     []tiktok.FeedVideo
	calls    int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		counters: make(map[string]*tiktok.EntityCounters),
		failFor:  make(map[string]bool),
	}
}

func (f *fakeFetcher) fetch(externalID string) (*tiktok.EntityCounters, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failFor[externalID] {
		return nil, errors.New("upstream unavailable")
	}
	counters, ok := f.counters[externalID]
	if !ok {
		return nil, errors.New("unknown entity")
	}
	cp := *counters
	return &cp, nil
}

func (f *fakeFetcher) FetchHashtag(_ context.Context, name string) (*tiktok.EntityCounters, error) {
	return f.fetch(name)
}

func (f *fakeFetcher) FetchSound(_ context.Context, tiktokID string) (*tiktok.EntityCounters, error) {
	return f.fetch(tiktokID)
}

func (f *fakeFetcher) FetchCreator(_ context.Context, username string) (*tiktok.EntityCounters, error) {
	return f.fetch(username)
}

func (f *fakeFetcher) FetchTrendingFeed(_ context.Context) ([]tiktok.FeedVideo, error) {
	return f.feed, nil
}

var _ EntityFetcher = (*fakeFetcher)(nil)

type fakeESRepo struct {
	mu   sync.Mutex
	docs map[string]*es.EntityES
}

func newFakeESRepo() *fakeESRepo {
	return &fakeESRepo{docs: make(map[string]*es.EntityES)}
}

func (f *fakeESRepo) IndexEntity(_ context.Context, doc *es.EntityES) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *doc
	f.docs[cp.EntityType+":"+cp.Name] = &cp
	return nil
}

func (f *fakeESRepo) SearchEntities(_ context.Context, keyword string, entityType string, _ int) ([]*es.EntityES, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*es.EntityES, 0)
	for _, doc := range f.docs {
		if entityType != "" && doc.EntityType != entityType {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

var _ es.TrendRepo = (*fakeESRepo)(nil)
