package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/tiktok"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ingestFixture struct {
	hashtagRepo *fakeHashtagRepo
	soundRepo   *fakeSoundRepo
	creatorRepo *fakeCreatorRepo
	store       *fakeTrendStore
	esRepo      *fakeESRepo
	fetcher     *fakeFetcher
	svc         IngestService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	f := &ingestFixture{
		hashtagRepo: newFakeHashtagRepo(),
		soundRepo:   newFakeSoundRepo(),
		creatorRepo: newFakeCreatorRepo(),
		store:       &fakeTrendStore{},
		esRepo:      newFakeESRepo(),
		fetcher:     newFakeFetcher(),
	}
	f.svc = NewIngestService(
		f.hashtagRepo, f.soundRepo, f.creatorRepo,
		f.store, f.esRepo, f.fetcher,
		2, 5*time.Second, 24*time.Hour,
	)
	return f
}

func (f *ingestFixture) trackHashtag(t *testing.T, name string, counters *tiktok.EntityCounters) *model.Hashtag {
	t.Helper()
	h := &model.Hashtag{Name: name, DisplayName: name}
	require.NoError(t, f.hashtagRepo.UpsertByName(context.Background(), h))
	if counters != nil {
		f.fetcher.counters[name] = counters
	}
	return h
}

func TestIngestCycleFirstSnapshotHasZeroGrowth(t *testing.T) {
	f := newIngestFixture(t)
	h := f.trackHashtag(t, "brandnew", &tiktok.EntityCounters{PrimaryVolume: 5000, SecondaryCount: 12})

	result, err := f.svc.IngestCycle(context.Background(), consts.EntityTypeHashtag)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Failed)

	snaps, err := f.store.LatestSnapshots(context.Background(), consts.EntityTypeHashtag, h.ID, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(5000), snaps[0].VolumeCount)
	assert.Equal(t, 12, snaps[0].VideoCount)
	assert.Zero(t, snaps[0].GrowthRate)
}

func TestIngestCycleComputesGrowthAgainstLatestSnapshot(t *testing.T) {
	f := newIngestFixture(t)
	h := f.trackHashtag(t, "dance", &tiktok.EntityCounters{PrimaryVolume: 1500})

	require.NoError(t, f.store.AppendObservation(context.Background(), &model.TrendSnapshot{
		EntityType:  consts.EntityTypeHashtag,
		EntityID:    h.ID,
		VolumeCount: 1000,
		Timestamp:   time.Now().Add(-time.Hour),
	}))

	result, err := f.svc.IngestCycle(context.Background(), consts.EntityTypeHashtag)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	snaps, err := f.store.LatestSnapshots(context.Background(), consts.EntityTypeHashtag, h.ID, 1)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.InDelta(t, 50.0, snaps[0].GrowthRate, 1e-9)
	assert.GreaterOrEqual(t, snaps[0].TrendScore, 0)
	assert.LessOrEqual(t, snaps[0].TrendScore, 100)
}

// 单个实体抓取失败不影响其余实体
func TestIngestCycleFetchFailureIsNonFatal(t *testing.T) {
	f := newIngestFixture(t)
	ok := f.trackHashtag(t, "healthy", &tiktok.EntityCounters{PrimaryVolume: 100})
	f.trackHashtag(t, "broken", nil)
	f.fetcher.failFor["broken"] = true

	result, err := f.svc.IngestCycle(context.Background(), consts.EntityTypeHashtag)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)

	snaps, err := f.store.LatestSnapshots(context.Background(), consts.EntityTypeHashtag, ok.ID, 10)
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestIngestCycleRejectsUnknownEntityType(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.svc.IngestCycle(context.Background(), "video")
	assert.ErrorIs(t, err, ErrEntityTypeInvalid)
}

func TestIngestCycleCancelledContext(t *testing.T) {
	f := newIngestFixture(t)
	f.trackHashtag(t, "one", &tiktok.EntityCounters{PrimaryVolume: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.IngestCycle(ctx, consts.EntityTypeHashtag)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngestCycleIndexesEntity(t *testing.T) {
	f := newIngestFixture(t)
	f.trackHashtag(t, "indexed", &tiktok.EntityCounters{DisplayName: "Indexed", PrimaryVolume: 9000})

	_, err := f.svc.IngestCycle(context.Background(), consts.EntityTypeHashtag)
	require.NoError(t, err)

	docs, err := f.esRepo.SearchEntities(context.Background(), "indexed", consts.EntityTypeHashtag, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Indexed", docs[0].DisplayName)
	assert.Equal(t, int64(9000), docs[0].VolumeCount)
}

func TestRefreshEntity(t *testing.T) {
	f := newIngestFixture(t)
	h := f.trackHashtag(t, "single", &tiktok.EntityCounters{PrimaryVolume: 777})

	require.NoError(t, f.svc.RefreshEntity(context.Background(), consts.EntityTypeHashtag, h.ID))

	snaps, err := f.store.LatestSnapshots(context.Background(), consts.EntityTypeHashtag, h.ID, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(777), snaps[0].VolumeCount)
}

func TestRefreshEntityUnknown(t *testing.T) {
	f := newIngestFixture(t)

	err := f.svc.RefreshEntity(context.Background(), consts.EntityTypeHashtag, 404)
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestDiscoverFeedRegistersEntities(t *testing.T) {
	f := newIngestFixture(t)
	f.fetcher.feed = []tiktok.FeedVideo{
		{
			ID:        "v1",
			Title:     "dance compilation",
			PlayCount: 120000,
			TextExtra: []tiktok.TextExtra{{HashtagName: "DanceChallenge"}},
			Music:     &tiktok.FeedMusic{ID: "m1", Title: "viral beat", AuthorName: "dj", PlayCount: 500000},
			Author:    &tiktok.FeedAuthor{UniqueID: "creator1", Nickname: "Creator One", FollowerCount: 42000, VideoCount: 310},
		},
		{
			ID:        "v2",
			Title:     "another one",
			PlayCount: 80000,
			TextExtra: []tiktok.TextExtra{{HashtagName: "dancechallenge"}},
		},
	}

	result, err := f.svc.DiscoverFeed(context.Background())
	require.NoError(t, err)
	// 去重后：1 个话题 + 1 个音乐 + 1 位创作者
	assert.Equal(t, 3, result.Processed)
	assert.Zero(t, result.Failed)

	hashtags, err := f.hashtagRepo.ListTracked(context.Background())
	require.NoError(t, err)
	require.Len(t, hashtags, 1)
	assert.Equal(t, "dancechallenge", hashtags[0].Name)
	assert.Equal(t, int64(200000), hashtags[0].ViewCount)
	assert.Equal(t, 2, hashtags[0].VideoCount)

	sounds, err := f.soundRepo.ListTracked(context.Background())
	require.NoError(t, err)
	require.Len(t, sounds, 1)
	assert.Equal(t, "m1", sounds[0].TikTokID)

	creators, err := f.creatorRepo.ListTracked(context.Background())
	require.NoError(t, err)
	require.Len(t, creators, 1)
	assert.Equal(t, "creator1", creators[0].Username)
	assert.Equal(t, int64(42000), creators[0].FollowerCount)
}
