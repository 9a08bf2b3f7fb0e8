package job

import (
	"TrendPulse/internal/pkg/consts"
	redispkg "TrendPulse/internal/pkg/redis"
	"TrendPulse/internal/service"
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// lockStateStub 把 SetNX / Eval 短路成内存状态，让任务测试不依赖真实 Redis
type lockStateStub struct {
	mu   sync.Mutex
	held bool
}

func (h *lockStateStub) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *lockStateStub) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		switch c := cmd.(type) {
		case *redis.BoolCmd:
			h.mu.Lock()
			acquired := !h.held
			h.held = true
			h.mu.Unlock()
			c.SetVal(acquired)
			return nil
		case *redis.Cmd:
			h.mu.Lock()
			h.held = false
			h.mu.Unlock()
			c.SetVal(int64(1))
			return nil
		}
		return next(ctx, cmd)
	}
}

func (h *lockStateStub) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func stubJobLock(t *testing.T, stub *lockStateStub) {
	t.Helper()
	prev := redispkg.Rdb
	redispkg.Rdb = redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	redispkg.Rdb.AddHook(stub)
	t.Cleanup(func() { redispkg.Rdb = prev })
}

type stubIngestService struct {
	mu        sync.Mutex
	discovers int
	cycles    []string
}

func (s *stubIngestService) IngestCycle(ctx context.Context, entityType string) (*service.CycleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles = append(s.cycles, entityType)
	return &service.CycleResult{Processed: 1}, nil
}

func (s *stubIngestService) RefreshEntity(ctx context.Context, entityType string, entityID uint64) error {
	return nil
}

func (s *stubIngestService) DiscoverFeed(ctx context.Context) (*service.CycleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovers++
	return &service.CycleResult{}, nil
}

func TestFetchTrendsJobRunsCycleWhenLockFree(t *testing.T) {
	stub := &lockStateStub{}
	stubJobLock(t, stub)

	ingestSvc := &stubIngestService{}
	j := NewFetchTrendsJob(ingestSvc)

	j.RunWithContext(context.Background())

	assert.Equal(t, 1, ingestSvc.discovers)
	assert.Equal(t, []string{
		consts.EntityTypeHashtag,
		consts.EntityTypeSound,
		consts.EntityTypeCreator,
	}, ingestSvc.cycles)
	// 跑完后锁应已释放
	assert.False(t, stub.held)
}

func TestFetchTrendsJobSkipsWhenLockHeld(t *testing.T) {
	stub := &lockStateStub{held: true}
	stubJobLock(t, stub)

	ingestSvc := &stubIngestService{}
	j := NewFetchTrendsJob(ingestSvc)

	j.RunWithContext(context.Background())

	assert.Zero(t, ingestSvc.discovers)
	assert.Empty(t, ingestSvc.cycles)
}

func TestFetchTrendsJobReleasesLockForNextRun(t *testing.T) {
	stub := &lockStateStub{}
	stubJobLock(t, stub)

	ingestSvc := &stubIngestService{}
	j := NewFetchTrendsJob(ingestSvc)

	j.RunWithContext(context.Background())
	j.RunWithContext(context.Background())

	assert.Equal(t, 2, ingestSvc.discovers)
}
