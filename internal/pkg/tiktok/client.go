package tiktok

import (
	"TrendPulse/internal/api/config"
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/redis"
	"TrendPulse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// Client 上游 TikTok 数据源（RapidAPI）客户端。
// 详情接口带 Redis 短缓存，全部调用记录到 api_usages 表。
type Client struct {
	http      *resty.Client
	usageRepo repository.APIUsageRepo
	region    string
	feedCount int
	cacheTTL  time.Duration
}

func NewClient(cfg config.TikTokConfig, usageRepo repository.APIUsageRepo) *Client {
	client := resty.New().
		SetBaseURL("https://"+cfg.Host).
		SetHeader("X-RapidAPI-Key", cfg.ApiKey).
		SetHeader("X-RapidAPI-Host", cfg.Host).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	c := &Client{
		http:      client,
		usageRepo: usageRepo,
		region:    cfg.Region,
		feedCount: cfg.FeedCount,
		cacheTTL:  time.Duration(cfg.CacheSeconds) * time.Second,
	}

	// 记录每次上游调用的状态与耗时
	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		c.logUsage(resp.Request.Context(), resp.Request.RawRequest.URL.Path, resp.Request.Method,
			resp.StatusCode(), resp.Time())
		return nil
	})
	client.OnError(func(req *resty.Request, err error) {
		c.logUsage(req.Context(), req.URL, req.Method, 500, 0)
	})

	return c
}

func (c *Client) logUsage(ctx context.Context, endpoint, method string, status int, elapsed time.Duration) {
	usage := &model.APIUsage{
		Endpoint:     endpoint,
		Method:       method,
		StatusCode:   status,
		ResponseTime: int(elapsed.Milliseconds()),
		Timestamp:    time.Now(),
	}
	if err := c.usageRepo.Record(ctx, usage); err != nil {
		log.WarnContext(ctx, "record api usage failed", "err", err)
	}
}

// FetchHashtag 抓取话题当前的浏览量与视频数
func (c *Client) FetchHashtag(ctx context.Context, name string) (*EntityCounters, error) {
	cacheKey := consts.TikTokCacheKey + "challenge:" + name
	if counters := c.fromCache(ctx, cacheKey); counters != nil {
		return counters, nil
	}

	var envelope apiEnvelope[challengeInfo]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("challenge_name", name).
		SetResult(&envelope).
		Get("/challenge/info")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || envelope.Code != 0 {
		return nil, fmt.Errorf("challenge info failed: status=%d code=%d msg=%s", resp.StatusCode(), envelope.Code, envelope.Msg)
	}

	counters := &EntityCounters{
		DisplayName:    envelope.Data.Title,
		PrimaryVolume:  envelope.Data.Stats.ViewCount,
		SecondaryCount: envelope.Data.Stats.VideoCount,
	}
	c.toCache(ctx, cacheKey, counters)
	return counters, nil
}

// FetchSound 抓取音乐当前的播放量与视频数
func (c *Client) FetchSound(ctx context.Context, tiktokID string) (*EntityCounters, error) {
	cacheKey := consts.TikTokCacheKey + "music:" + tiktokID
	if counters := c.fromCache(ctx, cacheKey); counters != nil {
		return counters, nil
	}

	var envelope apiEnvelope[musicInfo]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("music_id", tiktokID).
		SetResult(&envelope).
		Get("/music/info")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || envelope.Code != 0 {
		return nil, fmt.Errorf("music info failed: status=%d code=%d msg=%s", resp.StatusCode(), envelope.Code, envelope.Msg)
	}

	counters := &EntityCounters{
		DisplayName:    envelope.Data.Title,
		PrimaryVolume:  envelope.Data.Stats.PlayCount,
		SecondaryCount: envelope.Data.Stats.VideoCount,
	}
	c.toCache(ctx, cacheKey, counters)
	return counters, nil
}

// FetchCreator 抓取创作者当前的粉丝数、视频数与累计获赞
func (c *Client) FetchCreator(ctx context.Context, username string) (*EntityCounters, error) {
	cacheKey := consts.TikTokCacheKey + "user:" + username
	if counters := c.fromCache(ctx, cacheKey); counters != nil {
		return counters, nil
	}

	var envelope apiEnvelope[userInfo]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("unique_id", username).
		SetResult(&envelope).
		Get("/user/info")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || envelope.Code != 0 {
		return nil, fmt.Errorf("user info failed: status=%d code=%d msg=%s", resp.StatusCode(), envelope.Code, envelope.Msg)
	}

	counters := &EntityCounters{
		DisplayName:    envelope.Data.Nickname,
		PrimaryVolume:  envelope.Data.Stats.FollowerCount,
		SecondaryCount: envelope.Data.Stats.VideoCount,
		LikeCount:      envelope.Data.Stats.HeartCount,
	}
	c.toCache(ctx, cacheKey, counters)
	return counters, nil
}

// FetchTrendingFeed 拉取地区热门视频流，用于发现新实体
func (c *Client) FetchTrendingFeed(ctx context.Context) ([]FeedVideo, error) {
	var envelope apiEnvelope[feedData]
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("count", fmt.Sprintf("%d", c.feedCount)).
		SetQueryParam("region", c.region).
		SetResult(&envelope).
		Get("/feed/list")
	if err != nil {
		return nil, err
	}
	if resp.IsError() || envelope.Code != 0 {
		return nil, fmt.Errorf("feed list failed: status=%d code=%d msg=%s", resp.StatusCode(), envelope.Code, envelope.Msg)
	}

	return envelope.Data.Videos, nil
}

func (c *Client) fromCache(ctx context.Context, key string) *EntityCounters {
	if c.cacheTTL <= 0 {
		return nil
	}
	val, err := redis.GetValue(ctx, key)
	if err != nil || val == "" {
		return nil
	}
	var counters EntityCounters
	if err := json.Unmarshal([]byte(val), &counters); err != nil {
		return nil
	}
	return &counters
}

func (c *Client) toCache(ctx context.Context, key string, counters *EntityCounters) {
	if c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(counters)
	if err != nil {
		return
	}
	_ = redis.SetWithExpiration(ctx, key, string(data), c.cacheTTL)
}
