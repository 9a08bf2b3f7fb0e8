package consts

const (
	TikTokCacheKey     = "tiktok:cache:"
	TrendTopKey        = "trend:top:"
	TrendChartKey      = "trend:chart:"
	TrendStatsKey      = "trend:stats"
	NotifyChannelKey   = "notify:user:"
	ContentIdeasKey    = "ai:content:ideas"
	TrendPredictionKey = "ai:predict:"
)

const (
	IngestCycleLock = "lock:ingest:cycle"
	AlertCycleLock  = "lock:alert:cycle"
	DigestDailyLock = "lock:digest:daily"
)
