package trend

import (
	"math"
	"sort"
	"time"
)

// Point 一条带时间戳的计数观测值
type Point struct {
	Value     float64
	Timestamp time.Time
}

// GrowthRate 计算相邻两次观测之间的增长率（百分比）。
// previous 为 0 时无法求比值：有新增记为 100，否则记为 0。
// 结果不做截断，下跌为负数，爆发时可以远超 1000。
func GrowthRate(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// Velocity 计算一组观测点的平均每小时变化速率。
// 少于 2 个点返回 0；时间戳相同的相邻点对无法求速率，直接跳过不计入均值。
func Velocity(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var total float64
	intervals := 0
	for i := 1; i < len(sorted); i++ {
		hours := sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Hours()
		if hours == 0 {
			continue
		}
		total += (sorted[i].Value - sorted[i-1].Value) / hours
		intervals++
	}

	if intervals == 0 {
		return 0
	}
	return total / float64(intervals)
}

// EngagementRate 计算互动率：(点赞+评论+分享)/播放 * 100
func EngagementRate(likes, comments, shares, views int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments+shares) / float64(views) * 100
}

// subScore 按上限归一化后乘权重，负输入直接落到 0，不允许扣减总分
func subScore(value, cap, weight float64) float64 {
	ratio := value / cap
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio * weight
}

// TrendScore 计算实体级综合热度分，范围 [0, 100]。
// 五个子分各自封顶：浏览量(对数) 20 分、增长率 30 分、速率 25 分、互动 15 分、时效 10 分。
func TrendScore(viewCount int64, growthRate, velocity, engagementRate, timeDecay float64) int {
	var viewScore float64
	if viewCount > 0 {
		viewScore = subScore(math.Log10(float64(viewCount)+1), 10, 20)
	}

	growthScore := subScore(growthRate, 10, 30)
	velocityScore := subScore(velocity, 5, 25)
	engagementScore := subScore(engagementRate, 20, 15)
	decayScore := subScore(timeDecay, 1, 10)

	total := math.Round(viewScore + growthScore + velocityScore + engagementScore + decayScore)
	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return int(total)
}

// ViralScore 计算单条内容的病毒传播分，范围 [0, 100]。
// 与 TrendScore 的区别：面向单个视频而非聚合实体，
// 权重为 每小时播放 40 / 互动率 30 / 分享率 20 / 时效衰减 10，衰减半衰常数 48 小时。
func ViralScore(viewCount, likeCount, shareCount, commentCount int64, createdAt, now time.Time) int {
	ageHours := now.Sub(createdAt).Hours()

	viewsPerHour := float64(viewCount) / math.Max(ageHours, 1)

	engagementRate := EngagementRate(likeCount, commentCount, shareCount, viewCount)

	var shareRate float64
	if viewCount > 0 {
		shareRate = float64(shareCount) / float64(viewCount) * 100
	}

	timeDecay := math.Exp(-ageHours / 48)

	score := subScore(math.Log10(viewsPerHour+1), 6, 40) +
		subScore(engagementRate, 10, 30) +
		subScore(shareRate, 5, 20) +
		timeDecay*10

	rounded := math.Round(score)
	if rounded > 100 {
		return 100
	}
	if rounded < 0 {
		return 0
	}
	return int(rounded)
}

// Momentum 计算近期均分相对历史均分的偏移（百分比）
func Momentum(recentScores []float64, historicalAverage float64) float64 {
	if len(recentScores) == 0 || historicalAverage == 0 {
		return 0
	}

	var sum float64
	for _, s := range recentScores {
		sum += s
	}
	recentAverage := sum / float64(len(recentScores))

	return (recentAverage - historicalAverage) / historicalAverage * 100
}
