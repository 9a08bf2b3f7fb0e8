package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGrowthRate(t *testing.T) {
	t.Run("zero previous", func(t *testing.T) {
		assert.Equal(t, float64(100), GrowthRate(42, 0))
		assert.Equal(t, float64(0), GrowthRate(0, 0))
	})

	t.Run("relative change", func(t *testing.T) {
		assert.InDelta(t, 50, GrowthRate(150, 100), 1e-9)
		assert.InDelta(t, -25, GrowthRate(75, 100), 1e-9)
	})

	t.Run("viral spike exceeds 1000", func(t *testing.T) {
		assert.InDelta(t, 9900, GrowthRate(10000, 100), 1e-9)
	})

	t.Run("large counters keep sign and magnitude", func(t *testing.T) {
		prev := int64(1_000_000_000_000)
		cur := int64(1_100_000_000_000)
		assert.InDelta(t, 10, GrowthRate(cur, prev), 1e-6)
	})
}

func TestVelocity(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("insufficient points", func(t *testing.T) {
		assert.Equal(t, float64(0), Velocity(nil))
		assert.Equal(t, float64(0), Velocity([]Point{{Value: 100, Timestamp: base}}))
	})

	t.Run("two points one hour apart", func(t *testing.T) {
		points := []Point{
			{Value: 100, Timestamp: base},
			{Value: 150, Timestamp: base.Add(time.Hour)},
		}
		assert.InDelta(t, 50, Velocity(points), 1e-9)
	})

	t.Run("unsorted input is sorted by timestamp", func(t *testing.T) {
		points := []Point{
			{Value: 150, Timestamp: base.Add(time.Hour)},
			{Value: 100, Timestamp: base},
			{Value: 250, Timestamp: base.Add(2 * time.Hour)},
		}
		// 两段速率均为 50 和 100，均值 75
		assert.InDelta(t, 75, Velocity(points), 1e-9)
	})

	t.Run("coincident timestamps are skipped", func(t *testing.T) {
		points := []Point{
			{Value: 100, Timestamp: base},
			{Value: 120, Timestamp: base},
			{Value: 170, Timestamp: base.Add(time.Hour)},
		}
		v := Velocity(points)
		assert.False(t, v != v, "velocity must not be NaN")
		assert.InDelta(t, 50, v, 1e-9)
	})

	t.Run("all coincident returns zero", func(t *testing.T) {
		points := []Point{
			{Value: 100, Timestamp: base},
			{Value: 200, Timestamp: base},
		}
		assert.Equal(t, float64(0), Velocity(points))
	})
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, float64(0), EngagementRate(10, 5, 5, 0))
	assert.InDelta(t, 20, EngagementRate(100, 50, 50, 1000), 1e-9)
}

func TestTrendScore(t *testing.T) {
	t.Run("bounded for extreme inputs", func(t *testing.T) {
		score := TrendScore(1_000_000_000_000_000, 1_000_000, 1_000_000, 1_000_000, 1)
		assert.LessOrEqual(t, score, 100)
		assert.GreaterOrEqual(t, score, 0)
	})

	t.Run("zero inputs", func(t *testing.T) {
		assert.Equal(t, 10, TrendScore(0, 0, 0, 0, 1))
		assert.Equal(t, 0, TrendScore(0, 0, 0, 0, 0))
	})

	t.Run("negative growth never subtracts", func(t *testing.T) {
		withNegative := TrendScore(1000, -50, -10, 0, 1)
		withoutGrowth := TrendScore(1000, 0, 0, 0, 1)
		assert.Equal(t, withoutGrowth, withNegative)
	})

	t.Run("monotone in each input", func(t *testing.T) {
		base := TrendScore(10_000, 5, 2, 10, 0.5)
		assert.GreaterOrEqual(t, TrendScore(100_000, 5, 2, 10, 0.5), base)
		assert.GreaterOrEqual(t, TrendScore(10_000, 8, 2, 10, 0.5), base)
		assert.GreaterOrEqual(t, TrendScore(10_000, 5, 4, 10, 0.5), base)
		assert.GreaterOrEqual(t, TrendScore(10_000, 5, 2, 15, 0.5), base)
		assert.GreaterOrEqual(t, TrendScore(10_000, 5, 2, 10, 1), base)
	})

	t.Run("saturated inputs reach full score", func(t *testing.T) {
		assert.Equal(t, 100, TrendScore(10_000_000_000, 100, 100, 100, 1))
	})
}

func TestViralScore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("bounded", func(t *testing.T) {
		score := ViralScore(1_000_000_000, 100_000_000, 50_000_000, 10_000_000, now.Add(-time.Hour), now)
		assert.LessOrEqual(t, score, 100)
		assert.GreaterOrEqual(t, score, 0)
	})

	t.Run("fresh content scores higher than stale", func(t *testing.T) {
		fresh := ViralScore(100_000, 10_000, 5_000, 2_000, now.Add(-2*time.Hour), now)
		stale := ViralScore(100_000, 10_000, 5_000, 2_000, now.Add(-200*time.Hour), now)
		assert.Greater(t, fresh, stale)
	})

	t.Run("zero views", func(t *testing.T) {
		score := ViralScore(0, 0, 0, 0, now.Add(-time.Hour), now)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	})
}

func TestMomentum(t *testing.T) {
	assert.Equal(t, float64(0), Momentum(nil, 50))
	assert.Equal(t, float64(0), Momentum([]float64{60}, 0))
	assert.InDelta(t, 20, Momentum([]float64{55, 65}, 50), 1e-9)
	assert.InDelta(t, -20, Momentum([]float64{40}, 50), 1e-9)
}
