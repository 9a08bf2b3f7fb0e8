package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scoreHistory(base time.Time, scores ...float64) []ScorePoint {
	points := make([]ScorePoint, len(scores))
	for i, s := range scores {
		points[i] = ScorePoint{Timestamp: base.Add(time.Duration(i) * time.Hour), Score: s}
	}
	return points
}

func TestClassifyLifecycle(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		scores []float64
		want   Stage
	}{
		{"too little history", []float64{10, 20}, StageEmerging},
		{"rising below fifty", []float64{10, 20, 30, 40, 50}, StageEmerging},
		{"rising above fifty", []float64{60, 70, 80, 85, 90}, StageGrowing},
		{"flat high plateau", []float64{82, 80, 81, 80, 82}, StagePeak},
		{"steady decline", []float64{90, 75, 60, 45, 30}, StageDeclining},
		{"noisy middle", []float64{50, 60, 40, 55, 45}, StageStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLifecycle(scoreHistory(base, tt.scores...)))
		})
	}
}

func TestClassifyLifecycleWindow(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 只看最近 5 个点：前面的高分历史不影响当前连跌的判断
	history := scoreHistory(base, 10, 10, 10, 90, 75, 60, 45, 30)
	assert.Equal(t, StageDeclining, ClassifyLifecycle(history))

	// 输入乱序也按时间重新排序后分类
	shuffled := []ScorePoint{
		{Timestamp: base.Add(4 * time.Hour), Score: 90},
		{Timestamp: base, Score: 60},
		{Timestamp: base.Add(2 * time.Hour), Score: 80},
		{Timestamp: base.Add(time.Hour), Score: 70},
		{Timestamp: base.Add(3 * time.Hour), Score: 85},
	}
	assert.Equal(t, StageGrowing, ClassifyLifecycle(shuffled))
}
