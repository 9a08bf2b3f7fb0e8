package trend

import (
	"sort"
	"time"
)

// Stage 趋势生命周期阶段
type Stage string

const (
	StageEmerging  Stage = "emerging"
	StageGrowing   Stage = "growing"
	StagePeak      Stage = "peak"
	StageDeclining Stage = "declining"
	StageStable    Stage = "stable"
)

// ScorePoint 一条带时间戳的热度分记录
type ScorePoint struct {
	Timestamp time.Time
	Score     float64
}

// ClassifyLifecycle 根据最近的热度分走势判断生命周期阶段。
// 取最近 5 个点，统计相邻点之间的严格上升/下降次数以及窗口均值和方差，
// 按以下顺序匹配，先命中者生效：
//  1. 连涨且均分不足 50 → emerging
//  2. 连涨且均分达到 50 → growing
//  3. 均分 80 以上且方差小 → peak
//  4. 连跌 → declining
//  5. 其余 → stable
//
// 历史少于 3 个点时一律视为 emerging。
func ClassifyLifecycle(history []ScorePoint) Stage {
	if len(history) < 3 {
		return StageEmerging
	}

	sorted := make([]ScorePoint, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if len(sorted) > 5 {
		sorted = sorted[len(sorted)-5:]
	}

	increases := 0
	decreases := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			increases++
		} else if sorted[i].Score < sorted[i-1].Score {
			decreases++
		}
	}

	var sum float64
	for _, p := range sorted {
		sum += p.Score
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, p := range sorted {
		diff := p.Score - mean
		variance += diff * diff
	}
	variance /= float64(len(sorted))

	switch {
	case increases >= 3 && mean < 50:
		return StageEmerging
	case increases >= 3 && mean >= 50:
		return StageGrowing
	case mean >= 80 && variance < 50:
		return StagePeak
	case decreases >= 3:
		return StageDeclining
	default:
		return StageStable
	}
}
