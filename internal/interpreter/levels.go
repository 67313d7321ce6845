package interpreter

import "smc-analyzer/internal/dto"

// EnumerateLevels keeps the service's ranking and numbers entries from 1.
func EnumerateLevels(levels []dto.ReactionLevel) []LevelView {
	out := make([]LevelView, 0, len(levels))
	for idx, level := range levels {
		out = append(out, LevelView{
			Rank:         idx + 1,
			Action:       level.Action,
			Price:        level.Price,
			Confidence:   level.Confidence,
			DistancePips: level.DistancePips,
			Freshness:    level.Freshness,
			Reason:       level.Reason,
			Separator:    idx < len(levels)-1,
		})
	}
	return out
}
