// Package scoring calls the AI oracle and applies its verdict to each
// group's takes (spec.md §4.F).
package scoring

import (
	"context"

	"github.com/alexstoesslein/silence-cutter/internal/clients"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// Score sends every group to the oracle and writes AIScores and IsBest
// back onto the segments.
func Score(ctx context.Context, oracle *clients.OracleClient, groups []*model.Group) ([]int, error) {
	resp, err := oracle.Score(ctx, groups)
	if err != nil {
		return nil, err
	}

	byGroupID := make(map[int]*model.Group, len(groups))
	for _, g := range groups {
		byGroupID[g.GroupID] = g
	}

	for _, gv := range resp.Groups {
		g, ok := byGroupID[gv.GroupID]
		if !ok {
			continue
		}
		applyScores(g, gv.Scores)
		applyBestTake(g, gv.BestTakeIndex)
	}

	return resp.SuggestedOrder, nil
}

func applyScores(g *model.Group, scores []clients.OracleTakeScore) {
	byIndex := make(map[int]clients.OracleTakeScore, len(scores))
	for _, s := range scores {
		byIndex[s.Index] = s
	}
	for _, t := range g.Takes {
		if s, ok := byIndex[t.Index]; ok {
			t.AIScores = &model.AIScores{
				AudioQuality: s.AudioQuality,
				Content:      s.Content,
				Emotion:      s.Emotion,
				Overall:      s.Overall,
				Comment:      s.Comment,
			}
		}
	}
}

// applyBestTake interprets bestTakeIndex as a position within the
// group's Takes slice. When it falls outside that range, it is
// reinterpreted as a global segment index instead of being rejected —
// the out-of-range value is still honored if it names a real segment in
// the group, and only falls back to the first take if it names nothing.
func applyBestTake(g *model.Group, bestTakeIndex int) {
	var chosen *model.Segment

	if bestTakeIndex >= 0 && bestTakeIndex < len(g.Takes) {
		chosen = g.Takes[bestTakeIndex]
	} else {
		for _, t := range g.Takes {
			if t.Index == bestTakeIndex {
				chosen = t
				break
			}
		}
		if chosen == nil && len(g.Takes) > 0 {
			chosen = g.Takes[0]
		}
	}

	for _, t := range g.Takes {
		t.IsBest = (t == chosen)
	}
}
