// Package assembler builds the EditList from scored groups and lets the
// caller override a group's chosen take afterwards (spec.md §4.G).
package assembler

import (
	"math"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// Assembler owns the current group set and suggested playback order.
type Assembler struct {
	groups         []*model.Group
	byGroupID      map[int]*model.Group
	suggestedOrder []int
	totalDuration  float64 // source media duration (spec.md §3 EditList.total_duration)
}

// New builds an assembler over the scored groups and the oracle's
// suggested group order. sourceDuration is the probed total duration of
// the source media, carried verbatim into every EditList.TotalDuration
// (spec.md §3: "total_duration = source media duration").
func New(groups []*model.Group, suggestedOrder []int, sourceDuration float64) *Assembler {
	byID := make(map[int]*model.Group, len(groups))
	for _, g := range groups {
		byID[g.GroupID] = g
	}
	return &Assembler{groups: groups, byGroupID: byID, suggestedOrder: suggestedOrder, totalDuration: sourceDuration}
}

// SelectTake overrides which take in groupID is the chosen one. It is a
// no-op returning false when groupID or segmentIndex does not name a
// real take, and idempotent when re-applied with the same selection
// (spec.md §4.G).
func (a *Assembler) SelectTake(groupID, segmentIndex int) bool {
	g, ok := a.byGroupID[groupID]
	if !ok {
		return false
	}
	var chosen *model.Segment
	for _, t := range g.Takes {
		if t.Index == segmentIndex {
			chosen = t
			break
		}
	}
	if chosen == nil {
		return false
	}
	for _, t := range g.Takes {
		t.IsBest = (t == chosen)
	}
	return true
}

// Build computes the current EditList from the groups' chosen takes in
// suggested-order, rounding all timeline positions to three decimal
// places (spec.md §8 invariant).
func (a *Assembler) Build() *model.EditList {
	order := a.suggestedOrder
	if len(order) == 0 {
		order = make([]int, len(a.groups))
		for i, g := range a.groups {
			order[i] = g.GroupID
		}
	}

	var bestTakes []*model.Segment
	var timeline []model.TimelineEntry
	cursor := 0.0

	for _, groupID := range order {
		g, ok := a.byGroupID[groupID]
		if !ok {
			continue
		}
		best := g.BestSegment()
		if best == nil {
			continue
		}
		bestTakes = append(bestTakes, best)

		entryStart := round3(cursor)
		cursor += best.Duration
		entryEnd := round3(cursor)

		timeline = append(timeline, model.TimelineEntry{
			GroupID:       groupID,
			Segment:       best,
			SourceStart:   round3(best.Start),
			SourceEnd:     round3(best.End),
			TimelineStart: entryStart,
			TimelineEnd:   entryEnd,
		})
	}

	return &model.EditList{
		SuggestedOrder: order,
		BestTakes:      bestTakes,
		Timeline:       timeline,
		FinalDuration:  round3(cursor),
		TotalDuration:  round3(a.totalDuration),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
