package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

func groupWithBest(groupID int, bestIndex int, segs ...*model.Segment) *model.Group {
	for _, s := range segs {
		s.IsBest = s.Index == bestIndex
	}
	return &model.Group{GroupID: groupID, Takes: segs}
}

func TestBuild_OrdersBySuggestedOrderAndAccumulatesTimeline(t *testing.T) {
	g0 := groupWithBest(0, 0, &model.Segment{Index: 0, Start: 1.0, End: 3.5, Duration: 2.5})
	g1 := groupWithBest(1, 1, &model.Segment{Index: 1, Start: 5.0, End: 6.2, Duration: 1.2})

	a := New([]*model.Group{g0, g1}, []int{1, 0}, 10.0)
	edit := a.Build()

	require.Len(t, edit.Timeline, 2)
	assert.Equal(t, 1, edit.Timeline[0].GroupID)
	assert.InDelta(t, 0.0, edit.Timeline[0].TimelineStart, 1e-9)
	assert.InDelta(t, 1.2, edit.Timeline[0].TimelineEnd, 1e-9)

	assert.Equal(t, 0, edit.Timeline[1].GroupID)
	assert.InDelta(t, 1.2, edit.Timeline[1].TimelineStart, 1e-9)
	assert.InDelta(t, 3.7, edit.Timeline[1].TimelineEnd, 1e-9)

	assert.InDelta(t, 3.7, edit.FinalDuration, 1e-9)
}

func TestSelectTake_OverridesAndIsIdempotent(t *testing.T) {
	seg0 := &model.Segment{Index: 0, Duration: 1.0, IsBest: true}
	seg1 := &model.Segment{Index: 1, Duration: 1.0}
	g := &model.Group{GroupID: 0, Takes: []*model.Segment{seg0, seg1}}

	a := New([]*model.Group{g}, []int{0}, 10.0)

	require.True(t, a.SelectTake(0, 1))
	assert.False(t, seg0.IsBest)
	assert.True(t, seg1.IsBest)

	require.True(t, a.SelectTake(0, 1))
	assert.True(t, seg1.IsBest)
}

func TestSelectTake_NoOpOnInvalidGroupOrSegment(t *testing.T) {
	seg0 := &model.Segment{Index: 0, Duration: 1.0, IsBest: true}
	g := &model.Group{GroupID: 0, Takes: []*model.Segment{seg0}}
	a := New([]*model.Group{g}, []int{0}, 10.0)

	assert.False(t, a.SelectTake(99, 0))
	assert.False(t, a.SelectTake(0, 99))
	assert.True(t, seg0.IsBest)
}
