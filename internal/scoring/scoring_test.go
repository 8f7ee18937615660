package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/clients"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

func TestApplyBestTake_InRangePositionWins(t *testing.T) {
	g := &model.Group{Takes: []*model.Segment{
		{Index: 4}, {Index: 7}, {Index: 9},
	}}
	applyBestTake(g, 1)
	assert.False(t, g.Takes[0].IsBest)
	assert.True(t, g.Takes[1].IsBest)
	assert.False(t, g.Takes[2].IsBest)
}

func TestApplyBestTake_OutOfRangeFallsBackToGlobalSegmentIndex(t *testing.T) {
	g := &model.Group{Takes: []*model.Segment{
		{Index: 4}, {Index: 7}, {Index: 9},
	}}
	applyBestTake(g, 9) // out of [0,3), but names segment index 9 in this group
	require.True(t, g.Takes[2].IsBest)
}

func TestApplyBestTake_UnresolvableFallsBackToFirstTake(t *testing.T) {
	g := &model.Group{Takes: []*model.Segment{
		{Index: 4}, {Index: 7},
	}}
	applyBestTake(g, 99)
	assert.True(t, g.Takes[0].IsBest)
}

func TestApplyScores_MapsByGlobalIndex(t *testing.T) {
	g := &model.Group{Takes: []*model.Segment{{Index: 2}, {Index: 5}}}
	applyScores(g, []clients.OracleTakeScore{
		{Index: 5, Overall: 9.0, Comment: "great energy"},
	})
	assert.Nil(t, g.Takes[0].AIScores)
	require.NotNil(t, g.Takes[1].AIScores)
	assert.Equal(t, 9.0, g.Takes[1].AIScores.Overall)
}
