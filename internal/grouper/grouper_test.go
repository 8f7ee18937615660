package grouper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

func seg(index int, text string) *model.Segment {
	return &model.Segment{Index: index, Transcription: model.Transcription{Text: text}}
}

func TestGroup_ClustersSimilarTakes(t *testing.T) {
	segments := []*model.Segment{
		seg(0, "the quick brown fox jumps over the lazy dog"),
		seg(1, "the quick brown fox jumped over the lazy dog"),
		seg(2, "completely unrelated sentence about weather patterns"),
	}

	groups := Group(segments, 0.60)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0].Takes, 2)
	assert.Len(t, groups[1].Takes, 1)
}

func TestGroup_TextSummaryPicksLongestWithEarliestTiebreak(t *testing.T) {
	segments := []*model.Segment{
		seg(0, "hello world"),
		seg(1, "hello world"),
	}
	groups := Group(segments, 0.60)
	require.Len(t, groups, 1)
	assert.Equal(t, "hello world", groups[0].TextSummary)
	assert.Same(t, segments[0], groups[0].Takes[0])
}

func TestGroup_EachSegmentAlone(t *testing.T) {
	segments := []*model.Segment{
		seg(0, "aaaaaaaaaa"),
		seg(1, "zzzzzzzzzz"),
	}
	groups := Group(segments, 0.90)
	assert.Len(t, groups, 2)
}

func TestSimilarity_IdenticalStringsIsOne(t *testing.T) {
	assert.Equal(t, 1.0, similarity("same text", "same text"))
	assert.Equal(t, 1.0, similarity("", ""))
}
