package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

func sampleEdit() *model.EditList {
	seg0 := &model.Segment{Index: 0, Start: 1.0, End: 3.5, Duration: 2.5}
	return &model.EditList{
		SuggestedOrder: []int{0},
		BestTakes:      []*model.Segment{seg0},
		Timeline: []model.TimelineEntry{
			{GroupID: 0, Segment: seg0, SourceStart: 1.0, SourceEnd: 3.5, TimelineStart: 0, TimelineEnd: 2.5},
		},
		FinalDuration: 2.5,
		TotalDuration: 2.5,
	}
}

func TestWriteXMEML_OmitsVideoTrackWhenAudioOnly(t *testing.T) {
	xml := WriteXMEML(sampleEdit(), "source.mp3", 25, false)
	assert.NotContains(t, xml, "<video>")
	assert.Contains(t, xml, "<audio>")
	assert.Contains(t, xml, "file-1")
}

func TestWriteXMEML_IncludesVideoTrackWhenVideo(t *testing.T) {
	xml := WriteXMEML(sampleEdit(), "source.mp4", 25, true)
	assert.Contains(t, xml, "<video>")
	assert.Equal(t, 1, strings.Count(xml, "<pathurl>")) // file defined once, shared by reference elsewhere
}

func TestWriteEDL_FormatsTimecodes(t *testing.T) {
	edl := WriteEDL(sampleEdit(), "silencecutter cut", "source.mp4", 25, true)
	assert.Contains(t, edl, "00:00:01:00 00:00:03:12 00:00:00:00 00:00:02:12")
	assert.Contains(t, edl, "001  AX       V")
	assert.Contains(t, edl, "* FROM CLIP NAME: source.mp4")
	assert.Contains(t, edl, "* COMMENT: Take 1 | Score: N/A | ")
}

func TestWriteReport_IncludesGroupsAndEditList(t *testing.T) {
	seg0 := &model.Segment{Index: 0, IsBest: true}
	groups := []*model.Group{{GroupID: 0, Takes: []*model.Segment{seg0}, TextSummary: "hello"}}

	raw, err := WriteReport(sampleEdit(), groups)
	require.NoError(t, err)
	s := string(raw)
	assert.Contains(t, s, `"textSummary": "hello"`)
	assert.Contains(t, s, `"finalDuration": 2.5`)
}
