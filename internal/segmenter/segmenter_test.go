package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// TestSegment_S1SimpleSegmentation is spec.md §8 S1: two matched silences
// in a 10s source produce three padded speech segments.
func TestSegment_S1SimpleSegmentation(t *testing.T) {
	log := `[silencedetect @ 0x5] silence_start: 2.0
[silencedetect @ 0x5] silence_end: 3.0 | silence_duration: 1.0
[silencedetect @ 0x5] silence_start: 6.0
[silencedetect @ 0x5] silence_end: 7.0 | silence_duration: 1.0
`
	segs, err := Segment(log, 10.0, 0.70, 0.30, 0.05)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	assert.Equal(t, 0, segs[0].Index)
	assert.InDelta(t, 0.0, segs[0].Start, 1e-9)
	assert.InDelta(t, 2.05, segs[0].End, 1e-9)

	assert.InDelta(t, 2.95, segs[1].Start, 1e-9)
	assert.InDelta(t, 6.05, segs[1].End, 1e-9)

	assert.InDelta(t, 6.95, segs[2].Start, 1e-9)
	assert.InDelta(t, 10.0, segs[2].End, 1e-9)
}

// TestSegment_S2UnmatchedStart is spec.md §8 S2: dropping the second
// silence_end pairs the trailing silence_start with total_duration
// (§4.B step 2), so the final gap never surfaces and no trailing span
// follows — the unmatched silence consumes the rest of the timeline.
func TestSegment_S2UnmatchedStart(t *testing.T) {
	log := `[silencedetect @ 0x5] silence_start: 2.0
[silencedetect @ 0x5] silence_end: 3.0 | silence_duration: 1.0
[silencedetect @ 0x5] silence_start: 6.0
`
	segs, err := Segment(log, 10.0, 0.70, 0.30, 0.05)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.InDelta(t, 0.0, segs[0].Start, 1e-9)
	assert.InDelta(t, 2.05, segs[0].End, 1e-9)

	assert.InDelta(t, 2.95, segs[1].Start, 1e-9)
	assert.InDelta(t, 6.05, segs[1].End, 1e-9)
}

func TestSegment_DropsSpansShorterThanMinSpeech(t *testing.T) {
	// A silence starting at t=0.1 leaves only a 0.1s residual span before
	// it, which min_speech_s=0.30 filters out; the final trailing span
	// survives.
	log := `[silencedetect @ 0x5] silence_start: 0.1
[silencedetect @ 0x5] silence_end: 5.0 | silence_duration: 4.9
`
	segs, err := Segment(log, 10.0, 0.70, 0.30, 0.05)
	require.NoError(t, err)

	require.Len(t, segs, 1)
	assert.InDelta(t, 4.95, segs[0].Start, 1e-9)
	assert.InDelta(t, 10.0, segs[0].End, 1e-9)
}

func TestSegment_TrailingUnterminatedSilenceStillYieldsGapBeforeIt(t *testing.T) {
	log := `[silencedetect @ 0x5] silence_start: 2.0
[silencedetect @ 0x5] silence_end: 3.0 | silence_duration: 1.0
[silencedetect @ 0x5] silence_start: 9.0
`
	segs, err := Segment(log, 15.0, 0.70, 0.30, 0.05)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	assert.InDelta(t, 0.0, segs[0].Start, 1e-9)
	assert.InDelta(t, 2.05, segs[0].End, 1e-9)

	assert.InDelta(t, 2.95, segs[1].Start, 1e-9)
	assert.InDelta(t, 9.05, segs[1].End, 1e-9)
}

func TestParseTotalDuration_ParsesFirstDurationLine(t *testing.T) {
	log := `Input #0, wav, from 'clip.wav':
  Duration: 00:00:10.00, bitrate: 256 kb/s
[silencedetect @ 0x5] silence_start: 2.0
[silencedetect @ 0x5] silence_end: 3.0 | silence_duration: 1.0
`
	d, err := ParseTotalDuration(log)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, d, 1e-9)
}

func TestParseTotalDuration_SubMinuteHours(t *testing.T) {
	d, err := ParseTotalDuration("  Duration: 1:02:03.50, start: 0.000000, bitrate: N/A")
	require.NoError(t, err)
	assert.InDelta(t, 3723.5, d, 1e-9)
}

func TestParseTotalDuration_MissingLineIsAnError(t *testing.T) {
	_, err := ParseTotalDuration("[silencedetect @ 0x5] silence_start: 2.0\n")
	require.Error(t, err)

	var pe *model.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.KindEngineError, pe.Kind)
}

func TestSegment_NoSpeechDetectedWhenAllSilence(t *testing.T) {
	log := `[silencedetect @ 0x5] silence_start: 0
`
	_, err := Segment(log, 5.0, 0.70, 0.30, 0.05)
	require.Error(t, err)

	var pe *model.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.KindNoSpeechDetected, pe.Kind)
}
