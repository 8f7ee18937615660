// Package segmenter turns a silencedetect log into the padded speech
// segments that anchor every later stage (spec.md §4.B). It never
// touches the filesystem directly; it only parses text the mediaengine
// adapter already produced, in the line-by-line scanning style of
// kikiluvv-slopCannon's parseSilenceOutput.
package segmenter

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

type silenceInterval struct {
	start float64
	end   float64
}

// ParseTotalDuration extracts the source's total duration, in seconds,
// from the first "Duration: HH:MM:SS.ff" line of an ffmpeg log — the
// same silence_log text handed to Segment, so component A's probe step
// needs no separate call (spec.md §4.A "used for both total-duration
// and interval extraction", §4.B step 1).
func ParseTotalDuration(log string) (float64, error) {
	idx := strings.Index(log, "Duration:")
	if idx < 0 {
		return 0, model.NewEngineError(model.EngineExecFailed, "no Duration: line found in silence log", nil)
	}

	rest := strings.TrimSpace(log[idx+len("Duration:"):])
	rest = strings.SplitN(rest, ",", 2)[0]
	rest = strings.TrimSpace(rest)

	parts := strings.SplitN(rest, ":", 3)
	if len(parts) != 3 {
		return 0, model.NewEngineError(model.EngineExecFailed, "malformed Duration: line: "+rest, nil)
	}
	hh, errH := strconv.ParseFloat(parts[0], 64)
	mm, errM := strconv.ParseFloat(parts[1], 64)
	ss, errS := strconv.ParseFloat(parts[2], 64)
	if errH != nil || errM != nil || errS != nil {
		return 0, model.NewEngineError(model.EngineExecFailed, "malformed Duration: line: "+rest, nil)
	}
	return hh*3600 + mm*60 + ss, nil
}

// Segment builds the padded, gap-filled list of speech segments between
// the silence intervals found in log, over the source's [0, totalDuration)
// span (spec.md §4.B).
//
// silence_start and silence_end occurrences are collected in textual
// order and paired positionally: the i-th start with the i-th end. A
// start with no matching end is paired with totalDuration, per spec.md
// §4.B step 2 — minSilenceS plays no further role here since it already
// shaped the silencedetect invocation that produced log.
//
// Padding is applied before the minimum-speech-duration filter (it is
// the padded length that must reach minSpeechS), and resulting padded
// segments are allowed to overlap their neighbors — they are never
// merged back together (spec.md §9).
func Segment(log string, totalDuration float64, minSilenceS, minSpeechS, paddingS float64) ([]*model.Segment, error) {
	intervals := parseSilenceLog(log, totalDuration)

	var kept []rawSpan
	prevEnd := 0.0
	for _, iv := range intervals {
		if sp, ok := candidate(prevEnd, iv.start, totalDuration, paddingS, minSpeechS); ok {
			kept = append(kept, sp)
		}
		prevEnd = iv.end
	}
	if prevEnd < totalDuration {
		if sp, ok := candidate(prevEnd, totalDuration, totalDuration, paddingS, minSpeechS); ok {
			kept = append(kept, sp)
		}
	}

	if len(kept) == 0 {
		return nil, model.NewError(model.KindNoSpeechDetected, "no speech segments survived the minimum-duration filter", nil)
	}

	segments := make([]*model.Segment, 0, len(kept))
	for i, sp := range kept {
		segments = append(segments, &model.Segment{
			Index:    i,
			Start:    round3(sp.start),
			End:      round3(sp.end),
			Duration: round3(sp.end - sp.start),
		})
	}

	return segments, nil
}

type rawSpan struct {
	start float64
	end   float64
}

// candidate computes one speech-gap window per spec.md §4.B step 3/4:
// [max(0, prevEnd-padding), min(totalDuration, rightBound+padding)],
// keeping it only when it meets minSpeechS.
func candidate(prevEnd, rightBound, totalDuration, paddingS, minSpeechS float64) (rawSpan, bool) {
	start := prevEnd - paddingS
	if start < 0 {
		start = 0
	}
	end := rightBound + paddingS
	if end > totalDuration {
		end = totalDuration
	}
	if end-start < minSpeechS {
		return rawSpan{}, false
	}
	return rawSpan{start: start, end: end}, true
}

// parseSilenceLog scans ffmpeg's silencedetect log lines:
//
//	[silencedetect @ 0x...] silence_start: 12.34
//	[silencedetect @ 0x...] silence_end: 13.50 | silence_duration: 1.16
//
// Starts and ends are collected independently, in textual order, then
// paired positionally (spec.md §4.B step 2).
func parseSilenceLog(log string, totalDuration float64) []silenceInterval {
	var starts, ends []float64

	scanner := bufio.NewScanner(strings.NewReader(log))
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "silence_start:") {
			val := fieldAfter(line, "silence_start:")
			if v, err := strconv.ParseFloat(val, 64); err == nil {
				starts = append(starts, v)
			}
			continue
		}

		if strings.Contains(line, "silence_end:") {
			val := fieldAfter(line, "silence_end:")
			val = strings.SplitN(val, "|", 2)[0]
			if v, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				ends = append(ends, v)
			}
			continue
		}
	}

	intervals := make([]silenceInterval, 0, len(starts))
	for i, s := range starts {
		end := totalDuration
		if i < len(ends) {
			end = ends[i]
		}
		intervals = append(intervals, silenceInterval{start: s, end: end})
	}
	return intervals
}

func fieldAfter(line, marker string) string {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(marker):]
	return strings.TrimSpace(rest)
}

func round3(v float64) float64 {
	r := v*1000 + 0.5
	if r < 0 {
		r = v*1000 - 0.5
	}
	return float64(int64(r)) / 1000
}
