// Package export renders the current EditList to the interchange formats
// spec.md §4.H lists: FCP7 XMEML v5, CMX3600 EDL, and a plain JSON
// report, plus dispatching the final render to the media engine.
package export

import (
	"fmt"
	"math"
)

// ToFrames converts a seconds offset to a frame count at fps, per
// spec.md §8's `round(seconds × fps)` invariant. Exact-half frame counts
// break toward the lower frame (S5/S6: 2.500s at 25fps is exactly frame
// 62.5, which spec.md's canonical checks require to land on 62, not
// 63) — the opposite tiebreak from math.Round, which rounds halves away
// from zero.
func ToFrames(seconds float64, fps int) int {
	return int(math.Ceil(seconds*float64(fps) - 0.5))
}

// Timecode formats a frame count as HH:MM:SS:FF at the given fps.
func Timecode(frames, fps int) string {
	if fps <= 0 {
		fps = 25
	}
	totalSeconds := frames / fps
	ff := frames % fps
	hh := totalSeconds / 3600
	mm := (totalSeconds % 3600) / 60
	ss := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}

// SecondsToTimecode is a convenience wrapper combining ToFrames and Timecode.
func SecondsToTimecode(seconds float64, fps int) string {
	return Timecode(ToFrames(seconds, fps), fps)
}
