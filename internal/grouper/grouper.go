// Package grouper clusters same-line takes by transcript similarity
// (spec.md §4.E). It greedily compares every new segment against the
// seed that opened each group, using a normalized Levenshtein distance
// the way a handful of the pack's repos approximate fuzzy text match —
// except backed by the maintained agnivade/levenshtein implementation
// instead of a hand-rolled one.
package grouper

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

type openGroup struct {
	group    *model.Group
	seedText string // text of the segment that opened this group; comparisons never drift onto text_summary
}

// Group clusters segments left to right with a single greedy pass: each
// unused segment seeds a new group, then every later unused segment
// joins it when similar enough to the seed's text (spec.md §4.E steps
// 2-3) — not to the group's running text_summary, which only tracks the
// longest member for display.
func Group(segments []*model.Segment, threshold float64) []*model.Group {
	var open []openGroup

	for _, seg := range segments {
		text := seg.Transcription.Text

		joined := false
		for _, og := range open {
			if similarity(text, og.seedText) >= threshold {
				og.group.Takes = append(og.group.Takes, seg)
				og.group.TextSummary = longestText(og.group.Takes)
				joined = true
				break
			}
		}

		if !joined {
			g := &model.Group{
				GroupID:     len(open),
				Takes:       []*model.Segment{seg},
				TextSummary: text,
			}
			open = append(open, openGroup{group: g, seedText: text})
		}
	}

	groups := make([]*model.Group, 0, len(open))
	for _, og := range open {
		groups = append(groups, og.group)
	}
	return groups
}

// similarity returns a normalized similarity in [0, 1]. Both texts are
// lower-cased and trimmed first; equal strings score 1.0. The general
// formula, 1 - levenshtein(a, b) / max(len(a), len(b)), already yields
// 0 whenever exactly one side is empty, since the edit distance to/from
// "" equals the other string's length (spec.md §4.E).
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return 1
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}

// longestText returns the longest transcript text among a group's takes,
// breaking ties by the earliest segment index (spec.md §4.E).
func longestText(takes []*model.Segment) string {
	best := takes[0]
	for _, t := range takes[1:] {
		if len(t.Transcription.Text) > len(best.Transcription.Text) {
			best = t
		}
	}
	return best.Transcription.Text
}
