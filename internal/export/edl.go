package export

import (
	"fmt"
	"strings"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// WriteEDL renders the edit list as a CMX3600 EDL. trackType is "V" for
// an audio+video source and "A" for audio-only (spec.md §4.H). Every
// edit line is followed by two comment lines naming the source clip and
// summarizing the take's score and text.
func WriteEDL(edit *model.EditList, title, sourceName string, fps int, hasVideo bool) string {
	trackType := "A"
	if hasVideo {
		trackType = "V"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", title)
	fmt.Fprintf(&b, "FCM: NON-DROP FRAME\n\n")

	for i, entry := range edit.Timeline {
		srcIn := SecondsToTimecode(entry.SourceStart, fps)
		srcOut := SecondsToTimecode(entry.SourceEnd, fps)
		recIn := SecondsToTimecode(entry.TimelineStart, fps)
		recOut := SecondsToTimecode(entry.TimelineEnd, fps)

		fmt.Fprintf(&b, "%03d  AX       %s     C        %s %s %s %s\n",
			i+1, trackType, srcIn, srcOut, recIn, recOut)
		fmt.Fprintf(&b, "* FROM CLIP NAME: %s\n", sourceName)
		fmt.Fprintf(&b, "* COMMENT: Take %d | Score: %s | %s\n",
			i+1, overallScoreString(entry.Segment), trimText(segmentText(entry.Segment), 60))
	}

	return b.String()
}

func overallScoreString(seg *model.Segment) string {
	if seg == nil || seg.AIScores == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", seg.AIScores.Overall)
}

func segmentText(seg *model.Segment) string {
	if seg == nil {
		return ""
	}
	return strings.TrimSpace(seg.Transcription.Text)
}

func trimText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
