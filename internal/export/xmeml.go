package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// WriteXMEML renders the edit list as an FCP7 XMEML v5 document. The
// video track is only emitted when hasVideo is true — an audio-only
// source gets an audio-only sequence (spec.md §4.H).
func WriteXMEML(edit *model.EditList, sourcePath string, fps int, hasVideo bool) string {
	var b strings.Builder

	sourceName := filepath.Base(sourcePath)
	fileID := "file-1"

	fmt.Fprintf(&b, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<!DOCTYPE xmeml>\n")
	fmt.Fprintf(&b, "<xmeml version=\"5\">\n")
	fmt.Fprintf(&b, "  <sequence>\n")
	fmt.Fprintf(&b, "    <name>silencecutter cut</name>\n")
	fmt.Fprintf(&b, "    <duration>%d</duration>\n", ToFrames(edit.FinalDuration, fps))
	fmt.Fprintf(&b, "    <rate>\n      <timebase>%d</timebase>\n      <ntsc>FALSE</ntsc>\n    </rate>\n", fps)
	fmt.Fprintf(&b, "    <media>\n")

	sequenceFrames := ToFrames(edit.FinalDuration, fps)

	if hasVideo {
		fmt.Fprintf(&b, "      <video>\n        <format>\n          <samplecharacteristics>\n            <width>1920</width>\n            <height>1080</height>\n          </samplecharacteristics>\n        </format>\n        <track>\n")
		writeClipItems(&b, edit, sourceName, fileID, fps, sequenceFrames, true)
		fmt.Fprintf(&b, "        </track>\n      </video>\n")
	}

	fmt.Fprintf(&b, "      <audio>\n        <format>\n          <samplecharacteristics>\n            <depth>16</depth>\n            <samplerate>48000</samplerate>\n          </samplecharacteristics>\n        </format>\n        <track>\n")
	writeClipItems(&b, edit, sourceName, fileID, fps, sequenceFrames, !hasVideo)
	fmt.Fprintf(&b, "        </track>\n      </audio>\n")

	fmt.Fprintf(&b, "    </media>\n")
	fmt.Fprintf(&b, "  </sequence>\n")
	fmt.Fprintf(&b, "</xmeml>\n")

	return b.String()
}

// writeClipItems emits one <clipitem> per timeline entry. Every
// clipitem's <duration> is set to the sequence's total frame count
// rather than its own span — a deliberate historical compatibility
// quirk this format carries verbatim (spec.md §4.H).
func writeClipItems(b *strings.Builder, edit *model.EditList, sourceName, fileID string, fps, sequenceFrames int, isFirstTrackUse bool) {
	for i, entry := range edit.Timeline {
		clipID := fmt.Sprintf("clipitem-%d", i+1)
		fmt.Fprintf(b, "          <clipitem id=\"%s\">\n", clipID)
		fmt.Fprintf(b, "            <name>%s</name>\n", sourceName)
		fmt.Fprintf(b, "            <duration>%d</duration>\n", sequenceFrames)
		fmt.Fprintf(b, "            <start>%d</start>\n", ToFrames(entry.TimelineStart, fps))
		fmt.Fprintf(b, "            <end>%d</end>\n", ToFrames(entry.TimelineEnd, fps))
		fmt.Fprintf(b, "            <in>%d</in>\n", ToFrames(entry.SourceStart, fps))
		fmt.Fprintf(b, "            <out>%d</out>\n", ToFrames(entry.SourceEnd, fps))
		if isFirstTrackUse && i == 0 {
			fmt.Fprintf(b, "            <file id=\"%s\">\n              <name>%s</name>\n              <pathurl>%s</pathurl>\n            </file>\n", fileID, sourceName, sourceName)
		} else {
			fmt.Fprintf(b, "            <file id=\"%s\"/>\n", fileID)
		}
		fmt.Fprintf(b, "          </clipitem>\n")
	}
}
