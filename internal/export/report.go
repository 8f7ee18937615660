package export

import (
	"encoding/json"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// WriteReport renders the edit list as the plain JSON report format:
// source metadata, the timeline with scores, and per-group take detail
// including each take's selection state (spec.md §4.H).
func WriteReport(edit *model.EditList, groups []*model.Group) ([]byte, error) {
	type reportTake struct {
		SegmentIndex int             `json:"segmentIndex"`
		Duration     float64         `json:"duration"`
		Transcript   string          `json:"transcript"`
		QualityTag   model.QualityTag `json:"qualityTag"`
		AIScores     *model.AIScores `json:"aiScores,omitempty"`
		IsBest       bool            `json:"isBest"`
	}

	type reportGroup struct {
		GroupID     int          `json:"groupId"`
		TextSummary string       `json:"textSummary"`
		Takes       []reportTake `json:"takes"`
	}

	report := struct {
		SourceDuration float64         `json:"sourceDuration"`
		Groups         []reportGroup   `json:"groups"`
		EditList       *model.EditList `json:"editList"`
	}{
		SourceDuration: edit.TotalDuration,
	}

	for _, g := range groups {
		rg := reportGroup{GroupID: g.GroupID, TextSummary: g.TextSummary}
		for _, t := range g.Takes {
			rg.Takes = append(rg.Takes, reportTake{
				SegmentIndex: t.Index,
				Duration:     t.Duration,
				Transcript:   t.Transcription.Text,
				QualityTag:   t.AudioMetrics.QualityTag,
				AIScores:     t.AIScores,
				IsBest:       t.IsBest,
			})
		}
		report.Groups = append(report.Groups, rg)
	}
	report.EditList = edit

	return json.MarshalIndent(report, "", "  ")
}
