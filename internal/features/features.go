// Package features drives the media engine's volume probe over each
// segment and attaches the resulting AudioMetrics (spec.md §4.C), in the
// same per-item-progress style as the teacher's audio_extractor.go.
package features

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexstoesslein/silence-cutter/internal/mediaengine"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

const (
	clippingThresholdDB = -5.0
	quietThresholdDB    = -30.0
	missingMeanDB       = -70.0 // tagging-only fallback when mean_volume is absent
)

// ProgressFunc reports (current, total) segments processed.
type ProgressFunc func(current, total int)

// Extractor drives volume probes for each segment.
type Extractor struct {
	engine *mediaengine.Adapter
}

// New builds a feature extractor over the given media engine adapter.
func New(engine *mediaengine.Adapter) *Extractor {
	return &Extractor{engine: engine}
}

// Run probes each segment in order and fills in its AudioMetrics.
func (e *Extractor) Run(ctx context.Context, handle *mediaengine.Handle, segments []*model.Segment, progress ProgressFunc) error {
	for i, seg := range segments {
		log, err := e.engine.VolumeLog(ctx, handle, seg.Start, seg.End)
		if err != nil {
			return err
		}

		mean, max, err := parseVolumeLog(log)
		if err != nil {
			return err
		}

		seg.AudioMetrics = model.AudioMetrics{
			MeanDB:     mean,
			MaxDB:      max,
			QualityTag: classify(mean, max),
		}

		if progress != nil {
			progress(i+1, len(segments))
		}
	}
	return nil
}

// classify applies spec.md §4.C's heuristic: loud/clipping if mean > -5
// dB, quiet if mean < -30 dB, else good. A missing mean defaults to -70
// dB for this decision only.
func classify(mean, _ *float64) model.QualityTag {
	tagMean := missingMeanDB
	if mean != nil {
		tagMean = *mean
	}

	switch {
	case tagMean > clippingThresholdDB:
		return model.QualityLoudClipping
	case tagMean < quietThresholdDB:
		return model.QualityQuiet
	default:
		return model.QualityGood
	}
}

// parseVolumeLog extracts mean_volume/max_volume from ffmpeg's
// volumedetect log, e.g. "[Parsed_volumedetect_0 @ 0x..] mean_volume: -18.3 dB".
func parseVolumeLog(log string) (mean, max *float64, err error) {
	mean = scanDB(log, "mean_volume:")
	max = scanDB(log, "max_volume:")
	return mean, max, nil
}

func scanDB(log, marker string) *float64 {
	idx := strings.Index(log, marker)
	if idx < 0 {
		return nil
	}
	rest := log[idx+len(marker):]
	var value float64
	if _, err := fmt.Sscanf(rest, "%f", &value); err != nil {
		return nil
	}
	return &value
}
