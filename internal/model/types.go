// Package model holds the data shapes shared across the take-selection
// pipeline: Segment, Group, EditList, and the run Config. Field shapes
// and the pointer-for-optional convention follow
// internal/models/types.go in the teacher (adverant videoagent-worker).
package model

import "time"

// QualityTag is the coarse audio-quality bucket assigned by the feature
// extractor (spec.md §4.C).
type QualityTag string

const (
	QualityLoudClipping QualityTag = "loud/clipping"
	QualityGood         QualityTag = "good"
	QualityQuiet        QualityTag = "quiet"
)

// AudioMetrics holds the volume-probe results for one segment.
type AudioMetrics struct {
	MeanDB     *float64   `json:"meanDb,omitempty"`
	MaxDB      *float64   `json:"maxDb,omitempty"`
	QualityTag QualityTag `json:"qualityTag"`
}

// TranscriptChunk is one timestamped sub-span of a segment's transcription.
type TranscriptChunk struct {
	Text  string    `json:"text"`
	Start float64   `json:"start"`
	End   float64   `json:"end"`
}

// Transcription holds the speech-to-text result for a segment. Empty Text
// with no error recorded means transcription was attempted and tolerated
// a failure (spec.md §4.D).
type Transcription struct {
	Text   string            `json:"text"`
	Chunks []TranscriptChunk `json:"chunks,omitempty"`
}

// AIScores holds the oracle's per-take evaluation (spec.md §3).
type AIScores struct {
	AudioQuality float64 `json:"audioQuality"`
	Content      float64 `json:"content"`
	Emotion      float64 `json:"emotion"`
	Overall      float64 `json:"overall"`
	Comment      string  `json:"comment"`
}

// Segment is a contiguous speech interval, created once by the segmenter
// and never destroyed (spec.md §3 Lifecycle).
type Segment struct {
	Index         int            `json:"index"`
	Start         float64        `json:"start"`
	End           float64        `json:"end"`
	Duration      float64        `json:"duration"`
	AudioMetrics  AudioMetrics   `json:"audioMetrics"`
	Transcription Transcription  `json:"transcription"`
	AIScores      *AIScores      `json:"aiScores,omitempty"`
	IsBest        bool           `json:"isBest"`
}

// Group is a cluster of same-line takes (spec.md §3).
type Group struct {
	GroupID     int        `json:"groupId"`
	Takes       []*Segment `json:"takes"`
	TextSummary string     `json:"textSummary"`
}

// BestSegment returns the take currently marked IsBest, or nil if none is
// (yet) selected.
func (g *Group) BestSegment() *Segment {
	for _, s := range g.Takes {
		if s.IsBest {
			return s
		}
	}
	return nil
}

// TimelineEntry is one emitted take's position on the assembled cut.
type TimelineEntry struct {
	GroupID       int     `json:"groupId"`
	Segment       *Segment `json:"-"`
	SourceStart   float64 `json:"sourceStart"`
	SourceEnd     float64 `json:"sourceEnd"`
	TimelineStart float64 `json:"timelineStart"`
	TimelineEnd   float64 `json:"timelineEnd"`
}

// EditList is the current edit decision (spec.md §3).
type EditList struct {
	SuggestedOrder []int           `json:"suggestedOrder"`
	BestTakes      []*Segment      `json:"bestTakes"`
	Timeline       []TimelineEntry `json:"timeline"`
	FinalDuration  float64         `json:"finalDuration"`
	TotalDuration  float64         `json:"totalDuration"`
}

// Config holds the run's tunable parameters, with the defaults from
// spec.md §6. Loaded by internal/config the way the teacher's Config
// struct is loaded by cmd/worker/main.go's getEnv* helpers.
type Config struct {
	NoiseThresholdDB       int
	MinSilenceS            float64
	MinSpeechS             float64
	PaddingS               float64
	TranscriptionModel     string
	TranscriptionLanguage  string
	SimilarityThreshold    float64
	FPS                    int

	TempDir      string
	SpeechEngineURL string
	OracleURL       string
	OracleAPIKey    string

	RedisURL          string
	AuditPostgresURL  string
}

// DefaultConfig returns spec.md §6's defaults.
func DefaultConfig() Config {
	return Config{
		NoiseThresholdDB:      -35,
		MinSilenceS:           0.70,
		MinSpeechS:            0.30,
		PaddingS:              0.05,
		TranscriptionModel:    "small",
		TranscriptionLanguage: "auto",
		SimilarityThreshold:   0.60,
		FPS:                   25,
		TempDir:               "/tmp/silencecutter",
	}
}

// ProgressUpdate is published on the progress bus (spec.md §5, §9) and,
// when Redis is configured, on the "silencecutter:progress:<session>"
// channel — mirroring the teacher's ProgressUpdate/sendProgress shape.
type ProgressUpdate struct {
	SessionID string    `json:"sessionId"`
	Stage     string    `json:"stage"`
	Current   int       `json:"current"`
	Total     int       `json:"total"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
