// Package transcription drives the external speech-to-text engine over
// each segment (spec.md §4.D). A single segment's transcription failure
// is tolerated — the segment is left with empty text rather than
// aborting the run — mirroring the teacher's per-chunk error collection
// in internal/extractor/audio_extractor.go.
package transcription

import (
	"context"
	"log"

	"github.com/alexstoesslein/silence-cutter/internal/clients"
	"github.com/alexstoesslein/silence-cutter/internal/mediaengine"
	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// ProgressFunc reports (current, total) segments transcribed.
type ProgressFunc func(current, total int)

// Transcriber drives per-segment transcription.
type Transcriber struct {
	engine *mediaengine.Adapter
	speech *clients.SpeechClient
	model  string
	language string
}

// New builds a transcriber over the given media engine and speech client.
func New(engine *mediaengine.Adapter, speech *clients.SpeechClient, transcriptionModel, language string) *Transcriber {
	return &Transcriber{engine: engine, speech: speech, model: transcriptionModel, language: language}
}

// Run extracts a WAV clip for every segment and transcribes it. Extraction
// or transcription failures on one segment are logged and skipped, not
// fatal to the run (spec.md §4.D).
func (t *Transcriber) Run(ctx context.Context, handle *mediaengine.Handle, segments []*model.Segment, progress ProgressFunc) error {
	for i, seg := range segments {
		wavBytes, err := t.engine.ExtractWAV(ctx, handle, seg.Start, seg.End)
		if err != nil {
			log.Printf("⚠️  segment %d: wav extraction failed, leaving transcription empty: %v", seg.Index, err)
			if progress != nil {
				progress(i+1, len(segments))
			}
			continue
		}

		info, err := decodeWAVHeader(wavBytes)
		if err != nil {
			log.Printf("⚠️  segment %d: failed to decode wav header, leaving transcription empty: %v", seg.Index, err)
			if progress != nil {
				progress(i+1, len(segments))
			}
			continue
		}
		samples, err := decodePCM16(wavBytes, info)
		if err != nil {
			log.Printf("⚠️  segment %d: failed to decode pcm samples, leaving transcription empty: %v", seg.Index, err)
			if progress != nil {
				progress(i+1, len(segments))
			}
			continue
		}

		text, chunks, err := t.speech.Transcribe(ctx, samples, info.SampleRate, info.Channels, t.model, t.language)
		if err != nil {
			log.Printf("⚠️  segment %d: transcription failed, leaving text empty: %v", seg.Index, err)
			if progress != nil {
				progress(i+1, len(segments))
			}
			continue
		}

		tChunks := make([]model.TranscriptChunk, 0, len(chunks))
		for _, c := range chunks {
			tChunks = append(tChunks, model.TranscriptChunk{Text: c.Text, Start: c.Start, End: c.End})
		}
		seg.Transcription = model.Transcription{Text: text, Chunks: tChunks}

		if progress != nil {
			progress(i+1, len(segments))
		}
	}
	return nil
}
