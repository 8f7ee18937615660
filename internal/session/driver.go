package session

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/alexstoesslein/silence-cutter/internal/assembler"
	"github.com/alexstoesslein/silence-cutter/internal/audit"
	"github.com/alexstoesslein/silence-cutter/internal/clients"
	"github.com/alexstoesslein/silence-cutter/internal/export"
	"github.com/alexstoesslein/silence-cutter/internal/features"
	"github.com/alexstoesslein/silence-cutter/internal/grouper"
	"github.com/alexstoesslein/silence-cutter/internal/mediaengine"
	"github.com/alexstoesslein/silence-cutter/internal/model"
	"github.com/alexstoesslein/silence-cutter/internal/progress"
	"github.com/alexstoesslein/silence-cutter/internal/renderqueue"
	"github.com/alexstoesslein/silence-cutter/internal/scoring"
	"github.com/alexstoesslein/silence-cutter/internal/segmenter"
	"github.com/alexstoesslein/silence-cutter/internal/transcription"
)

// Driver owns every adapter and runs one session's pipeline end to end
// (spec.md §4's A through H, driven by the state machine in spec.md §5).
type Driver struct {
	cfg    model.Config
	engine *mediaengine.Adapter
	speech *clients.SpeechClient
	oracle *clients.OracleClient
	queue  *renderqueue.Queue
	audit  *audit.Log
}

// NewDriver wires every component over the given config.
func NewDriver(cfg model.Config, engine *mediaengine.Adapter, speech *clients.SpeechClient, oracle *clients.OracleClient, queue *renderqueue.Queue, auditLog *audit.Log) *Driver {
	return &Driver{cfg: cfg, engine: engine, speech: speech, oracle: oracle, queue: queue, audit: auditLog}
}

// Run takes a session from Idle through Ready: ingest, segment, extract
// features, transcribe, group, score, and assemble. Rendering and export
// are separate steps, driven by RenderAndExport, since a session can sit
// at Ready indefinitely while take overrides are applied (spec.md §4.G).
func (d *Driver) Run(ctx context.Context, sess *Session, bus *progress.Bus) (*mediaengine.Handle, error) {
	publish := func(stage string, current, total int, message string) {
		if bus == nil {
			return
		}
		bus.Publish(model.ProgressUpdate{
			SessionID: sess.ID,
			Stage:     stage,
			Current:   current,
			Total:     total,
			Message:   message,
			Timestamp: time.Now(),
		})
	}

	sess.Transition(LoadingEngine)
	log.Printf("✓ ingesting %s", sess.SourcePath)
	handle, err := d.engine.Ingest(ctx, sess.SourcePath, func(pct float64) {
		publish(string(LoadingEngine), int(pct), 100, "ingesting source")
	})
	if err != nil {
		return nil, d.fail(sess, err)
	}

	sess.Transition(Probing)
	silenceLog, err := d.engine.SilenceLog(ctx, handle, d.cfg.NoiseThresholdDB, d.cfg.MinSilenceS)
	if err != nil {
		return handle, d.fail(sess, err)
	}
	duration, err := segmenter.ParseTotalDuration(silenceLog)
	if err != nil {
		return handle, d.fail(sess, err)
	}
	log.Printf("✓ probed %s: %.2fs", sess.SourcePath, duration)

	sess.Transition(Segmenting)
	segments, err := segmenter.Segment(silenceLog, duration, d.cfg.MinSilenceS, d.cfg.MinSpeechS, d.cfg.PaddingS)
	if err != nil {
		return handle, d.fail(sess, err)
	}
	log.Printf("✓ segmented into %d speech spans", len(segments))

	sess.Transition(Extracting)
	extractor := features.New(d.engine)
	if err := extractor.Run(ctx, handle, segments, func(cur, total int) {
		publish(string(Extracting), cur, total, "extracting audio features")
	}); err != nil {
		return handle, d.fail(sess, err)
	}

	sess.Transition(LoadingTranscriber)
	log.Printf("✓ speech engine at %s ready", d.cfg.SpeechEngineURL)

	sess.Transition(Transcribing)
	transcriber := transcription.New(d.engine, d.speech, d.cfg.TranscriptionModel, d.cfg.TranscriptionLanguage)
	if err := transcriber.Run(ctx, handle, segments, func(cur, total int) {
		publish(string(Transcribing), cur, total, "transcribing segments")
	}); err != nil {
		return handle, d.fail(sess, err)
	}

	sess.Transition(Grouping)
	groups := grouper.Group(segments, d.cfg.SimilarityThreshold)
	log.Printf("✓ clustered %d segments into %d groups", len(segments), len(groups))

	sess.Transition(Scoring)
	suggestedOrder, err := scoring.Score(ctx, d.oracle, groups)
	if err != nil {
		return handle, d.fail(sess, err)
	}

	sess.Transition(Assembling)
	asm := assembler.New(groups, suggestedOrder, duration)
	editList := asm.Build()

	sess.Segments = segments
	sess.Groups = groups
	sess.EditList = editList
	sess.Assembler = asm
	sess.Transition(Ready)
	log.Printf("✓ session %s ready: %.2fs final duration", sess.ID, editList.FinalDuration)

	return handle, nil
}

// RenderAndExport renders the current edit list and writes the three
// interchange formats spec.md §4.H names, queueing the render through
// asynq when configured and falling back to running it inline.
func (d *Driver) RenderAndExport(ctx context.Context, sess *Session, handle *mediaengine.Handle, outDir string) (map[string][]byte, error) {
	sess.Transition(Rendering)

	outputs := make(map[string][]byte)

	if d.queue != nil && d.queue.Enabled() {
		if err := d.queue.Enqueue(ctx, sess.ID); err != nil {
			log.Printf("⚠️  failed to enqueue render_cut, rendering inline instead: %v", err)
		} else {
			log.Printf("✓ render_cut for session %s queued", sess.ID)
			outputs["sequence.xml"] = []byte(export.WriteXMEML(sess.EditList, sess.SourcePath, d.cfg.FPS, handle.IsVideoContainer()))
			outputs["sequence.edl"] = []byte(export.WriteEDL(sess.EditList, "silencecutter cut", filepath.Base(sess.SourcePath), d.cfg.FPS, handle.IsVideoContainer()))
			reportBytes, err := export.WriteReport(sess.EditList, sess.Groups)
			if err == nil {
				outputs["report.json"] = reportBytes
			}
			return outputs, nil
		}
	}

	rendered, container, err := export.RenderCut(ctx, d.engine, handle, sess.EditList, nil)
	if err != nil {
		return nil, d.fail(sess, err)
	}
	outputs["cut."+container] = rendered

	outputs["sequence.xml"] = []byte(export.WriteXMEML(sess.EditList, sess.SourcePath, d.cfg.FPS, handle.IsVideoContainer()))
	outputs["sequence.edl"] = []byte(export.WriteEDL(sess.EditList, "silencecutter cut", filepath.Base(sess.SourcePath), d.cfg.FPS, handle.IsVideoContainer()))

	reportBytes, err := export.WriteReport(sess.EditList, sess.Groups)
	if err != nil {
		return nil, d.fail(sess, model.NewError(model.KindExportError, "failed to build json report", err))
	}
	outputs["report.json"] = reportBytes

	if d.audit != nil && d.audit.Enabled() {
		if err := d.audit.RecordCompletion(ctx, sess.ID, sess.SourcePath, len(sess.Segments), len(sess.Groups), sess.EditList.FinalDuration); err != nil {
			log.Printf("⚠️  failed to record audit entry for session %s: %v", sess.ID, err)
		}
	}

	sess.Transition(Done)
	log.Printf("✓ session %s done", sess.ID)
	return outputs, nil
}

func (d *Driver) fail(sess *Session, err error) error {
	pe, ok := err.(*model.PipelineError)
	if !ok {
		pe = model.NewError(model.KindEngineError, err.Error(), err)
	}
	sess.Fail(pe)
	log.Printf("✗ session %s failed at %s: %v", sess.ID, sess.CurrentState(), pe)
	return pe
}
