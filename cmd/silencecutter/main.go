// Command silencecutter runs one silence-cutter session end to end: it
// ingests a single media file, segments it into speech spans, groups
// retakes, scores them against the external oracle, assembles an edit
// list, renders the cut, and writes the interchange formats spec.md §6
// names next to the source file.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/alexstoesslein/silence-cutter/internal/audit"
	"github.com/alexstoesslein/silence-cutter/internal/clients"
	"github.com/alexstoesslein/silence-cutter/internal/config"
	"github.com/alexstoesslein/silence-cutter/internal/mediaengine"
	"github.com/alexstoesslein/silence-cutter/internal/model"
	"github.com/alexstoesslein/silence-cutter/internal/progress"
	"github.com/alexstoesslein/silence-cutter/internal/renderqueue"
	"github.com/alexstoesslein/silence-cutter/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	var (
		outDir   = pflag.StringP("out", "o", "", "output directory (defaults to the source file's directory)")
		noiseDB  = pflag.Int("noise-threshold-db", cfg.NoiseThresholdDB, "silencedetect noise floor in dB")
		minSil   = pflag.Float64("min-silence-s", cfg.MinSilenceS, "minimum silence duration to split on, in seconds")
		minSpeech = pflag.Float64("min-speech-s", cfg.MinSpeechS, "minimum speech span duration to keep, in seconds")
		padding  = pflag.Float64("padding-s", cfg.PaddingS, "padding added to each side of a kept speech span, in seconds")
		simThresh = pflag.Float64("similarity-threshold", cfg.SimilarityThreshold, "Levenshtein similarity threshold for retake grouping")
		fps      = pflag.Int("fps", cfg.FPS, "timeline frame rate for EDL/XMEML export")
	)
	pflag.Parse()

	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: silencecutter [flags] <media-file>")
		pflag.PrintDefaults()
		return 1
	}
	sourcePath := pflag.Arg(0)

	cfg.NoiseThresholdDB = *noiseDB
	cfg.MinSilenceS = *minSil
	cfg.MinSpeechS = *minSpeech
	cfg.PaddingS = *padding
	cfg.SimilarityThreshold = *simThresh
	cfg.FPS = *fps

	destDir := *outDir
	if destDir == "" {
		destDir = filepath.Dir(sourcePath)
	}

	ctx := context.Background()

	// 1. Media engine adapter (ffmpeg wrapper).
	engine, err := mediaengine.New(cfg.TempDir)
	if err != nil {
		log.Printf("✗ failed to initialize media engine: %v", err)
		return model.ExitCode(err)
	}
	log.Printf("✓ media engine initialized (scratch dir %s)", cfg.TempDir)

	// 2. Speech transcription client.
	speech := clients.NewSpeechClient(cfg.SpeechEngineURL)
	log.Printf("✓ speech engine client configured for %s", cfg.SpeechEngineURL)

	// 3. Scoring oracle client.
	if cfg.OracleAPIKey == "" {
		log.Printf("WARNING: ORACLE_API_KEY not set, scoring calls will fail with MissingCredential")
	}
	oracle := clients.NewOracleClient(cfg.OracleURL, cfg.OracleAPIKey)
	log.Printf("✓ oracle client configured for %s", cfg.OracleURL)

	// 4. Render queue (optional, asynq-backed; inline when REDIS_URL unset).
	queue, err := renderqueue.New(cfg.RedisURL)
	if err != nil {
		log.Printf("✗ failed to initialize render queue: %v", err)
		return model.ExitCode(err)
	}
	if queue.Enabled() {
		log.Printf("✓ render queue connected (%s)", cfg.RedisURL)
	} else {
		log.Printf("INFO: REDIS_URL not set, render_cut will run inline")
	}
	defer queue.Close()

	// 5. Audit log (optional, additive completed-session trail).
	auditLog, err := audit.New(cfg.AuditPostgresURL)
	if err != nil {
		log.Printf("✗ failed to initialize audit log: %v", err)
		return model.ExitCode(err)
	}
	if auditLog.Enabled() {
		log.Printf("✓ audit log connected")
	} else {
		log.Printf("INFO: AUDIT_POSTGRES_URL not set, completed sessions will not be recorded")
	}

	// 6. Session and driver.
	sess := session.New(sourcePath)
	driver := session.NewDriver(cfg, engine, speech, oracle, queue, auditLog)

	bus := progress.New(sess.ID, cfg.RedisURL)
	defer bus.Close()
	go func() {
		for update := range bus.Updates() {
			log.Printf("  [%s] %d/%d %s", update.Stage, update.Current, update.Total, update.Message)
		}
	}()

	log.Printf("✓ session %s created for %s", sess.ID, sourcePath)

	handle, err := driver.Run(ctx, sess, bus)
	if err != nil {
		log.Printf("✗ session %s failed: %v", sess.ID, err)
		return model.ExitCode(err)
	}

	outputs, err := driver.RenderAndExport(ctx, sess, handle, destDir)
	if err != nil {
		log.Printf("✗ render/export failed for session %s: %v", sess.ID, err)
		return model.ExitCode(err)
	}

	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	if err := writeOutputs(destDir, base, outputs); err != nil {
		log.Printf("✗ failed to write output files: %v", err)
		return model.ExitCode(model.NewError(model.KindExportError, "failed to write output files", err))
	}

	log.Printf("✓ wrote outputs for %s to %s", sourcePath, destDir)
	return 0
}

// writeOutputs maps the driver's logical output keys to the on-disk
// names spec.md §6 requires, alongside the source file.
func writeOutputs(destDir, base string, outputs map[string][]byte) error {
	names := map[string]string{
		"sequence.xml":  base + "_edit.xml",
		"sequence.edl":  base + "_edit.edl",
		"report.json":   base + "_report.json",
		"cut.mp4":       base + "_cut.mp4",
		"cut.mp3":       base + "_cut.mp3",
	}

	for key, data := range outputs {
		name, ok := names[key]
		if !ok {
			name = base + "_" + key
		}
		if err := os.WriteFile(filepath.Join(destDir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("  wrote %s", name)
	}
	return nil
}
