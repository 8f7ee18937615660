// Package mediaengine wraps the external decoder/filter engine described
// in spec.md §4.A. It is a thin, synchronous wrapper over a local
// ffmpeg binary, in the style of the teacher's internal/utils/ffmpeg.go
// (FFmpegHelper: exec.LookPath, command building, output parsing) and
// the silencedetect/volumedetect handling from the pack's
// kikiluvv-slopCannon internal/ffmpeg/audio.go.
package mediaengine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// streamedIngestThreshold is the spec.md §4.A cutoff above which ingest
// mounts a streamed-read view instead of copying the whole file.
const streamedIngestThreshold = 500 * 1024 * 1024 // 500 MiB

// ProgressFunc receives 0-100 incremental progress from a long-running
// adapter call (spec.md §4.A "Progress").
type ProgressFunc func(percent float64)

// Handle is the adapter's opaque reference to an ingested source, per
// spec.md §4.A ("place the source bytes in a virtual location the
// engine can read").
type Handle struct {
	Path      string // path in the adapter's scratch directory
	SourceExt string // lower-cased, no leading dot
	Streamed  bool    // true when mounted as a streamed-read view rather than copied
	file      *os.File
}

// IsVideoContainer reports whether the source extension implies a video
// container for render_cut's container selection (spec.md §4.A).
func (h *Handle) IsVideoContainer() bool {
	switch h.SourceExt {
	case "mp4", "mov", "mkv", "webm":
		return true
	default:
		return false
	}
}

// Adapter is the media-engine adapter (component A): a minimal,
// synchronous-contract surface of exactly five operations (spec.md
// §4.A) — Ingest, SilenceLog, ExtractWAV, VolumeLog, RenderCut. There is
// no separate duration probe; SilenceLog's log text carries the
// "Duration:" line segmenter.ParseTotalDuration reads, per §4.A's "used
// for both total-duration and interval extraction."
type Adapter struct {
	ffmpegPath string
	scratchDir string
}

// New locates ffmpeg in PATH and prepares a scratch directory,
// mirroring FFmpegHelper's NewFFmpegHelper.
func New(tempDir string) (*Adapter, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, model.NewEngineError(model.EngineLoadFailed, "ffmpeg not found in PATH", err)
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, model.NewEngineError(model.EngineFileSystem, "failed to create scratch directory", err)
	}
	return &Adapter{ffmpegPath: ffmpegPath, scratchDir: tempDir}, nil
}

// Ingest places sourcePath's bytes where the engine can read them
// (spec.md §4.A). Files at or under streamedIngestThreshold are copied
// in full; larger files are mounted as a streamed-read view after a
// probe read of the first byte.
func (a *Adapter) Ingest(ctx context.Context, sourcePath string, progress ProgressFunc) (*Handle, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, model.NewError(model.KindSourceUnreadable, "cannot stat source file", err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(sourcePath), "."))

	if info.Size() > streamedIngestThreshold {
		f, err := os.Open(sourcePath)
		if err != nil {
			return nil, model.NewError(model.KindSourceUnreadable, "cannot open source for streamed view", err)
		}
		probe := make([]byte, 1)
		if _, err := f.ReadAt(probe, 0); err != nil && err != io.EOF {
			f.Close()
			return nil, model.NewError(model.KindSourceUnreadable, "probe read of first byte failed", err)
		}
		if progress != nil {
			progress(100)
		}
		return &Handle{Path: sourcePath, SourceExt: ext, Streamed: true, file: f}, nil
	}

	dst := filepath.Join(a.scratchDir, uuid.New().String()+"_input."+ext)
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, model.NewError(model.KindSourceUnreadable, "failed to read source file", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return nil, model.NewEngineError(model.EngineFileSystem, "failed to copy source into scratch space", err)
	}
	if progress != nil {
		progress(100)
	}
	return &Handle{Path: dst, SourceExt: ext}, nil
}

// Close releases the handle's scratch file/mounted view.
func (a *Adapter) Close(h *Handle) error {
	if h.file != nil {
		h.file.Close()
	}
	if !h.Streamed {
		return os.Remove(h.Path)
	}
	return nil
}

// SilenceLog runs a silence-detect filter and returns the engine's
// textual log, used by the segmenter for both total-duration and
// interval extraction (spec.md §4.A/§4.B).
func (a *Adapter) SilenceLog(ctx context.Context, h *Handle, noiseDB int, minSilenceS float64) (string, error) {
	args := []string{
		"-i", h.Path,
		"-af", fmt.Sprintf("silencedetect=noise=%ddB:d=%.6f", noiseDB, minSilenceS),
		"-f", "null",
		"-",
	}
	out, err := a.runCapturingStderr(ctx, args)
	if err != nil && !benignNullExit(err, out) {
		return "", model.NewEngineError(model.EngineExecFailed, "silence detect failed", err)
	}
	if out == "" {
		return "", model.NewEngineError(model.EngineExecFailed, "silence detect produced no output", err)
	}
	return out, nil
}

// ExtractWAV produces 16 kHz mono 16-bit PCM WAV bytes for [start, end)
// (spec.md §4.A).
func (a *Adapter) ExtractWAV(ctx context.Context, h *Handle, start, end float64) ([]byte, error) {
	outPath := filepath.Join(a.scratchDir, uuid.New().String()+".wav")
	defer os.Remove(outPath)

	args := []string{
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", end-start),
		"-i", h.Path,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outPath,
	}
	cmd := exec.CommandContext(ctx, a.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, model.NewEngineError(model.EngineExecFailed, "wav extraction failed: "+stderr.String(), err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, model.NewEngineError(model.EngineFileSystem, "failed to read extracted wav", err)
	}
	return data, nil
}

// VolumeLog runs a volume probe over [start, end) and returns the
// engine's textual log (spec.md §4.A/§4.C).
func (a *Adapter) VolumeLog(ctx context.Context, h *Handle, start, end float64) (string, error) {
	args := []string{
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", end-start),
		"-i", h.Path,
		"-af", "volumedetect",
		"-f", "null",
		"-",
	}
	out, err := a.runCapturingStderr(ctx, args)
	if err != nil && !benignNullExit(err, out) {
		return "", model.NewEngineError(model.EngineExecFailed, "volume probe failed", err)
	}
	if out == "" {
		return "", model.NewEngineError(model.EngineExecFailed, "volume probe produced no output", err)
	}
	return out, nil
}

// RenderCut concatenates intervals into a single output file, choosing a
// container by source extension (spec.md §4.A/§4.H): video-like source
// extensions render to mp4, everything else to mp3.
func (a *Adapter) RenderCut(ctx context.Context, h *Handle, intervals [][2]float64, progress ProgressFunc) ([]byte, string, error) {
	container := "mp3"
	if h.IsVideoContainer() {
		container = "mp4"
	}

	listPath := filepath.Join(a.scratchDir, uuid.New().String()+"_concat.txt")
	defer os.Remove(listPath)

	var segmentPaths []string
	defer func() {
		for _, p := range segmentPaths {
			os.Remove(p)
		}
	}()

	var listBuf bytes.Buffer
	for i, iv := range intervals {
		segPath := filepath.Join(a.scratchDir, fmt.Sprintf("%s_seg%04d.%s", uuid.New().String(), i, container))
		extractArgs := []string{
			"-ss", fmt.Sprintf("%.3f", iv[0]),
			"-t", fmt.Sprintf("%.3f", iv[1]-iv[0]),
			"-i", h.Path,
		}
		if container == "mp3" {
			extractArgs = append(extractArgs, "-vn", "-acodec", "libmp3lame")
		} else {
			extractArgs = append(extractArgs, "-c", "copy")
		}
		extractArgs = append(extractArgs, "-y", segPath)

		cmd := exec.CommandContext(ctx, a.ffmpegPath, extractArgs...)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			return nil, "", model.NewEngineError(model.EngineExecFailed, "render segment extraction failed: "+stderr.String(), err)
		}
		segmentPaths = append(segmentPaths, segPath)
		fmt.Fprintf(&listBuf, "file '%s'\n", segPath)

		if progress != nil {
			progress(float64(i+1) / float64(len(intervals)) * 90)
		}
	}

	if err := os.WriteFile(listPath, listBuf.Bytes(), 0o644); err != nil {
		return nil, "", model.NewEngineError(model.EngineFileSystem, "failed to write concat list", err)
	}

	outPath := filepath.Join(a.scratchDir, uuid.New().String()+"_cut."+container)
	defer os.Remove(outPath)

	concatArgs := []string{"-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", "-y", outPath}
	cmd := exec.CommandContext(ctx, a.ffmpegPath, concatArgs...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, "", model.NewEngineError(model.EngineExecFailed, "render concat failed: "+stderr.String(), err)
	}

	if progress != nil {
		progress(100)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, "", model.NewEngineError(model.EngineFileSystem, "failed to read rendered output", err)
	}
	return data, container, nil
}

func (a *Adapter) runCapturingStderr(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, a.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// benignNullExit tolerates ffmpeg's non-zero exit from "-f null" probes
// as long as the log was populated with a silence_end, mean_volume or
// max_volume line (spec.md §4.A, §7).
func benignNullExit(err error, log string) bool {
	if log == "" {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "exit status") &&
		(strings.Contains(log, "silence_end") || strings.Contains(log, "mean_volume") || strings.Contains(log, "max_volume"))
}
