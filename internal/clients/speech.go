package clients

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

// SpeechClient talks to the external speech-to-text engine (spec.md §4.D).
type SpeechClient struct {
	http httpClient
}

// NewSpeechClient builds a client pointed at the speech engine's base URL.
func NewSpeechClient(baseURL string) *SpeechClient {
	return &SpeechClient{http: newHTTPClient(baseURL, "", 60*time.Second)}
}

type transcribeRequest struct {
	SamplesBase64 string `json:"samplesBase64"` // little-endian float32 PCM, normalized to [-1.0, 1.0]
	SampleRate    uint32 `json:"sampleRate"`
	Channels      uint16 `json:"channels"`
	Model         string `json:"model"`
	Language      string `json:"language"`
}

// TranscribeChunk is one timestamped sub-span returned by the speech engine.
type TranscribeChunk struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type transcribeResponse struct {
	Text   string            `json:"text"`
	Chunks []TranscribeChunk `json:"chunks"`
}

// Transcribe sends decoded, normalized PCM samples (spec.md §4.D.1) and
// returns the transcription text plus its chunk breakdown.
func (c *SpeechClient) Transcribe(ctx context.Context, samples []float32, sampleRate uint32, channels uint16, model, language string) (string, []TranscribeChunk, error) {
	raw := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:i*4+4], math.Float32bits(s))
	}

	reqBody, err := json.Marshal(transcribeRequest{
		SamplesBase64: base64.StdEncoding.EncodeToString(raw),
		SampleRate:    sampleRate,
		Channels:      channels,
		Model:         model,
		Language:      language,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode transcribe request: %w", err)
	}

	respBody, status, err := c.http.doRequest(ctx, http.MethodPost, "/transcribe", reqBody, nil)
	if err != nil {
		return "", nil, fmt.Errorf("speech engine request failed: %w", err)
	}
	if status >= 400 {
		return "", nil, fmt.Errorf("speech engine returned status %d: %s", status, string(respBody))
	}

	var parsed transcribeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, fmt.Errorf("failed to parse speech engine response: %w", err)
	}

	return parsed.Text, parsed.Chunks, nil
}
