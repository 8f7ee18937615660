package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

// OracleClient talks to the external AI scoring oracle (spec.md §4.F).
type OracleClient struct {
	http   httpClient
	apiKey string
}

// NewOracleClient builds a client pointed at the oracle's base URL.
// The API key is carried here rather than per-call: every Score call
// gates on it being non-empty (spec.md §7 MissingCredential).
func NewOracleClient(baseURL, apiKey string) *OracleClient {
	return &OracleClient{
		http:   newHTTPClient(baseURL, apiKey, 90*time.Second),
		apiKey: apiKey,
	}
}

// OracleTakeScore is one take's evaluation as returned by the oracle.
type OracleTakeScore struct {
	Index        int     `json:"segment_index"`
	AudioQuality float64 `json:"audio_quality"`
	Content      float64 `json:"content"`
	Emotion      float64 `json:"emotion"`
	Overall      float64 `json:"overall"`
	Comment      string  `json:"comment"`
}

// OracleGroupScore is the oracle's verdict for one group of takes
// (spec.md §4.F's `evaluations[]` entries).
type OracleGroupScore struct {
	GroupID       int               `json:"group_id"`
	Scores        []OracleTakeScore `json:"takes"`
	BestTakeIndex int               `json:"best_take_index"`
	Reason        string            `json:"reason"`
}

// OracleResponse is the full scoring reply, matching spec.md §4.F's wire
// shape exactly: `{ evaluations, suggested_order, overall_notes }`.
type OracleResponse struct {
	Groups         []OracleGroupScore `json:"evaluations"`
	SuggestedOrder []int              `json:"suggested_order"`
	OverallNotes   string             `json:"overall_notes"`
}

type scorePromptGroup struct {
	GroupID int                  `json:"group_id"`
	Takes   []scorePromptSegment `json:"takes"`
}

type scorePromptSegment struct {
	Index      int      `json:"index"`
	Text       string   `json:"text"`
	MeanDB     *float64 `json:"mean_db,omitempty"`
	QualityTag string   `json:"quality_tag"`
}

// Score sends every group's takes to the oracle and returns its parsed
// verdict. It gates on the API key up front, the same credential check
// the teacher's clients perform before any network call.
func (c *OracleClient) Score(ctx context.Context, groups []*model.Group) (*OracleResponse, error) {
	if c.apiKey == "" {
		return nil, model.NewError(model.KindMissingCredential, "ORACLE_API_KEY is not configured", nil)
	}

	prompt := make([]scorePromptGroup, 0, len(groups))
	for _, g := range groups {
		takes := make([]scorePromptSegment, 0, len(g.Takes))
		for _, t := range g.Takes {
			takes = append(takes, scorePromptSegment{
				Index:      t.Index,
				Text:       t.Transcription.Text,
				MeanDB:     t.AudioMetrics.MeanDB,
				QualityTag: string(t.AudioMetrics.QualityTag),
			})
		}
		prompt = append(prompt, scorePromptGroup{GroupID: g.GroupID, Takes: takes})
	}

	reqBody, err := json.Marshal(struct {
		Groups []scorePromptGroup `json:"groups"`
	}{Groups: prompt})
	if err != nil {
		return nil, fmt.Errorf("failed to encode score request: %w", err)
	}

	respBody, status, err := c.http.doRequest(ctx, http.MethodPost, "/score", reqBody, nil)
	if err != nil {
		return nil, model.NewError(model.KindOracleProtocol, "oracle request failed: "+err.Error(), err)
	}
	if status >= 400 {
		return nil, model.NewError(model.KindOracleProtocol, fmt.Sprintf("oracle returned status %d: %s", status, string(respBody)), nil)
	}

	parsed, err := parseOracleReply(respBody)
	if err != nil {
		return nil, model.NewError(model.KindOracleParse, "failed to parse oracle reply: "+err.Error(), err)
	}

	if len(parsed.Groups) != len(groups) {
		return nil, model.NewError(model.KindOracleShape,
			fmt.Sprintf("oracle returned %d group verdicts for %d groups", len(parsed.Groups), len(groups)), nil)
	}

	if len(parsed.SuggestedOrder) == 0 {
		parsed.SuggestedOrder = identityOrder(len(groups))
	}

	return parsed, nil
}

// parseOracleReply accepts either a bare JSON object or one fenced in a
// ```json ... ``` markdown block, since the oracle is a text-completion
// style model underneath (spec.md §4.F).
func parseOracleReply(body []byte) (*OracleResponse, error) {
	text := strings.TrimSpace(string(body))
	text = stripCodeFence(text)

	var parsed OracleResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return text
	}
	lines = lines[1:]
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
