package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

func TestScore_MissingCredentialGatesBeforeNetworkCall(t *testing.T) {
	c := NewOracleClient("http://127.0.0.1:0", "")
	_, err := c.Score(context.Background(), []*model.Group{{GroupID: 0}})
	require.Error(t, err)

	var pe *model.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.KindMissingCredential, pe.Kind)
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n{\"evaluations\":[]}\n```"
	assert.Equal(t, `{"evaluations":[]}`, stripCodeFence(fenced))

	bare := `{"evaluations":[]}`
	assert.Equal(t, bare, stripCodeFence(bare))
}

func TestParseOracleReply_BareAndFenced(t *testing.T) {
	bare := []byte(`{"evaluations":[{"group_id":0,"takes":[{"segment_index":0,"overall":8.5}],"best_take_index":0,"reason":"clearest delivery"}],"suggested_order":[0],"overall_notes":"one group scored"}`)
	parsed, err := parseOracleReply(bare)
	require.NoError(t, err)
	require.Len(t, parsed.Groups, 1)
	assert.Equal(t, 0, parsed.Groups[0].BestTakeIndex)
	assert.Equal(t, "clearest delivery", parsed.Groups[0].Reason)
	assert.Equal(t, "one group scored", parsed.OverallNotes)

	fenced := []byte("```json\n" + string(bare) + "\n```")
	parsed2, err := parseOracleReply(fenced)
	require.NoError(t, err)
	assert.Equal(t, parsed.Groups[0].GroupID, parsed2.Groups[0].GroupID)
}

func TestScore_ShapeMismatchIsOracleShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"evaluations":[],"suggested_order":[]}`))
	}))
	defer srv.Close()

	c := NewOracleClient(srv.URL, "test-key")
	_, err := c.Score(context.Background(), []*model.Group{{GroupID: 0}})
	require.Error(t, err)

	var pe *model.PipelineError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.KindOracleShape, pe.Kind)
}

func TestScore_DefaultsSuggestedOrderToIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"evaluations":[{"group_id":0,"takes":[],"best_take_index":0},{"group_id":1,"takes":[],"best_take_index":0}]}`))
	}))
	defer srv.Close()

	c := NewOracleClient(srv.URL, "test-key")
	resp, err := c.Score(context.Background(), []*model.Group{{GroupID: 0}, {GroupID: 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, resp.SuggestedOrder)
}
