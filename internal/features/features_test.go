package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVolumeLog(t *testing.T) {
	log := `[Parsed_volumedetect_0 @ 0x55] mean_volume: -18.3 dB
[Parsed_volumedetect_0 @ 0x55] max_volume: -2.1 dB
`
	mean, max, err := parseVolumeLog(log)
	require.NoError(t, err)
	require.NotNil(t, mean)
	require.NotNil(t, max)
	assert.InDelta(t, -18.3, *mean, 1e-9)
	assert.InDelta(t, -2.1, *max, 1e-9)
}

func TestParseVolumeLog_MissingFields(t *testing.T) {
	mean, max, err := parseVolumeLog("no useful lines here\n")
	require.NoError(t, err)
	assert.Nil(t, mean)
	assert.Nil(t, max)
}

func TestClassify(t *testing.T) {
	clip := -2.0
	quiet := -40.0
	good := -15.0

	assert.Equal(t, "loud/clipping", string(classify(&clip, nil)))
	assert.Equal(t, "quiet", string(classify(&quiet, nil)))
	assert.Equal(t, "good", string(classify(&good, nil)))
	assert.Equal(t, "quiet", string(classify(nil, nil))) // missing mean defaults to -70dB
}
