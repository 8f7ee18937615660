package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToFrames_Rounds(t *testing.T) {
	assert.Equal(t, 25, ToFrames(1.0, 25))
	assert.Equal(t, 12, ToFrames(0.5, 25))  // 12.5 ties down to 12, not 13
	assert.Equal(t, 0, ToFrames(0.01, 25))  // 0.25 rounds down to 0
	assert.Equal(t, 62, ToFrames(2.5, 25))  // spec.md §8 S5: 62.5 ties down to 62
	assert.Equal(t, 87, ToFrames(3.5, 25))  // 87.5 ties down to 87, same rule
}

func TestTimecode_Format(t *testing.T) {
	assert.Equal(t, "00:00:01:00", Timecode(25, 25))
	assert.Equal(t, "01:00:00:00", Timecode(25*3600, 25))
	assert.Equal(t, "00:00:00:12", Timecode(12, 25))
}

func TestSecondsToTimecode(t *testing.T) {
	assert.Equal(t, "00:00:02:12", SecondsToTimecode(2.5, 25))
}
