package transcription

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWAV(sampleRate uint32, channels, bits uint16, samples []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, channels)
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	byteRate := sampleRate * uint32(channels) * uint32(bits) / 8
	binary.Write(&buf, binary.LittleEndian, byteRate)
	blockAlign := channels * bits / 8
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, bits)

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes()
}

func TestDecodeWAVHeader_WalksChunks(t *testing.T) {
	samples := make([]byte, 320) // 160 16-bit samples
	raw := buildWAV(16000, 1, 16, samples)

	info, err := decodeWAVHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, uint32(16000), info.SampleRate)
	assert.Equal(t, uint16(1), info.Channels)
	assert.Equal(t, uint16(16), info.BitsPerSample)
	assert.Equal(t, uint32(len(samples)), info.DataSize)
}

func TestDecodeWAVHeader_RejectsNonRIFF(t *testing.T) {
	_, err := decodeWAVHeader([]byte("not a wav file at all"))
	require.Error(t, err)
}

func TestDecodeWAVHeader_FallsBackToFixedOffset(t *testing.T) {
	data := append([]byte("RIFF"), make([]byte, 100)...)
	copy(data[8:12], "WAVE")
	info, err := decodeWAVHeader(data)
	require.NoError(t, err)
	assert.Equal(t, fixedDataOffset, info.DataOffset)
}

func TestDecodePCM16_NormalizesToFloat32Range(t *testing.T) {
	var samples bytes.Buffer
	binary.Write(&samples, binary.LittleEndian, int16(32767))  // max positive
	binary.Write(&samples, binary.LittleEndian, int16(-32768)) // max negative
	binary.Write(&samples, binary.LittleEndian, int16(0))

	raw := buildWAV(16000, 1, 16, samples.Bytes())
	info, err := decodeWAVHeader(raw)
	require.NoError(t, err)

	out, err := decodePCM16(raw, info)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.InDelta(t, 0.99997, out[0], 0.0001)
	assert.Equal(t, float32(-1.0), out[1])
	assert.Equal(t, float32(0), out[2])
}

func TestDecodePCM16_RejectsNonSixteenBit(t *testing.T) {
	raw := buildWAV(16000, 1, 8, make([]byte, 8))
	info, err := decodeWAVHeader(raw)
	require.NoError(t, err)

	_, err = decodePCM16(raw, info)
	require.Error(t, err)
}
