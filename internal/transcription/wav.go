// wav.go decodes a RIFF/WAVE header and its signed-16 PCM samples,
// walking chunks with encoding/binary the way askidmobile-AIWisper's
// wav_writer.go builds them (read direction instead of write), then
// normalizing samples to float32 per spec.md §4.D.1.
package transcription

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// fixedDataOffset is the conventional data-chunk offset for a canonical
// 44-byte WAV header, used as a fallback when chunk-walking fails to
// locate a "data" subchunk (malformed or unusual chunk ordering).
const fixedDataOffset = 44

// WAVInfo holds the fields this core needs out of a decoded header.
type WAVInfo struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
	DataSize      uint32
	DataOffset    int
}

var errNotRIFF = errors.New("not a RIFF/WAVE container")

// decodeWAVHeader walks the RIFF chunk list looking for "fmt " and
// "data", falling back to the fixed 44-byte offset if the data chunk
// can't be located by walking.
func decodeWAVHeader(data []byte) (WAVInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return WAVInfo{}, errNotRIFF
	}

	var info WAVInfo
	r := bytes.NewReader(data[12:])
	base := 12

	for r.Len() >= 8 {
		var id [4]byte
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			break
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			break
		}
		chunkStart := base + 8

		switch string(id[:]) {
		case "fmt ":
			fmtBuf := make([]byte, size)
			if _, err := r.Read(fmtBuf); err != nil {
				break
			}
			if len(fmtBuf) >= 16 {
				info.Channels = binary.LittleEndian.Uint16(fmtBuf[2:4])
				info.SampleRate = binary.LittleEndian.Uint32(fmtBuf[4:8])
				info.BitsPerSample = binary.LittleEndian.Uint16(fmtBuf[14:16])
			}
			base = chunkStart + int(size) + int(size%2)
			continue
		case "data":
			info.DataSize = size
			info.DataOffset = chunkStart
			return info, nil
		}

		skip := int(size) + int(size%2)
		if _, err := r.Seek(int64(skip), 1); err != nil {
			break
		}
		base = chunkStart + skip
	}

	if fixedDataOffset < len(data) {
		info.DataOffset = fixedDataOffset
		info.DataSize = uint32(len(data) - fixedDataOffset)
		return info, nil
	}
	return WAVInfo{}, errors.New("data chunk not found and file too short for fallback offset")
}

// decodePCM16 reads info's data chunk as signed-16 LE PCM and normalizes
// every sample to float32 in [-1.0, 1.0] (spec.md §4.D.1 step 1, before
// the speech engine is called with the decoded samples).
func decodePCM16(data []byte, info WAVInfo) ([]float32, error) {
	if info.BitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, only signed-16 PCM is decoded", info.BitsPerSample)
	}
	start := info.DataOffset
	end := start + int(info.DataSize)
	if start < 0 || end > len(data) || start > end {
		return nil, errors.New("data chunk bounds fall outside the buffer")
	}
	chunk := data[start:end]

	samples := make([]float32, len(chunk)/2)
	for i := range samples {
		raw := int16(binary.LittleEndian.Uint16(chunk[i*2 : i*2+2]))
		samples[i] = float32(raw) / 32768.0
	}
	return samples, nil
}
