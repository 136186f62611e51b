package encoder

import (
	"bytes"
	"encoding/binary"
)

// WavEncoder wraps the raw PCM buffer in a canonical 44-byte RIFF header.
type WavEncoder struct{}

func (e *WavEncoder) Format() Format { return FormatWAV }

func (e *WavEncoder) Encode(pcm []byte) ([]byte, error) {
	const headerSize = 44
	dataLen := uint32(len(pcm))

	var buf bytes.Buffer
	buf.Grow(headerSize + len(pcm))

	byteRate := uint32(SampleRate * Channels * BitsPerSample / 8)
	blockAlign := uint16(Channels * BitsPerSample / 8)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	binary.Write(&buf, binary.LittleEndian, byteRate)
	binary.Write(&buf, binary.LittleEndian, blockAlign)
	binary.Write(&buf, binary.LittleEndian, uint16(BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)
	buf.Write(pcm)

	return buf.Bytes(), nil
}
