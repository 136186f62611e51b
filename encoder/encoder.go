package encoder

import "fmt"

const (
	SampleRate    = 16000
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

// Format identifies the container produced from a raw capture buffer.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatFLAC Format = "flac"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatWAV, FormatFLAC:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (use wav or flac)", s)
	}
}

func (f Format) FileName() string {
	return "audio." + string(f)
}

func (f Format) MIMEType() string {
	switch f {
	case FormatFLAC:
		return "audio/flac"
	default:
		return "audio/wav"
	}
}

// Encoder turns a finished s16le mono capture buffer into container bytes.
// Encoding is pure and in-memory.
type Encoder interface {
	Encode(pcm []byte) ([]byte, error)
	Format() Format
}

func New(f Format) (Encoder, error) {
	switch f {
	case FormatWAV:
		return &WavEncoder{}, nil
	case FormatFLAC:
		return &FlacEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}
