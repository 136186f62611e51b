package encoder

import (
	"encoding/binary"
	"math"
	"testing"
)

// sinePCM generates n samples of a 440 Hz tone as s16le bytes.
func sinePCM(n int) []byte {
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := int16(10000 * math.Sin(2*math.Pi*440*float64(i)/float64(SampleRate)))
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"wav", "flac"} {
		f, err := ParseFormat(s)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", s, err)
		}
		if string(f) != s {
			t.Errorf("ParseFormat(%q) = %q", s, f)
		}
	}
	if _, err := ParseFormat("mp3"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWavHeader(t *testing.T) {
	pcm := sinePCM(SampleRate) // 1 second
	enc := &WavEncoder{}
	out, err := enc.Encode(pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(out) != 44+len(pcm) {
		t.Fatalf("output length = %d, want %d", len(out), 44+len(pcm))
	}
	if string(out[:4]) != "RIFF" || string(out[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(out[24:]); got != SampleRate {
		t.Errorf("sample rate = %d, want %d", got, SampleRate)
	}
	if got := binary.LittleEndian.Uint16(out[22:]); got != Channels {
		t.Errorf("channels = %d, want %d", got, Channels)
	}
	if got := binary.LittleEndian.Uint32(out[40:]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
}

func TestWavEmptyBuffer(t *testing.T) {
	enc := &WavEncoder{}
	out, err := enc.Encode(nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) != 44 {
		t.Errorf("empty buffer should yield bare header, got %d bytes", len(out))
	}
}

func TestFlacEncode(t *testing.T) {
	pcm := sinePCM(SampleRate * 2)
	enc := &FlacEncoder{}
	out, err := enc.Encode(pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) < 4 || string(out[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
	t.Logf("raw: %d bytes, flac: %d bytes (%.1f%% compression)",
		len(pcm), len(out), (1-float64(len(out))/float64(len(pcm)))*100)
}

func TestFlacPartialBlock(t *testing.T) {
	// Buffer that is not a multiple of the FLAC block size.
	pcm := sinePCM(BlockSize + BlockSize/4)
	enc := &FlacEncoder{}
	out, err := enc.Encode(pcm)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestNewDispatch(t *testing.T) {
	for _, f := range []Format{FormatWAV, FormatFLAC} {
		enc, err := New(f)
		if err != nil {
			t.Fatalf("New(%q): %v", f, err)
		}
		if enc.Format() != f {
			t.Errorf("New(%q).Format() = %q", f, enc.Format())
		}
	}
}

func TestFormatNames(t *testing.T) {
	if FormatWAV.FileName() != "audio.wav" || FormatWAV.MIMEType() != "audio/wav" {
		t.Error("wav naming mismatch")
	}
	if FormatFLAC.FileName() != "audio.flac" || FormatFLAC.MIMEType() != "audio/flac" {
		t.Error("flac naming mismatch")
	}
}
