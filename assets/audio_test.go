package assets

import (
	"context"
	"testing"
	"time"
)

func TestFetchReportsProgress(t *testing.T) {
	var last float64
	data, err := Fetch(context.Background(), "audio/ambient.wav", func(p float64) { last = p })
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(data) == 0 || last != 1 {
		t.Fatalf("read %d bytes, final progress %v", len(data), last)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, "audio/ambient.wav", nil); err == nil {
		t.Fatalf("cancelled fetch should fail")
	}
}

func TestDecodeStream(t *testing.T) {
	data, err := LoadFile("audio/ambient.wav")
	if err != nil {
		t.Fatal(err)
	}
	stream, err := decodeStream(44100, "audio/ambient.wav", data)
	if err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	// 8 seconds resampled to 44.1kHz stereo 16-bit.
	got := pcmDuration(int(stream.Length()), 44100)
	if got < 7900*time.Millisecond || got > 8100*time.Millisecond {
		t.Fatalf("duration = %v", got)
	}

	if _, err := decodeStream(44100, "theme.flac", data); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestPCMDuration(t *testing.T) {
	if d := pcmDuration(44100*4*2, 44100); d != 2*time.Second {
		t.Fatalf("duration = %v", d)
	}
	if d := pcmDuration(100, 0); d != 0 {
		t.Fatalf("zero sample rate should give zero, got %v", d)
	}
}
