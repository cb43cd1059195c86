package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/milk9111/vignette/future"
	"github.com/milk9111/vignette/soundtrack"
)

// Decoded streams are 16-bit little-endian stereo.
const bytesPerFrame = 4

type pcmStream interface {
	io.ReadSeeker
	Length() int64
}

// AudioBackend plays soundtrack tracks through the Ebitengine audio context.
type AudioBackend struct {
	sampleRate int
	enabled    bool

	once sync.Once
	ctx  *audio.Context
	err  error
}

func NewAudioBackend(sampleRate int, enabled bool) *AudioBackend {
	return &AudioBackend{sampleRate: sampleRate, enabled: enabled}
}

func (b *AudioBackend) context() (*audio.Context, error) {
	b.once.Do(func() {
		if !b.enabled {
			b.err = soundtrack.ErrUnavailable
			return
		}
		defer func() {
			if r := recover(); r != nil {
				b.ctx = nil
				b.err = fmt.Errorf("%w: %v", soundtrack.ErrUnavailable, r)
			}
		}()
		if ctx := audio.CurrentContext(); ctx != nil {
			b.ctx = ctx
			b.sampleRate = ctx.SampleRate()
			return
		}
		b.ctx = audio.NewContext(b.sampleRate)
	})
	return b.ctx, b.err
}

func (b *AudioBackend) Err() error {
	_, err := b.context()
	return err
}

func (b *AudioBackend) Ready() bool {
	ctx, err := b.context()
	return err == nil && ctx.IsReady()
}

// Resume is a no-op: Ebitengine starts the device after the first user
// gesture on its own.
func (b *AudioBackend) Resume() {}

func (b *AudioBackend) OpenLoop(ctx context.Context, name string, volume float64) (soundtrack.Track, error) {
	actx, err := b.context()
	if err != nil {
		return nil, err
	}
	data, err := Fetch(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	stream, err := decodeStream(b.sampleRate, name, data)
	if err != nil {
		return nil, err
	}
	player, err := actx.NewPlayer(audio.NewInfiniteLoop(stream, stream.Length()))
	if err != nil {
		return nil, fmt.Errorf("assets: player %s: %w", name, err)
	}
	player.SetVolume(volume)
	return player, nil
}

// Decode fetches and decodes name fully. Progress covers the fetch in the
// first half and the decode in the second.
func (b *AudioBackend) Decode(ctx context.Context, name string, report future.Reporter) (*soundtrack.Buffer, error) {
	if _, err := b.context(); err != nil {
		return nil, err
	}
	data, err := Fetch(ctx, name, func(p float64) { report(p / 2) })
	if err != nil {
		return nil, err
	}
	stream, err := decodeStream(b.sampleRate, name, data)
	if err != nil {
		return nil, err
	}
	pcm, err := readAllReporting(ctx, stream, stream.Length(), func(p float64) { report(0.5 + p/2) })
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return &soundtrack.Buffer{
		Name:     name,
		PCM:      pcm,
		Duration: pcmDuration(len(pcm), b.sampleRate),
	}, nil
}

func (b *AudioBackend) NewSource(buf *soundtrack.Buffer, gain float64) (soundtrack.Source, error) {
	actx, err := b.context()
	if err != nil {
		return nil, err
	}
	player := actx.NewPlayerFromBytes(buf.PCM)
	player.SetVolume(gain)
	return player, nil
}

func decodeStream(sampleRate int, name string, data []byte) (pcmStream, error) {
	r := bytes.NewReader(data)
	var (
		stream pcmStream
		err    error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, r)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, r)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, r)
	default:
		return nil, fmt.Errorf("assets: %s: unsupported audio format", name)
	}
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", name, err)
	}
	return stream, nil
}

func readAllReporting(ctx context.Context, r io.Reader, total int64, report future.Reporter) ([]byte, error) {
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	chunk := make([]byte, fetchChunk)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		buf.Write(chunk[:n])
		if total > 0 {
			report(float64(buf.Len()) / float64(total))
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func pcmDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := int64(n / bytesPerFrame)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
