package soundtrack

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/vignette/future"
)

type fakeTrack struct {
	playing bool
	pos     time.Duration
	plays   int
	gain    float64
	closed  bool
}

func (t *fakeTrack) Play() {
	t.playing = true
	t.plays++
}
func (t *fakeTrack) Pause()                  { t.playing = false }
func (t *fakeTrack) IsPlaying() bool         { return t.playing }
func (t *fakeTrack) Position() time.Duration { return t.pos }
func (t *fakeTrack) SetPosition(d time.Duration) error {
	t.pos = d
	return nil
}
func (t *fakeTrack) Close() error {
	if t.closed {
		return errors.New("already closed")
	}
	t.closed = true
	t.playing = false
	return nil
}

type fakeBackend struct {
	mu        sync.Mutex
	err       error
	errCalls  int
	ready     bool
	resumes   int
	opens     int
	decodes   int
	decodeErr error
	release   chan struct{}
	duration  time.Duration

	ambient *fakeTrack
	sources []*fakeTrack
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{ready: true, duration: 3 * time.Minute, ambient: &fakeTrack{}}
}

func (b *fakeBackend) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errCalls++
	return b.err
}

func (b *fakeBackend) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

func (b *fakeBackend) Resume() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resumes++
}

func (b *fakeBackend) OpenLoop(_ context.Context, _ string, _ float64) (Track, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	return b.ambient, nil
}

func (b *fakeBackend) Decode(ctx context.Context, name string, report future.Reporter) (*Buffer, error) {
	b.mu.Lock()
	b.decodes++
	release := b.release
	err := b.decodeErr
	duration := b.duration
	b.mu.Unlock()

	report(0.5)
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &Buffer{Name: name, Duration: duration}, nil
}

func (b *fakeBackend) NewSource(_ *Buffer, gain float64) (Source, error) {
	src := &fakeTrack{gain: gain}
	b.sources = append(b.sources, src)
	return src, nil
}

func (b *fakeBackend) decodeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.decodes
}

func (b *fakeBackend) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

func testConfig() Config {
	return Config{
		AmbientTrack:  "ambient.mp3",
		AmbientVolume: 0.45,
		CutsceneTrack: "cutscene.mp3",
		CutsceneGain:  0.55,
		CutsceneStart: 52 * time.Second,
		EndGuard:      50 * time.Millisecond,
	}
}

func newTestManager(t *testing.T, b *fakeBackend) *Manager {
	t.Helper()
	m := NewManager(b, testConfig(), zerolog.Nop())
	t.Cleanup(m.Close)
	return m
}

// pumpUntil runs frames until cond holds or the deadline passes.
func pumpUntil(t *testing.T, m *Manager, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		m.Update()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not reached")
}

func TestAmbientWaitsForFirstInteraction(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b)

	for i := 0; i < 10; i++ {
		m.Update()
	}
	if b.openCount() != 0 || m.AmbientPlaying() {
		t.Fatalf("ambient must not start without an interaction")
	}

	m.Interact()
	pumpUntil(t, m, m.AmbientPlaying)
	pumpUntil(t, m, func() bool { return m.BufferProgress() == 1 })

	m.Interact()
	m.Interact()
	m.Update()
	if n := b.openCount(); n != 1 {
		t.Fatalf("ambient opened %d times", n)
	}
	if n := b.decodeCount(); n != 1 {
		t.Fatalf("first interaction should pre-warm exactly one decode, got %d", n)
	}
}

func TestCrossfadeRoundTrip(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b)

	m.Interact()
	pumpUntil(t, m, m.AmbientPlaying)
	b.ambient.pos = 10 * time.Second

	m.StartCutsceneTrack()
	if b.ambient.playing {
		t.Fatalf("ambient should pause when the cutscene track is requested")
	}
	pumpUntil(t, m, m.CutscenePlaying)

	if len(b.sources) != 1 {
		t.Fatalf("expected one source, got %d", len(b.sources))
	}
	src := b.sources[0]
	if src.pos != 52*time.Second || src.gain != 0.55 || !src.playing {
		t.Fatalf("unexpected source state %+v", src)
	}

	b.ambient.pos = 99 * time.Second
	m.StopCutsceneTrack()
	if !src.closed {
		t.Fatalf("source should be closed on stop")
	}
	if m.CutscenePlaying() || m.CutsceneActive() {
		t.Fatalf("cutscene track should be gone")
	}
	if !b.ambient.playing || b.ambient.pos != 10*time.Second {
		t.Fatalf("ambient should resume at 10s, got playing=%v pos=%v", b.ambient.playing, b.ambient.pos)
	}

	m.StopCutsceneTrack()
	if len(b.sources) != 1 {
		t.Fatalf("second stop must be a no-op")
	}
}

func TestStartOffset(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     time.Duration
	}{
		{"long_track", 3 * time.Minute, 52 * time.Second},
		{"short_track", 30 * time.Second, 30*time.Second - 50*time.Millisecond},
		{"tiny_track", 10 * time.Millisecond, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := StartOffset(c.duration, 52*time.Second, 50*time.Millisecond)
			if got != c.want {
				t.Fatalf("StartOffset(%v) = %v, want %v", c.duration, got, c.want)
			}
		})
	}
}

func TestStopBeforeBufferArrivesCancelsStart(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	m := newTestManager(t, b)

	m.Interact()
	pumpUntil(t, m, m.AmbientPlaying)
	b.ambient.pos = 4 * time.Second

	m.StartCutsceneTrack()
	m.Update()
	m.StopCutsceneTrack()
	if !b.ambient.playing || b.ambient.pos != 4*time.Second {
		t.Fatalf("ambient should resume at once")
	}

	close(b.release)
	pumpUntil(t, m, func() bool { return m.BufferProgress() == 1 })
	for i := 0; i < 5; i++ {
		m.Update()
	}
	if len(b.sources) != 0 || m.CutscenePlaying() {
		t.Fatalf("a cancelled start must never create a source")
	}
}

func TestBufferIsDecodedOnce(t *testing.T) {
	b := newFakeBackend()
	b.release = make(chan struct{})
	m := newTestManager(t, b)

	m.Interact()
	m.Interact()
	m.StartCutsceneTrack()
	m.Update()
	m.Interact()
	close(b.release)
	pumpUntil(t, m, m.CutscenePlaying)

	if n := b.decodeCount(); n != 1 {
		t.Fatalf("expected one decode, got %d", n)
	}

	m.StopCutsceneTrack()
	m.StartCutsceneTrack()
	pumpUntil(t, m, m.CutscenePlaying)
	if n := b.decodeCount(); n != 1 {
		t.Fatalf("cached buffer should be reused, got %d decodes", n)
	}
}

func TestDecodeFailureResumesAmbientAndRetries(t *testing.T) {
	b := newFakeBackend()
	b.decodeErr = errors.New("bad mp3")
	m := newTestManager(t, b)

	m.Interact()
	pumpUntil(t, m, m.AmbientPlaying)
	b.ambient.pos = 7 * time.Second

	m.StartCutsceneTrack()
	pumpUntil(t, m, func() bool { return !m.CutsceneActive() })
	if !b.ambient.playing || b.ambient.pos != 7*time.Second {
		t.Fatalf("ambient should resume at the recorded offset after a failure")
	}
	if len(b.sources) != 0 {
		t.Fatalf("no source expected after failure")
	}

	b.mu.Lock()
	b.decodeErr = nil
	b.mu.Unlock()

	m.StartCutsceneTrack()
	pumpUntil(t, m, m.CutscenePlaying)
	if n := b.decodeCount(); n < 2 {
		t.Fatalf("expected a retry after failure, got %d decodes", n)
	}
}

func TestSourceThatEndsClearsHandle(t *testing.T) {
	b := newFakeBackend()
	m := newTestManager(t, b)

	m.Interact()
	pumpUntil(t, m, m.AmbientPlaying)
	m.StartCutsceneTrack()
	pumpUntil(t, m, m.CutscenePlaying)

	b.sources[0].playing = false
	m.Update()
	if m.CutscenePlaying() {
		t.Fatalf("finished source should clear its handle")
	}
	if !b.sources[0].closed {
		t.Fatalf("finished source should be released")
	}

	m.StopCutsceneTrack()
	if !b.ambient.playing {
		t.Fatalf("ambient should resume after stop")
	}
}

func TestMixerReadinessGatesStart(t *testing.T) {
	b := newFakeBackend()
	b.ready = false
	m := newTestManager(t, b)

	m.Interact()
	m.StartCutsceneTrack()
	pumpUntil(t, m, func() bool { return m.BufferProgress() == 1 })
	m.Update()
	if m.CutscenePlaying() {
		t.Fatalf("source must wait for the mixer")
	}

	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
	pumpUntil(t, m, m.CutscenePlaying)
}

func TestUnavailableAudioIsCached(t *testing.T) {
	b := newFakeBackend()
	b.err = ErrUnavailable
	m := newTestManager(t, b)

	m.Interact()
	m.StartCutsceneTrack()
	if m.CutsceneActive() {
		t.Fatalf("start should fall back immediately without audio")
	}
	m.Interact()
	m.StartCutsceneTrack()
	m.Update()

	if b.openCount() != 0 || b.decodeCount() != 0 {
		t.Fatalf("nothing should load without audio")
	}
	if b.errCalls != 1 {
		t.Fatalf("capability should be checked once, got %d", b.errCalls)
	}
}
