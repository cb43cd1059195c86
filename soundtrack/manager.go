// Package soundtrack switches between a looping ambient track and a one-shot
// cutscene track. All methods must be called from the simulation goroutine;
// decoding happens in the background and is polled by Update.
package soundtrack

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/vignette/future"
)

// Config names the tracks and their levels.
type Config struct {
	AmbientTrack  string
	AmbientVolume float64
	CutsceneTrack string
	CutsceneGain  float64
	// CutsceneStart is where the cutscene track starts playing.
	CutsceneStart time.Duration
	// EndGuard keeps the start offset away from the very end of short tracks.
	EndGuard time.Duration
}

type stage int

const (
	stageAwaitMixer stage = iota
	stageAwaitBuffer
)

// pendingStart is a crossfade-in waiting on the mixer or the buffer.
type pendingStart struct {
	gen    uint64
	stage  stage
	buffer *future.Future[*Buffer]
}

// Manager owns the ambient track, the decoded cutscene buffer, and at most one
// live cutscene source.
type Manager struct {
	backend Backend
	cfg     Config
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	capChecked bool
	capErr     error

	ambient        Track
	ambientLoad    *future.Future[Track]
	ambientStarted bool
	ambientPaused  time.Duration

	loads   future.Group[*Buffer]
	buffer  *Buffer
	loading *future.Future[*Buffer]

	cutsceneActive bool
	gen            uint64
	pending        *pendingStart
	source         Source
}

func NewManager(backend Backend, cfg Config, logger zerolog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		backend: backend,
		cfg:     cfg,
		logger:  logger.With().Str("component", "soundtrack").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// capability checks the device once and caches the answer.
func (m *Manager) capability() error {
	if m.capChecked {
		return m.capErr
	}
	m.capChecked = true
	if m.backend == nil {
		m.capErr = ErrUnavailable
	} else {
		m.capErr = m.backend.Err()
	}
	if m.capErr != nil {
		m.logger.Warn().Err(m.capErr).Msg("audio disabled")
	}
	return m.capErr
}

// Interact is called on every user interaction. The first one starts the
// ambient loop; every one nudges a suspended mixer and pre-warms the cutscene
// buffer when it is neither loaded nor loading.
func (m *Manager) Interact() {
	if m.capability() != nil {
		return
	}
	m.backend.Resume()
	if m.buffer == nil && m.loading == nil {
		m.ensureBuffer()
	}

	if m.ambientStarted {
		return
	}
	m.ambientStarted = true
	if m.ambient != nil {
		if !m.cutsceneActive {
			m.ambient.Play()
		}
		return
	}
	if m.ambientLoad == nil {
		name, volume := m.cfg.AmbientTrack, m.cfg.AmbientVolume
		m.ambientLoad = future.Go(m.ctx, func(ctx context.Context, _ future.Reporter) (Track, error) {
			return m.backend.OpenLoop(ctx, name, volume)
		})
	}
}

// ensureBuffer returns the decoded cutscene buffer, starting a single load
// when none is in flight.
func (m *Manager) ensureBuffer() *future.Future[*Buffer] {
	if m.buffer != nil {
		return future.Resolved(m.buffer)
	}
	if m.loading != nil {
		return m.loading
	}
	if err := m.capability(); err != nil {
		return future.Rejected[*Buffer](err)
	}
	name := m.cfg.CutsceneTrack
	m.loading = m.loads.Do(m.ctx, name, func(ctx context.Context, report future.Reporter) (*Buffer, error) {
		return m.backend.Decode(ctx, name, report)
	})
	m.logger.Debug().Str("track", name).Msg("decoding cutscene track")
	return m.loading
}

// StartCutsceneTrack pauses the ambient loop, remembering where it was, and
// starts the cutscene track once the mixer and the buffer are ready. It is a
// no-op while the cutscene track is already requested.
func (m *Manager) StartCutsceneTrack() {
	if m.cutsceneActive {
		return
	}
	m.cutsceneActive = true
	m.gen++
	m.ambientPaused = 0
	if m.ambient != nil {
		m.ambientPaused = m.ambient.Position()
		m.ambient.Pause()
	}

	if err := m.capability(); err != nil {
		m.recover(err)
		return
	}
	m.backend.Resume()
	m.pending = &pendingStart{gen: m.gen, stage: stageAwaitMixer}
	m.advancePending()
}

// StopCutsceneTrack stops the cutscene track, cancelling a start that is
// still waiting, and resumes the ambient loop where it was paused.
func (m *Manager) StopCutsceneTrack() {
	if !m.cutsceneActive {
		return
	}
	m.cutsceneActive = false
	m.gen++
	m.pending = nil
	m.stopSource()
	m.resumeAmbient()
}

// Update polls background work. Call it once per frame.
func (m *Manager) Update() {
	m.pollBuffer()
	m.pollAmbient()
	m.advancePending()

	if m.source != nil && !m.source.IsPlaying() {
		m.logger.Debug().Msg("cutscene track finished")
		m.stopSource()
	}
}

func (m *Manager) pollBuffer() {
	if !m.loading.Ready() {
		return
	}
	buf, err := m.loading.Result()
	m.loading = nil
	if err != nil {
		m.logger.Warn().Err(err).Str("track", m.cfg.CutsceneTrack).Msg("cutscene track failed to load")
		return
	}
	m.buffer = buf
}

func (m *Manager) pollAmbient() {
	if !m.ambientLoad.Ready() {
		return
	}
	track, err := m.ambientLoad.Result()
	m.ambientLoad = nil
	if err != nil {
		m.logger.Warn().Err(err).Str("track", m.cfg.AmbientTrack).Msg("ambient track failed to open")
		m.ambientStarted = false
		return
	}
	m.ambient = track
	if m.cutsceneActive {
		return
	}
	if err := track.SetPosition(m.ambientPaused); err != nil {
		m.logger.Debug().Err(err).Msg("ambient seek")
	}
	track.Play()
}

func (m *Manager) advancePending() {
	p := m.pending
	if p == nil {
		return
	}
	if p.gen != m.gen {
		m.pending = nil
		return
	}

	if p.stage == stageAwaitMixer {
		if !m.backend.Ready() {
			return
		}
		p.stage = stageAwaitBuffer
		p.buffer = m.ensureBuffer()
	}

	if !p.buffer.Ready() {
		return
	}
	m.pending = nil
	buf, err := p.buffer.Result()
	if p.gen != m.gen {
		return
	}
	if err != nil {
		m.recover(err)
		return
	}
	if err := m.startSource(buf); err != nil {
		m.recover(err)
	}
}

func (m *Manager) startSource(buf *Buffer) error {
	m.stopSource()
	src, err := m.backend.NewSource(buf, m.cfg.CutsceneGain)
	if err != nil {
		return err
	}
	offset := StartOffset(buf.Duration, m.cfg.CutsceneStart, m.cfg.EndGuard)
	if err := src.SetPosition(offset); err != nil {
		_ = src.Close()
		return err
	}
	src.Play()
	m.source = src
	m.logger.Info().Dur("offset", offset).Msg("cutscene track started")
	return nil
}

// StartOffset clamps the requested start into the playable part of a track.
func StartOffset(duration, start, guard time.Duration) time.Duration {
	limit := duration - guard
	if limit < 0 {
		limit = 0
	}
	if start > limit {
		return limit
	}
	if start < 0 {
		return 0
	}
	return start
}

func (m *Manager) stopSource() {
	if m.source == nil {
		return
	}
	m.source.Pause()
	_ = m.source.Close()
	m.source = nil
}

// recover abandons the cutscene track and goes back to the ambient loop.
func (m *Manager) recover(err error) {
	if !errors.Is(err, future.ErrCancelled) {
		m.logger.Warn().Err(err).Msg("cutscene track unavailable, resuming ambient")
	}
	m.cutsceneActive = false
	m.pending = nil
	m.stopSource()
	m.resumeAmbient()
}

func (m *Manager) resumeAmbient() {
	if m.ambient == nil {
		return
	}
	if !m.ambientStarted {
		return
	}
	if err := m.ambient.SetPosition(m.ambientPaused); err != nil {
		m.logger.Debug().Err(err).Msg("ambient seek")
	}
	m.ambient.Play()
}

// CutsceneActive reports whether the cutscene track has been requested and
// not yet stopped.
func (m *Manager) CutsceneActive() bool { return m.cutsceneActive }

// CutscenePlaying reports whether a cutscene source is live.
func (m *Manager) CutscenePlaying() bool { return m.source != nil }

// AmbientPlaying reports whether the ambient loop is audible.
func (m *Manager) AmbientPlaying() bool { return m.ambient != nil && m.ambient.IsPlaying() }

// BufferProgress reports the decode progress of the cutscene track.
func (m *Manager) BufferProgress() float64 {
	if m.buffer != nil {
		return 1
	}
	return m.loading.Progress()
}

// Close stops playback and abandons background loads.
func (m *Manager) Close() {
	m.cancel()
	m.gen++
	m.pending = nil
	m.stopSource()
	if m.ambient != nil {
		m.ambient.Pause()
	}
}
