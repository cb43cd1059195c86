package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog"

	"github.com/milk9111/vignette/assets"
	"github.com/milk9111/vignette/config"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/ecs/entity"
	"github.com/milk9111/vignette/ecs/system"
	"github.com/milk9111/vignette/levels"
	"github.com/milk9111/vignette/prefabs"
	"github.com/milk9111/vignette/soundtrack"
)

type Game struct {
	settings config.Settings
	log      zerolog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	render    *system.RenderSystem
	dialogue  *DialogueUI
	music     *soundtrack.Manager
	watcher   *prefabs.Watcher

	cancel context.CancelFunc

	status    string
	offscreen *ebiten.Image

	// pendingScript is set when a script edit arrived mid-cutscene.
	pendingScript bool
}

func NewGame(settings config.Settings, logger zerolog.Logger) (*Game, error) {
	prefabs.SetDiskRoot(settings.PrefabDir)
	assets.SetDiskRoot(settings.AssetDir)

	lvl, err := levels.Load(settings.LevelDir, settings.Stage)
	if err != nil {
		return nil, fmt.Errorf("load stage: %w", err)
	}

	world := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(world, lvl); err != nil {
		return nil, fmt.Errorf("load stage %q: %w", lvl.Name, err)
	}
	if settings.MaxDt > 0 {
		ecs.ForEach(world, component.FrameClockComponent.Kind(), func(_ ecs.Entity, c *component.FrameClock) {
			c.MaxDt = settings.MaxDt
		})
	}

	trackSpec, err := prefabs.LoadSoundtrackSpec()
	if err != nil {
		return nil, err
	}
	music := soundtrack.NewManager(
		assets.NewAudioBackend(settings.Audio.SampleRate, settings.Audio.Enabled),
		soundtrack.Config{
			AmbientTrack:  trackSpec.Ambient.Track,
			AmbientVolume: trackSpec.Ambient.Volume,
			CutsceneTrack: trackSpec.Cutscene.Track,
			CutsceneGain:  trackSpec.Cutscene.Gain,
			CutsceneStart: seconds(trackSpec.Cutscene.StartSec),
			EndGuard:      seconds(trackSpec.Cutscene.GuardSec),
		},
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		settings: settings,
		log:      logger.With().Str("component", "game").Logger(),
		world:    world,
		render:   system.NewRenderSystem(),
		dialogue: NewDialogueUI(settings.Window.Width, settings.Window.Height),
		music:    music,
		cancel:   cancel,
	}

	g.scheduler = ecs.NewScheduler(
		system.NewClockSystem(),
		system.NewInputSystem(),
		system.NewLocomotionSystem(),
		system.NewDirectorSystem(g.dialogue, music, logger),
		system.NewCameraSystem(),
		system.NewPoseSystem(),
		system.NewModelSystem(ctx, g, logger),
		system.NewSoundtrackSystem(music),
		system.NewDebugSystem(logger),
	)

	if settings.Watch {
		w, err := prefabs.NewWatcher(settings.PrefabDir, "scripts", "models")
		if err != nil {
			// editing without live reload is still useful
			g.log.Warn().Err(err).Str("dir", settings.PrefabDir).Msg("prefab watcher disabled")
		} else {
			g.watcher = w
		}
	}

	g.log.Info().
		Str("stage", lvl.Name).
		Int("entities", len(ecs.Entities(world))).
		Bool("audio", settings.Audio.Enabled).
		Bool("watch", g.watcher != nil).
		Msg("stage loaded")
	return g, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SetStatus shows a short message in the corner of the screen.
func (g *Game) SetStatus(text string) {
	g.status = text
}

func (g *Game) Update() error {
	g.applyEdits()
	g.scheduler.Update(g.world)
	g.dialogue.Update()
	return nil
}

// applyEdits drains the prefab watcher without blocking the frame.
func (g *Game) applyEdits() {
	if g.watcher != nil {
		for drained := false; !drained; {
			select {
			case change := <-g.watcher.Events:
				g.applyChange(change)
			case err := <-g.watcher.Errors:
				g.log.Warn().Err(err).Msg("prefab watcher")
			default:
				drained = true
			}
		}
	}

	if g.pendingScript {
		g.reloadScript()
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		g.reloadScript()
	case prefabs.ChangeSpec:
		n, err := entity.ReloadTuning(g.world, change.Name)
		if err != nil {
			g.log.Error().Err(err).Str("prefab", change.Name).Msg("reload tuning")
			return
		}
		if n > 0 {
			g.log.Info().Str("prefab", change.Name).Int("entities", n).Msg("tuning reloaded")
		}
	}
}

func (g *Game) reloadScript() {
	err := entity.ReloadCutsceneScript(g.world)
	switch {
	case errors.Is(err, entity.ErrCutsceneActive):
		g.pendingScript = true
		return
	case err != nil:
		g.log.Error().Err(err).Msg("reload cutscene script")
	default:
		g.log.Info().Msg("cutscene script reloaded")
	}
	g.pendingScript = false
}

func (g *Game) Draw(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	lw := max(1, int(math.Round(float64(sw)*g.settings.Window.Scale)))
	lh := max(1, int(math.Round(float64(sh)*g.settings.Window.Scale)))
	if g.offscreen == nil || g.offscreen.Bounds().Dx() != lw || g.offscreen.Bounds().Dy() != lh {
		if g.offscreen != nil {
			g.offscreen.Deallocate()
		}
		g.offscreen = ebiten.NewImage(lw, lh)
	}

	g.offscreen.Clear()
	g.render.Draw(g.world, g.offscreen)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(lw), float64(sh)/float64(lh))
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(g.offscreen, op)

	g.dialogue.Draw(screen)

	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 12, 10)
	}
	if g.settings.Debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 12, 26)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Close stops background loads, audio and the prefab watcher.
func (g *Game) Close() {
	g.cancel()
	g.music.Close()
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn().Err(err).Msg("close prefab watcher")
		}
	}
}
