package entity

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/levels"
	"github.com/milk9111/vignette/prefabs"
)

// LoadLevelToWorld creates the stage bounds, every placed prefab, and the
// scattered scenery.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("load level: level is nil")
	}

	bg, err := prefabs.ParseHexColor(lvl.Background)
	if err != nil {
		return fmt.Errorf("load level %s: background: %w", lvl.Name, err)
	}
	ground := lvl.GroundSize
	if ground <= 0 {
		ground = lvl.HalfExtent * 2
	}
	boundsEntity := ecs.CreateEntity(w)
	if err := ecs.Add(w, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		HalfExtent: lvl.HalfExtent,
		GroundSize: ground,
		Background: bg,
	}); err != nil {
		return err
	}

	for i, ent := range lvl.Entities {
		e, err := BuildEntity(w, ent.Prefab)
		if err != nil {
			return fmt.Errorf("load level %s: entity %d (%s): %w", lvl.Name, i, strings.ToLower(ent.Type), err)
		}
		if ent.Position == nil && ent.Yaw == nil {
			continue
		}
		pos := mgl64.Vec3{}
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			pos = t.Position
		}
		if ent.Position != nil {
			pos = mgl64.Vec3(*ent.Position)
		}
		if err := Place(w, e, pos, ent.Yaw); err != nil {
			return fmt.Errorf("load level %s: place %s: %w", lvl.Name, ent.Type, err)
		}
	}

	for _, d := range ScatterDecor(lvl.Decor) {
		e := ecs.CreateEntity(w)
		d := d
		if err := ecs.Add(w, e, component.DecorComponent.Kind(), &d); err != nil {
			return err
		}
	}

	return nil
}
