package ecs

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/vignette/ecs/component"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_destroy_middle", 3, 1},
		{"none_destroyed", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create || w.Len() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			for _, e := range ents {
				if !e.Valid() {
					t.Fatalf("zero entity handed out")
				}
			}
			if c.destroyIndex < 0 {
				return
			}
			if !DestroyEntity(w, ents[c.destroyIndex]) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, ents[c.destroyIndex]) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if w.Len() != c.create-1 {
				t.Fatalf("Len = %d after destroy", w.Len())
			}
		})
	}
}

func TestComponentsAddGetRemove(t *testing.T) {
	w := NewWorld()
	player := CreateEntity(w)
	npc := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name: "transform_on_player",
			setup: func() error {
				return Add(w, player, component.TransformComponent.Kind(), &component.Transform{Position: mgl64.Vec3{1, 0, 2}, Yaw: 0.5})
			},
			check: func(t *testing.T) {
				tr, ok := Get(w, player, component.TransformComponent.Kind())
				if !ok || tr.Position.X() != 1 || tr.Yaw != 0.5 {
					t.Fatalf("unexpected transform %+v ok=%v", tr, ok)
				}
			},
			teardown: func() bool { return Remove(w, player, component.TransformComponent.Kind()) },
		},
		{
			name: "tags_on_both",
			setup: func() error {
				if err := Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
					return err
				}
				return Add(w, npc, component.NpcTagComponent.Kind(), &component.NpcTag{})
			},
			check: func(t *testing.T) {
				if !Has(w, player, component.PlayerTagComponent.Kind()) || !Has(w, npc, component.NpcTagComponent.Kind()) {
					t.Fatalf("expected both tags")
				}
				if Has(w, npc, component.PlayerTagComponent.Kind()) {
					t.Fatalf("npc must not carry the player tag")
				}
			},
			teardown: func() bool { return Remove(w, player, component.PlayerTagComponent.Kind()) },
		},
		{
			name: "replace_value",
			setup: func() error {
				if err := Add(w, npc, component.IdleBobComponent.Kind(), &component.IdleBob{Amplitude: 0.1}); err != nil {
					return err
				}
				return Add(w, npc, component.IdleBobComponent.Kind(), &component.IdleBob{Amplitude: 0.2})
			},
			check: func(t *testing.T) {
				bob, ok := Get(w, npc, component.IdleBobComponent.Kind())
				if !ok || bob.Amplitude != 0.2 {
					t.Fatalf("expected the second value to win, got %+v", bob)
				}
			},
			teardown: func() bool { return Remove(w, npc, component.IdleBobComponent.Kind()) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed")
			}
		})
	}
}

// stage builds a player, an npc, a camera and a bare entity.
func stage(t *testing.T) (w *World, player, npc, cam, bare Entity) {
	t.Helper()
	w = NewWorld()
	player, npc, cam, bare = CreateEntity(w), CreateEntity(w), CreateEntity(w), CreateEntity(w)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Entity{player, npc} {
		must(Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
		must(Add(w, e, component.IdleBobComponent.Kind(), &component.IdleBob{Amplitude: 0.02}))
	}
	must(Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	must(Add(w, player, component.PlayerComponent.Kind(), &component.Player{}))
	must(Add(w, npc, component.NpcTagComponent.Kind(), &component.NpcTag{}))
	must(Add(w, npc, component.NpcComponent.Kind(), &component.Npc{TalkRadius: 3, ResetRadius: 4}))
	must(Add(w, cam, component.CameraTagComponent.Kind(), &component.CameraTag{}))
	must(Add(w, cam, component.TransformComponent.Kind(), &component.Transform{}))
	return w, player, npc, cam, bare
}

func TestQueries(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *World) []Entity
		want func(player, npc, cam Entity) []Entity
	}{
		{
			name: "for_each_transform",
			run: func(w *World) (got []Entity) {
				ForEach(w, component.TransformComponent.Kind(), func(e Entity, _ *component.Transform) { got = append(got, e) })
				return got
			},
			want: func(p, n, c Entity) []Entity { return []Entity{p, n, c} },
		},
		{
			name: "for_each2_bobbing_rigs",
			run: func(w *World) (got []Entity) {
				ForEach2(w, component.TransformComponent.Kind(), component.IdleBobComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.IdleBob) {
					got = append(got, e)
				})
				return got
			},
			want: func(p, n, _ Entity) []Entity { return []Entity{p, n} },
		},
		{
			name: "for_each3_player_only",
			run: func(w *World) (got []Entity) {
				ForEach3(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), component.IdleBobComponent.Kind(),
					func(e Entity, _ *component.PlayerTag, _ *component.Transform, _ *component.IdleBob) { got = append(got, e) })
				return got
			},
			want: func(p, _, _ Entity) []Entity { return []Entity{p} },
		},
		{
			name: "for_each4_npc_only",
			run: func(w *World) (got []Entity) {
				ForEach4(w, component.NpcTagComponent.Kind(), component.NpcComponent.Kind(), component.TransformComponent.Kind(), component.IdleBobComponent.Kind(),
					func(e Entity, _ *component.NpcTag, _ *component.Npc, _ *component.Transform, _ *component.IdleBob) { got = append(got, e) })
				return got
			},
			want: func(_, n, _ Entity) []Entity { return []Entity{n} },
		},
		{
			name: "for_each4_missing_store",
			run: func(w *World) (got []Entity) {
				ForEach4(w, component.PlayerTagComponent.Kind(), component.NpcTagComponent.Kind(), component.CutsceneComponent.Kind(), component.TransformComponent.Kind(),
					func(e Entity, _ *component.PlayerTag, _ *component.NpcTag, _ *component.Cutscene, _ *component.Transform) { got = append(got, e) })
				return got
			},
			want: func(_, _, _ Entity) []Entity { return nil },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, player, npc, cam, bare := stage(t)
			got := toSet(tc.run(w))
			want := tc.want(player, npc, cam)
			if len(got) != len(want) {
				t.Fatalf("got %d entities, want %d", len(got), len(want))
			}
			for _, e := range want {
				if _, ok := got[e]; !ok {
					t.Fatalf("missing %v", e)
				}
			}
			if _, ok := got[bare]; ok {
				t.Fatalf("bare entity should never match")
			}
		})
	}
}

func TestQueriesSkipDestroyed(t *testing.T) {
	w, player, npc, _, _ := stage(t)
	if !DestroyEntity(w, npc) {
		t.Fatal("failed to destroy npc")
	}

	var got []Entity
	ForEach2(w, component.TransformComponent.Kind(), component.IdleBobComponent.Kind(), func(e Entity, _ *component.Transform, _ *component.IdleBob) {
		got = append(got, e)
	})
	if len(got) != 1 || got[0] != player {
		t.Fatalf("expected only the player, got %v", got)
	}
	if _, _, ok := FirstWith(w, component.NpcComponent.Kind()); ok {
		t.Fatalf("destroyed npc still found")
	}
}

func TestStaleHandles(t *testing.T) {
	w := NewWorld()
	kind := component.TransformComponent.Kind()

	old := CreateEntity(w)
	if err := Add(w, old, kind, &component.Transform{Yaw: 1}); err != nil {
		t.Fatal(err)
	}
	if !DestroyEntity(w, old) {
		t.Fatal("failed to destroy entity")
	}

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %v after %v", reused, old)
	}
	if reused == old {
		t.Fatalf("reused handle must differ from the stale one")
	}

	if IsAlive(w, old) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := Get(w, reused, kind); ok {
		t.Fatalf("component leaked into the reused entity")
	}
	if err := Add(w, old, kind, &component.Transform{}); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
	if DestroyEntity(w, old) {
		t.Fatalf("destroying a stale handle must fail")
	}
	if !IsAlive(w, reused) {
		t.Fatalf("reused entity should survive a stale destroy")
	}
}

func TestFirst(t *testing.T) {
	w := NewWorld()
	kind := component.CameraComponent.Kind()

	if _, ok := First(w, kind); ok {
		t.Fatalf("First on an empty world should fail")
	}

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	if err := Add(w, e1, kind, &component.Camera{FOV: 50}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e2, kind, &component.Camera{FOV: 52}); err != nil {
		t.Fatal(err)
	}

	DestroyEntity(w, e1)
	e, cam, ok := FirstWith(w, kind)
	if !ok || e != e2 || cam.FOV != 52 {
		t.Fatalf("FirstWith = %v %+v %v, want e2", e, cam, ok)
	}

	if err := Add[component.Camera](w, e2, kind, nil); !errors.Is(err, component.ErrNilComponent) {
		t.Fatalf("expected ErrNilComponent, got %v", err)
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}
