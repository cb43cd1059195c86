// prefabcheck builds a stage into a scratch world and prints its cutscene
// script. It exits non-zero when any prefab, model descriptor, script or the
// stage itself fails to load.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/spf13/pflag"

	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/ecs/entity"
	"github.com/milk9111/vignette/levels"
	"github.com/milk9111/vignette/prefabs"
)

func main() {
	flags := pflag.NewFlagSet("prefabcheck", pflag.ContinueOnError)
	prefabDir := flags.String("prefab-dir", "prefabs", "directory searched before the embedded prefabs")
	levelDir := flags.String("level-dir", "levels", "directory searched before the embedded stages")
	stage := flags.String("stage", "plaza.json", "stage to build")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	prefabs.SetDiskRoot(*prefabDir)
	if n := check(os.Stdout, *levelDir, *stage); n > 0 {
		fmt.Fprintf(os.Stderr, "%d problem(s)\n", n)
		os.Exit(1)
	}
}

// check reports every problem it finds to out and returns how many there were.
func check(out io.Writer, levelDir, stage string) int {
	problems := 0
	fail := func(format string, args ...any) {
		problems++
		fmt.Fprintf(out, "FAIL "+format+"\n", args...)
	}

	names, err := prefabNames()
	if err != nil {
		fail("list prefabs: %v", err)
	}
	for _, name := range names {
		w := ecs.NewWorld()
		if _, err := entity.BuildEntity(w, name); err != nil {
			fail("%v", err)
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", name)
	}

	if _, err := prefabs.LoadSoundtrackSpec(); err != nil {
		fail("%v", err)
	}

	lvl, err := levels.Load(levelDir, stage)
	if err != nil {
		fail("%v", err)
		return problems
	}
	w := ecs.NewWorld()
	if err := entity.LoadLevelToWorld(w, lvl); err != nil {
		fail("stage %q: %v", lvl.Name, err)
		return problems
	}
	fmt.Fprintf(out, "ok   stage %q: %d entities\n", lvl.Name, len(ecs.Entities(w)))

	_, cs, ok := ecs.FirstWith(w, component.CutsceneComponent.Kind())
	if !ok {
		fail("stage %q has no cutscene director", lvl.Name)
		return problems
	}
	for i, step := range cs.Script {
		marker := ""
		if step.Spin {
			marker = " (spin)"
		}
		fmt.Fprintf(out, "%2d  %s: %s%s\n", i+1, step.Speaker, step.Text, marker)
	}
	return problems
}

// prefabNames lists the entity prefabs at the top of the prefab tree. Model
// descriptors and the soundtrack are checked through the entities that use
// them.
func prefabNames() ([]string, error) {
	entries, err := fs.ReadDir(prefabs.PrefabsFS, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == "soundtrack.yaml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
