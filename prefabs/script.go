package prefabs

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// ErrEmptyScript is returned for cutscene scripts without any steps.
var ErrEmptyScript = errors.New("prefabs: cutscene script has no steps")

// LoadCutsceneScript runs a tengo script and reads its global `script`, an
// array of {speaker, text, spin} maps.
func LoadCutsceneScript(name string) ([]CutsceneStepSpec, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	steps, err := RunCutsceneScript(src)
	if err != nil {
		return nil, fmt.Errorf("prefabs: script %s: %w", name, err)
	}
	return steps, nil
}

// RunCutsceneScript compiles and runs src.
func RunCutsceneScript(src []byte) ([]CutsceneStepSpec, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Run()
	if err != nil {
		return nil, err
	}

	v := compiled.Get("script")
	if v == nil || v.IsUndefined() {
		return nil, fmt.Errorf("script global 'script' is not defined")
	}
	items, ok := v.Value().([]any)
	if !ok {
		return nil, fmt.Errorf("script global 'script' must be an array")
	}

	steps := make([]CutsceneStepSpec, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("step %d: must be a map", i)
		}
		step := CutsceneStepSpec{}
		if step.Speaker, ok = m["speaker"].(string); !ok || step.Speaker == "" {
			return nil, fmt.Errorf("step %d: speaker must be a non-empty string", i)
		}
		if step.Text, ok = m["text"].(string); !ok {
			return nil, fmt.Errorf("step %d: text must be a string", i)
		}
		if raw, present := m["spin"]; present {
			if step.Spin, ok = raw.(bool); !ok {
				return nil, fmt.Errorf("step %d: spin must be a bool", i)
			}
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, ErrEmptyScript
	}
	return steps, nil
}

// ResolveCutsceneSteps returns the steps named by spec: the tengo script when
// set, the inline steps otherwise.
func ResolveCutsceneSteps(spec CutsceneComponentSpec) ([]CutsceneStepSpec, error) {
	if spec.Script != "" {
		return LoadCutsceneScript(spec.Script)
	}
	if len(spec.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	for i, s := range spec.Steps {
		if s.Speaker == "" {
			return nil, fmt.Errorf("step %d: speaker is required", i)
		}
	}
	return spec.Steps, nil
}
