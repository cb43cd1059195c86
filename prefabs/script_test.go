package prefabs

import (
	"errors"
	"testing"
)

func TestEmbeddedCutsceneScript(t *testing.T) {
	steps, err := LoadCutsceneScript("valentine.tengo")
	if err != nil {
		t.Fatalf("LoadCutsceneScript: %v", err)
	}
	if len(steps) != 8 {
		t.Fatalf("expected 8 steps, got %d", len(steps))
	}
	if steps[0].Speaker != "Cloud" || steps[4].Text != "1" || steps[6].Text != "3" {
		t.Fatalf("unexpected steps %+v", steps)
	}
	for i, s := range steps[:7] {
		if s.Spin {
			t.Fatalf("step %d should not spin", i)
		}
	}
	if !steps[7].Spin {
		t.Fatalf("final step should spin")
	}
}

func TestRunCutsceneScriptErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"missing_global", `x := 1`, nil},
		{"not_array", `script := {speaker: "a"}`, nil},
		{"missing_speaker", `script := [{text: "hi"}]`, nil},
		{"spin_not_bool", `script := [{speaker: "a", text: "b", spin: 1}]`, nil},
		{"empty", `script := []`, ErrEmptyScript},
		{"syntax", `script := [`, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := RunCutsceneScript([]byte(c.src))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if c.want != nil && !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestResolveCutsceneStepsInline(t *testing.T) {
	steps, err := ResolveCutsceneSteps(CutsceneComponentSpec{Steps: []CutsceneStepSpec{{Speaker: "A", Text: "hi"}}})
	if err != nil || len(steps) != 1 {
		t.Fatalf("inline steps: %v %v", steps, err)
	}
	if _, err := ResolveCutsceneSteps(CutsceneComponentSpec{}); !errors.Is(err, ErrEmptyScript) {
		t.Fatalf("expected ErrEmptyScript, got %v", err)
	}
	if _, err := ResolveCutsceneSteps(CutsceneComponentSpec{Steps: []CutsceneStepSpec{{Text: "nobody"}}}); err == nil {
		t.Fatalf("expected an error for a step without speaker")
	}
}
