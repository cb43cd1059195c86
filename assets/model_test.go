package assets

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"
)

const lyingBoxOBJ = `# box lying on its back, 0.4 wide, 0.3 deep, 1.7 long along z
o box
v -0.2 -0.15 0
v 0.2 -0.15 0
v 0.2 0.15 0
v -0.2 0.15 0
v -0.2 -0.15 1.7
v 0.2 -0.15 1.7
v 0.2 0.15 1.7
v -0.2 0.15 1.7
f 1 2 3 4
f 5 6 7 8
f 1 2 6 5
f -1 -2 -3
`

func TestParseOBJ(t *testing.T) {
	mesh, err := ParseOBJ(bytes.NewReader([]byte(lyingBoxOBJ)))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if len(mesh.Vertices) != 8 || len(mesh.Faces) != 4 {
		t.Fatalf("got %d vertices, %d faces", len(mesh.Vertices), len(mesh.Faces))
	}
	if got := mesh.Faces[3]; got[0] != 7 || got[2] != 5 {
		t.Fatalf("negative indices resolved to %v", got)
	}

	bad := []string{
		"v 1 2\n",
		"v 0 0 0\nf 1 9\n",
		"# only a comment\n",
	}
	for _, src := range bad {
		if _, err := ParseOBJ(bytes.NewReader([]byte(src))); err == nil {
			t.Fatalf("expected error for %q", src)
		}
	}
}

func TestPrepareModelStandsUpAndFits(t *testing.T) {
	mesh, err := ParseOBJ(bytes.NewReader([]byte(lyingBoxOBJ)))
	if err != nil {
		t.Fatal(err)
	}
	model := PrepareModel(ModelDescriptor{Name: "box", Height: 1.8}, mesh)

	if model.Upright.Name != "x-90" {
		t.Fatalf("upright = %s", model.Upright.Name)
	}
	if math.Abs(model.Size.Y()-1.8) > 1e-9 {
		t.Fatalf("height = %v", model.Size.Y())
	}
	lo, hi := bounds(model.Vertices)
	if math.Abs(lo.Y()) > 1e-9 {
		t.Fatalf("model should rest on the ground, min y = %v", lo.Y())
	}
	if math.Abs(lo.X()+hi.X()) > 1e-9 || math.Abs(lo.Z()+hi.Z()) > 1e-9 {
		t.Fatalf("model should be centred, bounds %v %v", lo, hi)
	}
	if len(model.Edges) == 0 {
		t.Fatalf("expected edges from faces")
	}
}

func TestLoadModelFromEmbeddedAssets(t *testing.T) {
	cases := []struct {
		file   string
		height float64
	}{
		{"models/tifa.obj", 1.8},
		{"models/cloud.obj", 1.82},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			f := LoadModel(ctx, ModelDescriptor{Name: c.file, File: c.file, Height: c.height, YawOffset: math.Pi})
			model, err := f.Wait(ctx)
			if err != nil {
				t.Fatalf("LoadModel: %v", err)
			}
			if math.Abs(model.Size.Y()-c.height) > 1e-9 {
				t.Fatalf("height = %v, want %v", model.Size.Y(), c.height)
			}
			if f.Progress() != 1 {
				t.Fatalf("progress = %v", f.Progress())
			}
		})
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	ctx := context.Background()
	_, err := LoadModel(ctx, ModelDescriptor{Name: "ghost", File: "models/ghost.obj", Height: 1}).Wait(ctx)
	if err == nil {
		t.Fatalf("expected an error for a missing model")
	}
}
