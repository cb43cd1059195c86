package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBestUpright(t *testing.T) {
	cases := []struct {
		name string
		size mgl64.Vec3
		want string
	}{
		{"already_upright", mgl64.Vec3{0.5, 1.8, 0.4}, "identity"},
		{"lying_on_back", mgl64.Vec3{0.5, 0.4, 1.8}, "x-90"},
		{"lying_on_side", mgl64.Vec3{1.8, 0.4, 0.5}, "z-90"},
		{"cube_keeps_first", mgl64.Vec3{1, 1, 1}, "identity"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BestUpright(c.size)
			if got.Name != c.want {
				t.Fatalf("BestUpright(%v) = %s, want %s", c.size, got.Name, c.want)
			}
		})
	}
}

func TestRotatedExtentsSwapsAxes(t *testing.T) {
	got := RotatedExtents(mgl64.Vec3{1, 2, 3}, UprightCandidate{X: math.Pi / 2})
	want := mgl64.Vec3{1, 3, 2}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("RotatedExtents = %v, want %v", got, want)
	}
}

func TestFitToHeight(t *testing.T) {
	if s := FitToHeight(mgl64.Vec3{1, 3.6, 1}, 1.8); math.Abs(s-0.5) > 1e-9 {
		t.Fatalf("scale = %v", s)
	}
	if s := FitToHeight(mgl64.Vec3{1, 0, 1}, 1.8); s != 1 {
		t.Fatalf("flat box should keep scale 1, got %v", s)
	}
}
