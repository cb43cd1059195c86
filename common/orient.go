package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// UprightCandidate is one trial rotation for standing a model up.
type UprightCandidate struct {
	Name string
	X    float64
	Z    float64
}

// UprightCandidates are tried in order; ties keep the earlier entry.
var UprightCandidates = []UprightCandidate{
	{Name: "identity"},
	{Name: "x-90", X: -math.Pi / 2},
	{Name: "x+90", X: math.Pi / 2},
	{Name: "z-90", Z: -math.Pi / 2},
	{Name: "z+90", Z: math.Pi / 2},
}

// RotatedExtents returns the axis-aligned size of a box with the given size
// after rotating it by c.
func RotatedExtents(size mgl64.Vec3, c UprightCandidate) mgl64.Vec3 {
	m := mgl64.Rotate3DZ(c.Z).Mul3(mgl64.Rotate3DX(c.X))
	var out mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row] += math.Abs(m.At(row, col)) * size[col]
		}
	}
	return out
}

// UprightScore rates how tall and narrow a box of the given size is.
func UprightScore(size mgl64.Vec3) float64 {
	horizontal := math.Max(math.Max(size.X(), size.Z()), 1e-6)
	return size.Y() / horizontal
}

// BestUpright picks the candidate with the highest UprightScore. The first
// candidate with a strictly greater finite score wins.
func BestUpright(size mgl64.Vec3) UprightCandidate {
	best := UprightCandidates[0]
	bestScore := math.Inf(-1)
	for _, c := range UprightCandidates {
		score := UprightScore(RotatedExtents(size, c))
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// FitToHeight returns the uniform scale that makes size.Y equal height, or 1
// when the box is flat.
func FitToHeight(size mgl64.Vec3, height float64) float64 {
	if size.Y() <= 1e-9 || height <= 0 {
		return 1
	}
	return height / size.Y()
}
