package entity

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs/component"
	"github.com/milk9111/vignette/levels"
)

const (
	buildingSpacing = 4.6
	heartSpread     = 64.0
	roseRingRadius  = 7.8
	roseRingStep    = 1.45
)

var (
	buildingColors = []color.RGBA{
		{0x9f, 0x3d, 0x65, 0xff},
		{0xb2, 0x5c, 0x86, 0xff},
		{0x7a, 0x33, 0x50, 0xff},
		{0xc9, 0x77, 0xa0, 0xff},
		{0x8e, 0x35, 0x58, 0xff},
	}
	ribbonColors = []color.RGBA{
		{0xfe, 0xc5, 0xdd, 0xff},
		{0xff, 0xd8, 0xec, 0xff},
		{0xf9, 0xa7, 0xca, 0xff},
	}
)

// ScatterDecor lays out the stage scenery. The same seed always yields the
// same layout.
func ScatterDecor(spec levels.Decor) []component.Decor {
	rng := rand.New(rand.NewSource(spec.Seed))
	var out []component.Decor

	if spec.Buildings {
		out = append(out, buildings(rng)...)
	}

	clearZone := spec.ClearZone
	for placed := 0; placed < spec.Hearts; {
		px := (rng.Float64() - 0.5) * heartSpread
		pz := (rng.Float64() - 0.5) * heartSpread
		if math.Abs(px) < clearZone && math.Abs(pz) < clearZone {
			continue
		}
		scale := 0.52 + rng.Float64()*1.15
		y := 4.6 + rng.Float64()*4.3
		out = append(out, component.Decor{
			Kind:   component.DecorHeart,
			Center: mgl64.Vec3{px, y, pz},
			Size:   mgl64.Vec3{scale, scale, scale},
			Color:  mix(colornames.Hotpink, colornames.Lightpink, rng.Float64()),
		})
		placed++
	}

	for i := 0; i < spec.Roses; i++ {
		angle := float64(i) / float64(spec.Roses) * 2 * math.Pi
		radius := roseRingRadius + float64(i%7)*roseRingStep + rng.Float64()*0.55
		px := math.Cos(angle)*radius + (rng.Float64()-0.5)*0.45
		pz := math.Sin(angle)*radius + (rng.Float64()-0.5)*0.45
		scale := 0.74 + rng.Float64()*0.52
		out = append(out, component.Decor{
			Kind:   component.DecorRose,
			Center: mgl64.Vec3{px, 0.35 * scale, pz},
			Size:   mgl64.Vec3{0.3 * scale, 0.7 * scale, 0.3 * scale},
			Color:  colornames.Crimson,
		})
	}

	return out
}

func buildings(rng *rand.Rand) []component.Decor {
	var out []component.Decor
	for gx := -4; gx <= 4; gx += 2 {
		for gz := -4; gz <= 4; gz += 2 {
			if iabs(gx) <= 1 && iabs(gz) <= 1 {
				continue
			}
			px := float64(gx) * buildingSpacing
			pz := float64(gz) * buildingSpacing
			wd := 2.35 + float64(iabs(gx+gz)%3)*0.3
			h := 1.7 + float64(iabs(gx*5+gz*3)%4)*0.42

			ribbon := ribbonColors[iabs(gx*11+gz*13)%len(ribbonColors)]
			out = append(out,
				component.Decor{
					Kind:   component.DecorBuilding,
					Center: mgl64.Vec3{px, h * 0.5, pz},
					Size:   mgl64.Vec3{wd, h, wd},
					Color:  buildingColors[iabs(gx*3+gz*7)%len(buildingColors)],
				},
				component.Decor{
					Kind:   component.DecorRibbon,
					Center: mgl64.Vec3{px, h * 0.5, pz},
					Size:   mgl64.Vec3{wd * 1.02, h * 1.01, 0.2},
					Color:  ribbon,
				},
				component.Decor{
					Kind:   component.DecorRibbon,
					Center: mgl64.Vec3{px, h * 0.5, pz},
					Size:   mgl64.Vec3{0.2, h * 1.01, wd * 1.02},
					Color:  ribbon,
				},
				component.Decor{
					Kind:   component.DecorHeart,
					Center: mgl64.Vec3{px, h + 0.9, pz},
					Size:   mgl64.Vec3{0.95, 0.95, 0.95},
					Color:  mix(colornames.Palevioletred, colornames.Pink, rng.Float64()),
				},
			)
		}
	}
	return out
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8(math.Round(common.Lerp(float64(x), float64(y), t)))
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), 0xff}
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
