package component

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

type DecorKind string

const (
	DecorBuilding DecorKind = "building"
	DecorRibbon   DecorKind = "ribbon"
	DecorHeart    DecorKind = "heart"
	DecorRose     DecorKind = "rose"
)

// Decor is static scenery drawn as a box or a billboard.
type Decor struct {
	Kind   DecorKind
	Center mgl64.Vec3
	Size   mgl64.Vec3
	Color  color.RGBA
}

var DecorComponent = NewComponent[Decor]()
