package component

import "image/color"

// LevelBounds stores the walkable square of the stage. The player is kept
// within [-HalfExtent, HalfExtent] on x and z.
type LevelBounds struct {
	HalfExtent float64
	GroundSize float64
	Background color.RGBA
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
