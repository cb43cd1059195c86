package component

import (
	"github.com/milk9111/vignette/assets"
	"github.com/milk9111/vignette/future"
)

// Model attaches a loaded character model to a rig. Load is polled by the
// model system until it settles.
type Model struct {
	Descriptor string
	Name       string
	Height     float64

	Load     *future.Future[*assets.Model]
	Asset    *assets.Model
	Failed   bool
	Reported int // last progress percentage published
}

// Ready reports whether the model is loaded and can be drawn.
func (m *Model) Ready() bool {
	return m != nil && m.Asset != nil
}

var ModelComponent = NewComponent[Model]()
