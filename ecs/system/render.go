package system

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/ecs"
	"github.com/milk9111/vignette/ecs/component"
)

const (
	gridStep     = 2.0
	snapGrid     = 4.0
	groundAlpha  = 0x60
	lineWidth    = 1
	overlayRatio = 0.92
)

var (
	defaultBackground = color.RGBA{0xa5, 0x4b, 0x7d, 0xff}
	groundColor       = color.RGBA{0xf4, 0xb6, 0xd2, groundAlpha}
	faceColor         = color.RGBA{0x2b, 0x1b, 0x24, 0xff}
)

// Projector maps world points to screen pixels for one frame.
type Projector struct {
	vp     mgl64.Mat4
	width  float64
	height float64
	near   float64
}

func NewProjector(cam *component.Camera, width, height int) Projector {
	aspect := float64(width) / math.Max(1, float64(height))
	return Projector{
		vp:     cam.Projection(aspect).Mul4(cam.View()),
		width:  float64(width),
		height: float64(height),
		near:   cam.Near,
	}
}

// Project returns the screen position of p and its clip-space depth. ok is
// false for points behind the near plane.
func (pr Projector) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	clip := pr.vp.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= pr.near {
		return 0, 0, 0, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	return (nx + 1) * 0.5 * pr.width, (1 - ny) * 0.5 * pr.height, w, true
}

// RenderSystem draws the stage as lines and billboards from the camera's
// point of view.
type RenderSystem struct {
	camEntity ecs.Entity
	decor     []*component.Decor
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}

	bg := defaultBackground
	groundSize := defaultHalfExtent * 2
	if _, b, ok := ecs.FirstWith(w, component.LevelBoundsComponent.Kind()); ok {
		bg = b.Background
		groundSize = b.GroundSize
	}
	screen.Fill(bg)

	if !ecs.IsAlive(w, r.camEntity) {
		e, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		r.camEntity = e
	}
	cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	bounds := screen.Bounds()
	pr := NewProjector(cam, bounds.Dx(), bounds.Dy())

	r.drawGround(screen, pr, groundSize)
	r.drawDecor(w, screen, pr)

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ModelComponent.Kind(),
		func(_ ecs.Entity, t *component.Transform, m *component.Model) {
			if m.Ready() {
				drawModel(screen, pr, t, m)
			}
		})
}

func (r *RenderSystem) drawGround(screen *ebiten.Image, pr Projector, size float64) {
	half := size / 2
	for v := -half; v <= half; v += gridStep {
		for s := -half; s < half; s += gridStep {
			line(screen, pr, mgl64.Vec3{v, 0, s}, mgl64.Vec3{v, 0, s + gridStep}, groundColor, false)
			line(screen, pr, mgl64.Vec3{s, 0, v}, mgl64.Vec3{s + gridStep, 0, v}, groundColor, false)
		}
	}
}

func (r *RenderSystem) drawDecor(w *ecs.World, screen *ebiten.Image, pr Projector) {
	r.decor = r.decor[:0]
	ecs.ForEach(w, component.DecorComponent.Kind(), func(_ ecs.Entity, d *component.Decor) {
		r.decor = append(r.decor, d)
	})
	depth := func(d *component.Decor) float64 {
		_, _, z, ok := pr.Project(d.Center)
		if !ok {
			return -1
		}
		return z
	}
	sort.SliceStable(r.decor, func(i, j int) bool { return depth(r.decor[i]) > depth(r.decor[j]) })

	for _, d := range r.decor {
		switch d.Kind {
		case component.DecorBuilding, component.DecorRibbon:
			drawBox(screen, pr, d.Center, d.Size, d.Color)
		case component.DecorRose:
			drawBox(screen, pr, d.Center, d.Size, d.Color)
			top := d.Center.Add(mgl64.Vec3{0, d.Size.Y() / 2, 0})
			billboard(screen, pr, top, d.Size.X(), d.Color)
		default:
			billboard(screen, pr, d.Center, d.Size.X()/2, d.Color)
		}
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func drawBox(screen *ebiten.Image, pr Projector, center, size mgl64.Vec3, clr color.RGBA) {
	var corners [8]mgl64.Vec3
	for i := range corners {
		off := mgl64.Vec3{-0.5, -0.5, -0.5}
		if i&1 != 0 {
			off[0] = 0.5
		}
		if i&2 != 0 {
			off[2] = 0.5
		}
		if i&4 != 0 {
			off[1] = 0.5
		}
		corners[i] = center.Add(mgl64.Vec3{off[0] * size[0], off[1] * size[1], off[2] * size[2]})
	}
	for _, e := range boxEdges {
		line(screen, pr, corners[e[0]], corners[e[1]], clr, false)
	}
}

func billboard(screen *ebiten.Image, pr Projector, center mgl64.Vec3, radius float64, clr color.RGBA) {
	x, y, _, ok := pr.Project(center)
	if !ok {
		return
	}
	ex, _, _, ok := pr.Project(center.Add(mgl64.Vec3{radius, 0, 0}))
	if !ok {
		return
	}
	r := math.Max(1, math.Abs(ex-x))
	vector.FillCircle(screen, float32(x), float32(y), float32(r), clr, true)
}

func drawModel(screen *ebiten.Image, pr Projector, t *component.Transform, m *component.Model) {
	model := m.Asset
	origin := t.Position.Add(mgl64.Vec3{0, t.Bob, 0})
	world := func(v mgl64.Vec3) mgl64.Vec3 {
		return origin.Add(common.RotateY(v, t.Yaw))
	}
	for _, e := range model.Edges {
		line(screen, pr, world(model.Vertices[e[0]]), world(model.Vertices[e[1]]), model.Color, model.Tags.VertexSnap)
	}
	if model.Tags.FaceOverlay {
		// Facing marker on the front of the head; the model's front is -Z.
		head := world(mgl64.Vec3{0, model.Size.Y() * overlayRatio, -model.Size.Z() * 0.5})
		billboard(screen, pr, head, 0.05, faceColor)
	}
}

func line(screen *ebiten.Image, pr Projector, a, b mgl64.Vec3, clr color.RGBA, snap bool) {
	x0, y0, _, ok0 := pr.Project(a)
	x1, y1, _, ok1 := pr.Project(b)
	if !ok0 || !ok1 {
		return
	}
	if snap {
		x0, y0 = snapPoint(x0, y0)
		x1, y1 = snapPoint(x1, y1)
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), lineWidth, clr, !snap)
}

func snapPoint(x, y float64) (float64, float64) {
	return math.Round(x/snapGrid) * snapGrid, math.Round(y/snapGrid) * snapGrid
}
