package assets

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/vignette/common"
	"github.com/milk9111/vignette/future"
)

// MaterialTags are per-model render switches. They are set explicitly in the
// model descriptor instead of being guessed from mesh names.
type MaterialTags struct {
	// FaceOverlay draws a facing marker on the head.
	FaceOverlay bool
	// VertexSnap quantizes projected vertices to a coarse screen grid.
	VertexSnap bool
}

// ModelDescriptor says where a model lives and how to prepare it.
type ModelDescriptor struct {
	Name      string
	File      string
	Height    float64
	YawOffset float64
	Color     color.RGBA
	Tags      MaterialTags
}

// Model is a mesh stood upright, scaled to its target height, centred on x/z
// and resting on y = 0.
type Model struct {
	Name     string
	Vertices []mgl64.Vec3
	Edges    [][2]int
	Size     mgl64.Vec3
	Upright  common.UprightCandidate
	Scale    float64
	Color    color.RGBA
	Tags     MaterialTags
}

var modelLoads future.Group[*Model]

// LoadModel loads a model in the background. Concurrent loads of the same
// descriptor share one read.
func LoadModel(ctx context.Context, desc ModelDescriptor) *future.Future[*Model] {
	key := desc.Name + "|" + desc.File
	return modelLoads.Do(ctx, key, func(ctx context.Context, report future.Reporter) (*Model, error) {
		data, err := Fetch(ctx, desc.File, func(p float64) { report(p * 0.9) })
		if err != nil {
			return nil, err
		}
		mesh, err := ParseOBJ(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: model %s: %w", desc.File, err)
		}
		return PrepareModel(desc, mesh), nil
	})
}

// Mesh is raw geometry as authored.
type Mesh struct {
	Vertices []mgl64.Vec3
	Faces    [][]int
}

// Bounds returns the axis-aligned min and max corners of the mesh.
func (m Mesh) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	return bounds(m.Vertices)
}

func bounds(vs []mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if len(vs) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], v[i])
			hi[i] = math.Max(hi[i], v[i])
		}
	}
	return lo, hi
}

// ParseOBJ reads the vertex and face records of a Wavefront OBJ file. Other
// records are ignored.
func ParseOBJ(r *bytes.Reader) (Mesh, error) {
	var mesh Mesh
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return Mesh{}, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			var v mgl64.Vec3
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return Mesh{}, fmt.Errorf("line %d: %w", line, err)
				}
				v[i] = f
			}
			mesh.Vertices = append(mesh.Vertices, v)
		case "f":
			face := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := strconv.Atoi(strings.SplitN(ref, "/", 2)[0])
				if err != nil {
					return Mesh{}, fmt.Errorf("line %d: %w", line, err)
				}
				if idx < 0 {
					idx = len(mesh.Vertices) + idx + 1
				}
				if idx < 1 || idx > len(mesh.Vertices) {
					return Mesh{}, fmt.Errorf("line %d: vertex %d out of range", line, idx)
				}
				face = append(face, idx-1)
			}
			if len(face) >= 2 {
				mesh.Faces = append(mesh.Faces, face)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, err
	}
	if len(mesh.Vertices) == 0 {
		return Mesh{}, fmt.Errorf("no vertices")
	}
	return mesh, nil
}

// PrepareModel stands the mesh upright, fits it to desc.Height, and drops it
// onto the ground centred on the origin.
func PrepareModel(desc ModelDescriptor, mesh Mesh) *Model {
	lo, hi := mesh.Bounds()
	best := common.BestUpright(hi.Sub(lo))
	rot := mgl64.Rotate3DZ(best.Z).Mul3(mgl64.Rotate3DX(best.X))

	verts := make([]mgl64.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		verts[i] = rot.Mul3x1(v)
	}
	lo, hi = bounds(verts)
	scale := common.FitToHeight(hi.Sub(lo), desc.Height)

	centre := lo.Add(hi).Mul(0.5)
	yaw := mgl64.Rotate3DY(desc.YawOffset)
	for i, v := range verts {
		p := mgl64.Vec3{v.X() - centre.X(), v.Y() - lo.Y(), v.Z() - centre.Z()}.Mul(scale)
		verts[i] = yaw.Mul3x1(p)
	}
	lo, hi = bounds(verts)

	return &Model{
		Name:     desc.Name,
		Vertices: verts,
		Edges:    faceEdges(mesh.Faces),
		Size:     hi.Sub(lo),
		Upright:  best,
		Scale:    scale,
		Color:    desc.Color,
		Tags:     desc.Tags,
	}
}

func faceEdges(faces [][]int) [][2]int {
	seen := make(map[[2]int]struct{})
	var edges [][2]int
	for _, face := range faces {
		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if _, ok := seen[key]; ok || a == b {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key)
		}
	}
	return edges
}
