package fragment

import (
	"fmt"
	"math/rand"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

// GeneratorParams control the synthetic scenes produced by Generate.
type GeneratorParams struct {
	// Frame dimensions in pixels.
	Width  int
	Height int

	// Number of depth layers and grids per layer. Layer 0 is the nearest.
	Layers        int
	GridsPerLayer int

	// Micropolygons per grid side and their raster size in pixels.
	GridSize         int
	MicropolygonSize float32

	// Fraction of grids that get the respective attribute.
	MotionBlurRatio    float32
	DepthOfFieldRatio  float32
	TransparentRatio   float32
	MatteRatio         float32
	LevelOfDetailRatio float32

	// Max displacement in pixels of moving grids across the shutter.
	MaxMotion float32

	// Number of lens classes and the circle of confusion in pixels per
	// unit of distance from the focal depth.
	LensClasses    int
	FocalDepth     float32
	ConfusionScale float32

	// Emit the grids in random order instead of front to back.
	Shuffle bool

	// Shader outputs attached to every micropolygon.
	Outputs []sampler.OutputDef
}

func DefaultGeneratorParams() GeneratorParams {
	return GeneratorParams{
		Width:              256,
		Height:             256,
		Layers:             4,
		GridsPerLayer:      24,
		GridSize:           16,
		MicropolygonSize:   2,
		MotionBlurRatio:    0.1,
		DepthOfFieldRatio:  0.1,
		TransparentRatio:   0.1,
		MatteRatio:         0.05,
		LevelOfDetailRatio: 0.1,
		MaxMotion:          8,
		LensClasses:        4,
		FocalDepth:         2,
		ConfusionScale:     1,
	}
}

// Generate a layered scene of rectangular micropolygon grids.
func Generate(params GeneratorParams, rng *rand.Rand) ([]*Grid, error) {
	if params.Width <= 0 || params.Height <= 0 {
		return nil, fmt.Errorf("fragment: invalid frame dimensions %dx%d", params.Width, params.Height)
	}
	if params.GridSize <= 0 || params.MicropolygonSize <= 0 {
		return nil, fmt.Errorf("fragment: invalid grid size %d x %.2f", params.GridSize, params.MicropolygonSize)
	}

	grids := make([]*Grid, 0, params.Layers*params.GridsPerLayer)
	for layer := 0; layer < params.Layers; layer++ {
		for i := 0; i < params.GridsPerLayer; i++ {
			grids = append(grids, generateGrid(params, layer, len(grids), rng))
		}
	}

	if params.Shuffle {
		rng.Shuffle(len(grids), func(i, j int) { grids[i], grids[j] = grids[j], grids[i] })
	}
	return grids, nil
}

func generateGrid(params GeneratorParams, layer, index int, rng *rand.Rand) *Grid {
	g := &Grid{
		Name:          fmt.Sprintf("grid_%d", index),
		Cullable:      true,
		Occludes:      true,
		Matte:         rng.Float32() < params.MatteRatio,
		MotionBlur:    rng.Float32() < params.MotionBlurRatio,
		DepthOfField:  params.LensClasses > 1 && rng.Float32() < params.DepthOfFieldRatio,
		LevelOfDetail: rng.Float32() < params.LevelOfDetailRatio,
	}

	var velocity types.Vec3
	if g.MotionBlur {
		g.TimeRange = [2]float32{0, 1}
		velocity = types.XYZ(
			(rng.Float32()*2-1)*params.MaxMotion,
			(rng.Float32()*2-1)*params.MaxMotion,
			0,
		)
	}
	if g.LevelOfDetail {
		// Alternate between the coarse and the fine half of the detail range.
		g.DetailRange = [2]float32{0, 0.5}
		if index%2 == 1 {
			g.DetailRange = [2]float32{0.5, 1}
		}
	}

	color := types.XYZ(rng.Float32(), rng.Float32(), rng.Float32())
	opacity := types.XYZ(1, 1, 1)
	if rng.Float32() < params.TransparentRatio {
		a := 0.25 + rng.Float32()*0.5
		opacity = types.XYZ(a, a, a)
	}

	// Place the grid so that it may straddle the frame edges. Depth grows
	// with the layer index and varies slightly across the grid.
	extent := float32(params.GridSize) * params.MicropolygonSize
	origin := types.XY(
		rng.Float32()*(float32(params.Width)+extent)-extent/2,
		rng.Float32()*(float32(params.Height)+extent)-extent/2,
	)
	baseDepth := 1 + float32(layer) + rng.Float32()*0.5
	slope := types.XY((rng.Float32()*2-1)*0.01, (rng.Float32()*2-1)*0.01)
	vertexAt := func(i, j int) types.Vec3 {
		p := origin.Add(types.XY(float32(i), float32(j)).Mul(params.MicropolygonSize))
		d := p.Sub(origin)
		return p.Vec3(baseDepth + d.Dot(slope))
	}

	outputs := gridOutputs(params.Outputs, index)
	g.Micropolygons = make([]*Micropolygon, 0, params.GridSize*params.GridSize)
	for j := 0; j < params.GridSize; j++ {
		for i := 0; i < params.GridSize; i++ {
			mp := NewMicropolygon(
				vertexAt(i, j), vertexAt(i+1, j), vertexAt(i+1, j+1), vertexAt(i, j+1),
				color, opacity,
			)
			mp.Outputs = outputs
			for v := range mp.Motion {
				mp.Motion[v] = velocity
			}
			if g.DepthOfField {
				mp.LensOffsets = lensOffsets(params, mp.Vertices[0][2])
			}
			g.Micropolygons = append(g.Micropolygons, mp)
		}
	}
	return g
}

// Distribute the lens classes evenly around the circle of confusion for
// the given depth.
func lensOffsets(params GeneratorParams, depth float32) []types.Vec2 {
	radius := math32.Abs(depth-params.FocalDepth) * params.ConfusionScale
	offsets := make([]types.Vec2, params.LensClasses)
	for i := range offsets {
		theta := 2 * math32.Pi * float32(i) / float32(params.LensClasses)
		offsets[i] = types.XY(math32.Cos(theta), math32.Sin(theta)).Mul(radius)
	}
	return offsets
}

// Micropolygons of the same grid share the output values.
func gridOutputs(defs []sampler.OutputDef, gridIndex int) map[string][]float32 {
	if len(defs) == 0 {
		return nil
	}
	out := make(map[string][]float32, len(defs))
	for _, def := range defs {
		values := make([]float32, def.Kind.Arity())
		for k := range values {
			values[k] = float32(gridIndex) + float32(k)/10
		}
		out[def.Name] = values
	}
	return out
}
