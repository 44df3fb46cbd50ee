package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/asset/scene/reader"
	"github.com/achilleasa/hider/asset/scene/writer"
	"github.com/achilleasa/hider/fragment"
	"github.com/achilleasa/hider/sampler"
	"github.com/urfave/cli"
)

// Generate a synthetic scene and write it to a compressed archive.
func GenerateScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing output scene zip file")
	}
	sceneFile := ctx.Args().First()
	if !strings.HasSuffix(sceneFile, ".zip") {
		return errors.New("scene files must have a .zip extension")
	}

	params := fragment.DefaultGeneratorParams()
	params.Width = ctx.Int("width")
	params.Height = ctx.Int("height")
	params.Layers = ctx.Int("layers")
	params.GridsPerLayer = ctx.Int("grids")
	params.GridSize = ctx.Int("grid-size")
	params.MicropolygonSize = float32(ctx.Float64("mp-size"))
	params.MotionBlurRatio = float32(ctx.Float64("motion"))
	params.DepthOfFieldRatio = float32(ctx.Float64("dof"))
	params.TransparentRatio = float32(ctx.Float64("transparent"))
	params.MatteRatio = float32(ctx.Float64("matte"))
	params.LevelOfDetailRatio = float32(ctx.Float64("lod"))
	params.LensClasses = ctx.Int("lens-classes")
	params.Shuffle = ctx.Bool("shuffle")

	outputs, err := parseOutputs(ctx.StringSlice("output"))
	if err != nil {
		return err
	}
	params.Outputs = outputs

	logger.Noticef("generating %d grids (%dx%d micropolygons each)", params.Layers*params.GridsPerLayer, params.GridSize, params.GridSize)
	grids, err := fragment.Generate(params, rand.New(rand.NewSource(ctx.Int64("seed"))))
	if err != nil {
		return err
	}

	sc := &scene.Scene{
		Width:   params.Width,
		Height:  params.Height,
		Outputs: outputs,
		Grids:   grids,
	}
	logger.Noticef("scene information:\n%s", sc.Stats())

	return writer.WriteScene(sc, sceneFile)
}

// Parse output definitions in "name:kind" form.
func parseOutputs(specs []string) ([]sampler.OutputDef, error) {
	defs := make([]sampler.OutputDef, 0, len(specs))
	for _, spec := range specs {
		name, kindName, found := strings.Cut(spec, ":")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid output definition %q; expected name:kind", spec)
		}
		kind, err := sampler.ParseOutputKind(kindName)
		if err != nil {
			return nil, err
		}
		defs = append(defs, sampler.OutputDef{Name: name, Kind: kind})
	}
	return defs, nil
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene zip file")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	// Display scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	return nil
}
