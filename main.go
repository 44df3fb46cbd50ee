package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/hider/cmd"
	"github.com/achilleasa/hider/fragment"
	"github.com/achilleasa/hider/renderer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := renderer.DefaultOptions()
	genDefaults := fragment.DefaultGeneratorParams()

	bucketFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "bucket-width",
			Value: defaults.BucketW,
			Usage: "bucket width",
		},
		cli.IntFlag{
			Name:  "bucket-height",
			Value: defaults.BucketH,
			Usage: "bucket height",
		},
		cli.IntFlag{
			Name:  "xsamples",
			Value: defaults.XSamples,
			Usage: "horizontal samples per pixel",
		},
		cli.IntFlag{
			Name:  "ysamples",
			Value: defaults.YSamples,
			Usage: "vertical samples per pixel",
		},
		cli.Float64Flag{
			Name:  "shutter-open",
			Value: float64(defaults.ShutterOpen),
			Usage: "shutter open time",
		},
		cli.Float64Flag{
			Name:  "shutter-close",
			Value: float64(defaults.ShutterClose),
			Usage: "shutter close time",
		},
		cli.IntFlag{
			Name:  "lens-classes",
			Value: defaults.LensClasses,
			Usage: "number of depth of field lens classes",
		},
		cli.IntFlag{
			Name:  "fan-out",
			Value: defaults.FanOut,
			Usage: "max children per occlusion tree node",
		},
		cli.StringFlag{
			Name:  "policy",
			Value: defaults.Policy.String(),
			Usage: "occlusion tree policy between buckets (reuse, rebuild)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: defaults.Seed,
			Usage: "sample jitter seed",
		},
	}

	app := cli.NewApp()
	app.Name = "hider"
	app.Usage = "resolve micropolygon visibility using hierarchical occlusion culling"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log level (debug, info, notice, warning, error)",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load render settings from a YAML file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "generate",
			Usage: "generate a synthetic micropolygon scene",
			Description: `
Generate layers of flat shaded micropolygon grids in raster space and write
them to a zip archive which can be supplied as an argument to the render
command.`,
			ArgsUsage: "scene.zip",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: genDefaults.Width,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: genDefaults.Height,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "layers",
					Value: genDefaults.Layers,
					Usage: "number of depth layers",
				},
				cli.IntFlag{
					Name:  "grids",
					Value: genDefaults.GridsPerLayer,
					Usage: "grids per layer",
				},
				cli.IntFlag{
					Name:  "grid-size",
					Value: genDefaults.GridSize,
					Usage: "micropolygons per grid side",
				},
				cli.Float64Flag{
					Name:  "mp-size",
					Value: float64(genDefaults.MicropolygonSize),
					Usage: "micropolygon size in pixels",
				},
				cli.Float64Flag{
					Name:  "motion",
					Value: float64(genDefaults.MotionBlurRatio),
					Usage: "fraction of moving grids",
				},
				cli.Float64Flag{
					Name:  "dof",
					Value: float64(genDefaults.DepthOfFieldRatio),
					Usage: "fraction of grids with depth of field",
				},
				cli.Float64Flag{
					Name:  "transparent",
					Value: float64(genDefaults.TransparentRatio),
					Usage: "fraction of transparent grids",
				},
				cli.Float64Flag{
					Name:  "matte",
					Value: float64(genDefaults.MatteRatio),
					Usage: "fraction of matte grids",
				},
				cli.Float64Flag{
					Name:  "lod",
					Value: float64(genDefaults.LevelOfDetailRatio),
					Usage: "fraction of grids with a level of detail range",
				},
				cli.IntFlag{
					Name:  "lens-classes",
					Value: genDefaults.LensClasses,
					Usage: "number of depth of field lens classes",
				},
				cli.BoolFlag{
					Name:  "shuffle",
					Usage: "emit grids in random order instead of front to back",
				},
				cli.StringSliceFlag{
					Name:  "output",
					Value: &cli.StringSlice{},
					Usage: "attach a shader output to every micropolygon (name:kind)",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 1,
					Usage: "random seed",
				},
			},
			Action: cmd.GenerateScene,
		},
		{
			Name:      "info",
			Usage:     "display scene statistics",
			ArgsUsage: "scene.zip",
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Description: `
Split the frame into buckets and resolve the visibility of every micropolygon
against the bucket samples. The resolved debug image holds the average colour
of the visible opaque hits and the pixel coverage.`,
			ArgsUsage: "scene.zip",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width (defaults to the scene width)",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height (defaults to the scene height)",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: defaults.Workers,
					Usage: "number of concurrent bucket workers",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "row",
					Usage: "bucket order (row, center)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.exr",
					Usage: "OpenEXR filename for the rendered frame",
				},
			}, bucketFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:  "dump-tree",
			Usage: "dump the occlusion tree of a single bucket",
			Description: `
Process the bucket at the given pixel origin and write the resulting
occlusion tree. Without a scene argument the tree of an empty bucket is
dumped. Output files ending in .gz are gzip compressed.`,
			ArgsUsage: "[scene.zip]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "x",
					Usage: "bucket origin x",
				},
				cli.IntFlag{
					Name:  "y",
					Usage: "bucket origin y",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "-",
					Usage: "output file",
				},
			}, bucketFlags...),
			Action: cmd.DumpTree,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
