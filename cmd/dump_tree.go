package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/asset/scene/reader"
	"github.com/achilleasa/hider/renderer"
	"github.com/klauspost/compress/gzip"
	"github.com/urfave/cli"
)

// Process one bucket of a scene and dump its occlusion tree. Without a
// scene argument the tree of an empty bucket is dumped.
func DumpTree(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	var sc *scene.Scene
	if ctx.NArg() > 0 {
		if sc, err = reader.ReadScene(ctx.Args().First()); err != nil {
			return err
		}
	}

	bucket := renderer.Bucket{
		X: ctx.Int("x"),
		Y: ctx.Int("y"),
		W: cfg.Render.BucketW,
		H: cfg.Render.BucketH,
	}

	out, closeFn, err := openDumpOutput(ctx.String("out"))
	if err != nil {
		return err
	}
	err = renderer.DumpBucketTree(sc, cfg.Render, bucket, out)
	if closeErr := closeFn(); err == nil {
		err = closeErr
	}
	return err
}

// Open the dump destination. "-" or an empty name writes to stdout; names
// ending in .gz are gzip compressed.
func openDumpOutput(name string) (io.Writer, func() error, error) {
	if name == "" || name == "-" {
		bw := bufio.NewWriter(os.Stdout)
		return bw, bw.Flush, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(name, ".gz") {
		return f, f.Close, nil
	}

	zw := gzip.NewWriter(f)
	closeFn := func() error {
		err := zw.Close()
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		return err
	}
	logger.Noticef("writing compressed tree dump to %s", name)
	return zw, closeFn, nil
}
