package writer

import (
	"encoding/gob"
	"io"
	"time"

	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/log"
	"github.com/klauspost/compress/zip"
)

const (
	dataFile = "scene.bin"
)

type zipSceneWriter struct {
	logger log.Logger
	out    io.Writer
	name   string
}

// Create a new zip scene writer.
func newZipSceneWriter(out io.Writer, name string) *zipSceneWriter {
	return &zipSceneWriter{
		logger: log.New("zip writer"),
		out:    out,
		name:   name,
	}
}

// Write scene definition to zip file.
func (w *zipSceneWriter) Write(sc *scene.Scene) error {
	w.logger.Noticef("writing compressed scene to %s", w.name)
	start := time.Now()

	zw := zip.NewWriter(w.out)
	cw, err := zw.Create(dataFile)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(cw).Encode(sc); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("compressed scene in %d ms", time.Since(start).Milliseconds())
	return nil
}
