package reader

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/achilleasa/hider/asset"
	"github.com/achilleasa/hider/asset/scene"
	"github.com/achilleasa/hider/log"
	"github.com/klauspost/compress/zip"
)

const (
	dataFile = "scene.bin"
)

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read scene definition from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	p.logger.Noticef(`reading scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// The zip reader needs an io.ReaderAt and remote resources are
	// streamed, so buffer the whole archive.
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var sc *scene.Scene
	for _, f := range zr.File {
		if f.Name != dataFile {
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		sc = &scene.Scene{}
		err = gob.NewDecoder(rc).Decode(sc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", f.Name, err)
		}
	}

	if sc == nil {
		return nil, fmt.Errorf("zipSceneReader: missing %s in %s", dataFile, sceneRes.Path())
	}

	sc.DropStaticMotion()
	p.logger.Noticef("loaded scene with %d grids in %d ms", len(sc.Grids), time.Since(start).Milliseconds())
	return sc, nil
}
