package reader

import (
	"fmt"
	"strings"

	"github.com/achilleasa/hider/asset"
	"github.com/achilleasa/hider/asset/scene"
)

// The Reader interface is implemented by all scene readers.
type Reader interface {
	// Read scene definition from a resource.
	Read(*asset.Resource) (*scene.Scene, error)
}

// Read scene from a local file or http(s) URL.
func ReadScene(location string) (*scene.Scene, error) {
	if !strings.HasSuffix(location, ".zip") {
		return nil, fmt.Errorf("readScene: unsupported file format")
	}

	res, err := asset.NewResource(location)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipSceneReader().Read(res)
}
