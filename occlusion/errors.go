package occlusion

import "errors"

var (
	ErrNilRegion      = errors.New("occlusion: nil region")
	ErrLayoutMismatch = errors.New("occlusion: region layout differs from the layout the tree was built for")
	ErrNotPrepared    = errors.New("occlusion: controller has not been prepared")
)
