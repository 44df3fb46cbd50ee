package sampler

import "errors"

var (
	ErrOutputKindMismatch = errors.New("sampler: output already registered with a different kind")
	ErrInvalidLayout      = errors.New("sampler: region layout must have positive dimensions")
)
