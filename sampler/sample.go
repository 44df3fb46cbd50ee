package sampler

import (
	"github.com/achilleasa/hider/types"
	"github.com/chewxy/math32"
)

// Channel offsets inside a hit payload. Registered shader outputs start at
// BaseChannels.
const (
	ColorOffset   = 0
	OpacityOffset = 3
	DepthOffset   = 6
	BaseChannels  = 7
)

type HitFlag uint8

const (
	// The hit has been written into.
	Valid HitFlag = 1 << iota

	// The fragment that produced the hit can occlude.
	Occludes

	// The fragment that produced the hit belongs to a matte object.
	Matte
)

// A Hit records the shading payload of a fragment at a single sample.
type Hit struct {
	Data  []float32
	Flags HitFlag
}

// Allocate a hit payload with room for size channels.
func NewHit(size int) Hit {
	if size < BaseChannels {
		size = BaseChannels
	}
	return Hit{Data: make([]float32, size)}
}

func (h *Hit) Color() types.Vec3 {
	return types.Vec3{h.Data[ColorOffset], h.Data[ColorOffset+1], h.Data[ColorOffset+2]}
}

func (h *Hit) SetColor(c types.Vec3) {
	copy(h.Data[ColorOffset:ColorOffset+3], c[:])
}

func (h *Hit) Opacity() types.Vec3 {
	return types.Vec3{h.Data[OpacityOffset], h.Data[OpacityOffset+1], h.Data[OpacityOffset+2]}
}

func (h *Hit) SetOpacity(o types.Vec3) {
	copy(h.Data[OpacityOffset:OpacityOffset+3], o[:])
}

func (h *Hit) Depth() float32 {
	return h.Data[DepthOffset]
}

func (h *Hit) SetDepth(d float32) {
	h.Data[DepthOffset] = d
}

// Returns true if all bits of flag are set.
func (h *Hit) Has(flag HitFlag) bool {
	return h.Flags&flag == flag
}

// The Sample type holds the state of one sub-pixel sample point.
type Sample struct {
	// Raster-space position.
	Position types.Vec2

	// Time inside the shutter interval.
	Time float32

	// Depth of field lens offset class.
	LensIndex int

	// Level of detail value.
	DetailLevel float32

	// The nearest opaque hit recorded at this sample.
	Opaque Hit

	// Non-opaque hits in insertion order.
	Partial []Hit
}

// Get the depth of the nearest opaque hit or +Inf if nothing opaque has
// been recorded.
func (s *Sample) NearestOpaqueDepth() float32 {
	if len(s.Opaque.Data) == 0 || !s.Opaque.Has(Valid) {
		return math32.Inf(1)
	}
	return s.Opaque.Depth()
}

// Clear all hit state. The opaque payload is resized to payloadSize channels.
func (s *Sample) Clear(payloadSize int) {
	if payloadSize < BaseChannels {
		payloadSize = BaseChannels
	}
	if cap(s.Opaque.Data) < payloadSize {
		s.Opaque.Data = make([]float32, payloadSize)
	} else {
		s.Opaque.Data = s.Opaque.Data[:payloadSize]
		for i := range s.Opaque.Data {
			s.Opaque.Data[i] = 0
		}
	}
	s.Opaque.Flags = 0
	s.Opaque.SetDepth(math32.Inf(1))
	s.Partial = s.Partial[:0]
}
