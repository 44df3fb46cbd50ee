package renderer

import (
	"image"

	"github.com/achilleasa/hider/sampler"
	"github.com/achilleasa/hider/types"
	"github.com/mrjoshuak/go-openexr/exr"
)

// A Pixel holds the resolved debug value of one frame pixel.
type Pixel struct {
	// Average colour of the nearest opaque hits of the covered samples.
	Color types.Vec3

	// Fraction of the pixel samples with a visible opaque hit.
	Coverage float32
}

// A Frame is the debug image produced by a render. Buckets are disjoint so
// workers may resolve into the same frame concurrently.
type Frame struct {
	Width  int
	Height int
	Pixels []Pixel
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pixels: make([]Pixel, width*height),
	}
}

// Get the pixel at (x, y).
func (f *Frame) At(x, y int) Pixel {
	return f.Pixels[y*f.Width+x]
}

// Box-filter the samples of each region pixel into the frame. Matte hits
// count as holes.
func (f *Frame) Resolve(region *sampler.Region) {
	layout := region.Layout()
	spp := layout.SamplesPerPixel()

	for py := 0; py < layout.Height; py++ {
		fy := region.Y + py
		if fy < 0 || fy >= f.Height {
			continue
		}
		for px := 0; px < layout.Width; px++ {
			fx := region.X + px
			if fx < 0 || fx >= f.Width {
				continue
			}

			var color types.Vec3
			covered := 0
			samples := region.PixelSamples(px, py)
			for i := range samples {
				hit := &samples[i].Opaque
				if !hit.Has(sampler.Valid) || hit.Has(sampler.Matte) {
					continue
				}
				color = color.Add(hit.Color())
				covered++
			}

			pixel := Pixel{}
			if covered > 0 {
				pixel.Color = color.Mul(1 / float32(covered))
				pixel.Coverage = float32(covered) / float32(spp)
			}
			f.Pixels[fy*f.Width+fx] = pixel
		}
	}
}

// Convert the frame into an RGBA image with the colour premultiplied by
// the coverage.
func (f *Frame) Image() *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			c := p.Color.Mul(p.Coverage)
			img.SetRGBA(x, y, c[0], c[1], c[2], p.Coverage)
		}
	}
	return img
}

// Write the frame to an OpenEXR file.
func (f *Frame) WriteEXR(path string) error {
	return exr.EncodeFile(path, f.Image())
}
