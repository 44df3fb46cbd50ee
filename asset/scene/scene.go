package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/hider/fragment"
	"github.com/achilleasa/hider/sampler"
	"github.com/olekukonko/tablewriter"
)

// A Scene is a diced and shaded frame: micropolygon grids in raster space
// plus the shader outputs the grids provide.
type Scene struct {
	// Frame dimensions in pixels.
	Width  int
	Height int

	// Shader outputs recorded into every opaque hit.
	Outputs []sampler.OutputDef

	Grids []*fragment.Grid
}

// Build the hit payload schema for the scene outputs.
func (sc *Scene) Schema() (*sampler.Schema, error) {
	return sampler.NewSchema(sc.Outputs...)
}

// Drop the motion vectors of grids that do not use motion blur.
func (sc *Scene) DropStaticMotion() {
	for _, g := range sc.Grids {
		g.DropStaticMotion()
	}
}

// Count the micropolygons in all grids.
func (sc *Scene) NumMicropolygons() int {
	count := 0
	for _, g := range sc.Grids {
		count += len(g.Micropolygons)
	}
	return count
}

// Generate a table with scene statistics.
func (sc *Scene) Stats() string {
	var motion, dof, lod, matte, transparent int
	for _, g := range sc.Grids {
		if g.MotionBlur {
			motion++
		}
		if g.DepthOfField {
			dof++
		}
		if g.LevelOfDetail {
			lod++
		}
		if g.Matte {
			matte++
		}
		for _, mp := range g.Micropolygons {
			if !mp.IsOpaque() {
				transparent++
			}
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Frame", "Resolution", fmt.Sprintf("%dx%d", sc.Width, sc.Height)})
	table.Append([]string{"", "Outputs", fmt.Sprint(len(sc.Outputs))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Grids", "---", fmt.Sprint(len(sc.Grids))})
	table.Append([]string{"", "Motion blur", fmt.Sprint(motion)})
	table.Append([]string{"", "Depth of field", fmt.Sprint(dof)})
	table.Append([]string{"", "Level of detail", fmt.Sprint(lod)})
	table.Append([]string{"", "Matte", fmt.Sprint(matte)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Micropolygons", "Transparent", fmt.Sprint(transparent)})
	table.SetFooter([]string{"Total", "Micropolygons", fmt.Sprint(sc.NumMicropolygons())})

	table.Render()
	return buf.String()
}
