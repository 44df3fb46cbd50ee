package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/achilleasa/hider/asset/scene/reader"
	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/renderer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	scheduler, err := renderer.ParseScheduler(cfg.Scheduler)
	if err != nil {
		return err
	}

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	// Create renderer
	r, err := renderer.NewDefault(sc, scheduler, cfg.Render)
	if err != nil {
		return err
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err = r.Render(renderCtx); err != nil {
		return err
	}

	// Display stats
	displayFrameStats(r.Stats())

	if out := ctx.String("out"); out != "" {
		logger.Noticef("writing frame to %s", out)
		return r.Frame().WriteEXR(out)
	}
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Buckets", "% of frame", "Layouts", "Grids culled", "Queries culled", "Queries sampled", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.Buckets),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%d", stat.Layouts),
			fmt.Sprintf("%d", stat.GridsCulled),
			fmt.Sprintf("%d", stat.QueriesCulled),
			fmt.Sprintf("%d", stat.QueriesSampled),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
	logger.Noticef("occlusion engine statistics\n%s", engineStatsTable(stats.Engine))
}

func engineStatsTable(stats occlusion.Stats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Counter", "Value"})
	table.Append([]string{"Regions prepared", fmt.Sprintf("%d", stats.RegionsPrepared)})
	table.Append([]string{"Trees built", fmt.Sprintf("%d", stats.TreesBuilt)})
	table.Append([]string{"Cull tests", fmt.Sprintf("%d", stats.CullTests)})
	table.Append([]string{"Culled", fmt.Sprintf("%d (%02.1f %%)", stats.Culled, 100*stats.CullRate())})
	table.Append([]string{"Fragments sampled", fmt.Sprintf("%d", stats.FragmentsSampled)})
	table.Append([]string{"Sample tests", fmt.Sprintf("%d", stats.SampleTests)})
	table.Append([]string{"Sample hits", fmt.Sprintf("%d (%02.1f %%)", stats.SampleHits, 100*stats.HitRate())})
	table.Append([]string{"Opaque updates", fmt.Sprintf("%d", stats.OpaqueUpdates)})
	table.Append([]string{"Partial hits", fmt.Sprintf("%d", stats.PartialHits)})
	table.Render()
	return buf.String()
}
