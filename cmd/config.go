package cmd

import (
	"fmt"
	"os"

	"github.com/achilleasa/hider/log"
	"github.com/achilleasa/hider/occlusion"
	"github.com/achilleasa/hider/renderer"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v3"
)

// Settings loaded from the optional YAML file passed with --config.
// Explicitly set command line flags take precedence.
type config struct {
	LogLevel  string           `yaml:"log_level"`
	Policy    string           `yaml:"policy"`
	Scheduler string           `yaml:"scheduler"`
	Render    renderer.Options `yaml:"render"`
}

func defaultConfig() *config {
	return &config{
		Policy:    occlusion.ReuseTopology.String(),
		Scheduler: "row",
		Render:    renderer.DefaultOptions(),
	}
}

// Parse a YAML config file on top of the defaults.
func readConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: could not parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load the config file named by the global --config flag and override its
// values with the flags set on the command line.
func loadConfig(ctx *cli.Context) (*config, error) {
	cfg, err := readConfig(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	if cfg.LogLevel != "" && !ctx.GlobalIsSet("log-level") && !ctx.GlobalBool("v") && !ctx.GlobalBool("vv") {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		log.SetLevel(level)
	}

	opts := &cfg.Render
	intFlags := map[string]*int{
		"width":         &opts.FrameW,
		"height":        &opts.FrameH,
		"bucket-width":  &opts.BucketW,
		"bucket-height": &opts.BucketH,
		"xsamples":      &opts.XSamples,
		"ysamples":      &opts.YSamples,
		"lens-classes":  &opts.LensClasses,
		"fan-out":       &opts.FanOut,
		"workers":       &opts.Workers,
	}
	for name, dst := range intFlags {
		if ctx.IsSet(name) {
			*dst = ctx.Int(name)
		}
	}

	floatFlags := map[string]*float32{
		"shutter-open":  &opts.ShutterOpen,
		"shutter-close": &opts.ShutterClose,
	}
	for name, dst := range floatFlags {
		if ctx.IsSet(name) {
			*dst = float32(ctx.Float64(name))
		}
	}

	if ctx.IsSet("seed") {
		opts.Seed = ctx.Int64("seed")
	}
	if ctx.IsSet("policy") {
		cfg.Policy = ctx.String("policy")
	}
	if ctx.IsSet("scheduler") {
		cfg.Scheduler = ctx.String("scheduler")
	}

	if opts.Policy, err = occlusion.ParsePolicy(cfg.Policy); err != nil {
		return nil, err
	}
	return cfg, nil
}
