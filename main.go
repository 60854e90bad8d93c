// rayo renders scenes with a Monte Carlo path tracer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/rayo/pkg/config"
	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/loaders"
	"github.com/df07/rayo/pkg/output"
	"github.com/df07/rayo/pkg/preview"
	"github.com/df07/rayo/pkg/renderer"
	"github.com/df07/rayo/pkg/scene"
	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

const (
	defaultSceneName = "default"
	defaultScenesDir = "scenes"
	progressInterval = 200 * time.Millisecond
)

// cliFlags holds the raw flag values before they are folded into a config.Config
type cliFlags struct {
	configPath  string
	scenesDir   string
	sceneName   string
	out         string
	width       int
	aspect      string
	depth       int
	samples     int
	silent      bool
	workers     int
	tileSize    int
	seed        int64
	passes      int
	supersample int
	quality     int
	gui         bool
}

func newRootCmd() *cobra.Command {
	var f cliFlags

	cmdRoot := &cobra.Command{
		Use:   "rayo [scene-file]",
		Short: "Render a scene with a Monte Carlo path tracer",
		Long: "Renders a YAML or JSON scene file, or a built-in scene selected with --scene,\n" +
			"and writes the image to --out. The encoder is chosen by file extension.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagConfig := f.toConfig(cmd)

			var fileConfig config.Config
			if f.configPath != "" {
				var err error
				if fileConfig, err = config.Load(f.configPath); err != nil {
					return err
				}
			}

			sceneFile := ""
			if len(args) == 1 {
				sceneFile = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, fileConfig, flagConfig, sceneFile, f.scenesDir, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmdRoot.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML or JSON file with render settings; flags override it")
	flags.StringVar(&f.sceneName, "scene", "", "Built-in scene, or file:<name> from the scenes directory, used when no scene file is given")
	flags.StringVarP(&f.out, "out", "o", "", "Output image path (.png, .jpg, .webp, .bmp, .tiff) (default \"render.png\")")
	flags.IntVarP(&f.width, "resolution", "r", 0, "Image width in pixels (default 480)")
	flags.StringVarP(&f.aspect, "aspect", "a", "", "Aspect ratio as W/H or a decimal (default \"16/9\")")
	flags.IntVarP(&f.depth, "depth", "d", config.DefaultMaxDepth, "Maximum bounce depth")
	flags.IntVarP(&f.samples, "num-samples", "n", 0, "Samples per pixel (default 100)")
	flags.BoolVarP(&f.silent, "silent", "s", false, "Disable progress output")
	flags.IntVar(&f.workers, "workers", 0, "Parallel tile workers (default CPU count)")
	flags.IntVar(&f.tileSize, "tile-size", 0, "Tile edge in pixels (default 32)")
	flags.Int64Var(&f.seed, "seed", 0, "Base random seed (default 42)")
	flags.IntVar(&f.passes, "passes", 0, "Progressive passes the samples are split across (default 1)")
	flags.IntVar(&f.supersample, "supersample", 0, "Render at N times the resolution and downscale (default 1)")
	flags.IntVar(&f.quality, "quality", 0, "JPEG quality 1-100 (default 90)")
	flags.BoolVar(&f.gui, "gui", false, "Show progressive passes in a window")
	cmdRoot.PersistentFlags().StringVar(&f.scenesDir, "scenes-dir", defaultScenesDir, "Directory searched for file: scenes")

	// glog registers -v, -logtostderr and friends on the standard flag set
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmdRoot.AddCommand(newScenesCmd(&f))
	return cmdRoot
}

func newScenesCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := scene.ListAllScenes(f.scenesDir)
			if err != nil {
				return err
			}
			printSceneGroups(cmd.OutOrStdout(), groups)
			return nil
		},
	}
}

func (f *cliFlags) toConfig(cmd *cobra.Command) config.Config {
	c := config.Config{
		Scene:           f.sceneName,
		Width:           f.width,
		AspectRatio:     f.aspect,
		SamplesPerPixel: f.samples,
		Workers:         f.workers,
		TileSize:        f.tileSize,
		Seed:            f.seed,
		Passes:          f.passes,
		Supersample:     f.supersample,
		Quality:         f.quality,
		Output:          f.out,
		Silent:          f.silent,
		Preview:         f.gui,
	}
	// Depth 0 is a valid request, so only an explicit flag overrides the other layers
	if cmd.Flags().Changed("depth") {
		depth := f.depth
		c.MaxDepth = &depth
	}
	return c
}

func printSceneGroups(w io.Writer, groups []scene.SceneGroup) {
	for i, group := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Description)
			} else {
				fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.DisplayName)
			}
		}
	}
}

// loadScene loads sceneFile if set, otherwise the named built-in or file: scene
func loadScene(sceneFile, name, scenesDir string, aspect float64) (*scene.Scene, error) {
	if sceneFile != "" {
		return loaders.LoadScene(sceneFile, aspect)
	}
	if name == "" {
		name = defaultSceneName
	}

	return loaders.LoadSceneByID(name, scenesDir, aspect)
}

// resolveConfig layers settings from lowest to highest precedence:
// defaults, the scene's recommended sampling, the config file, then flags
func resolveConfig(sc *scene.Scene, fileConfig, flagConfig config.Config) (config.Config, error) {
	base := config.Config{SamplesPerPixel: sc.SamplingConfig.SamplesPerPixel}
	if sc.SamplingConfig.MaxDepth != scene.UnsetDepth {
		depth := sc.SamplingConfig.MaxDepth
		base.MaxDepth = &depth
	}
	return config.Resolve(base.Merge(fileConfig), flagConfig)
}

func run(ctx context.Context, fileConfig, flagConfig config.Config, sceneFile, scenesDir string, stdout, stderr io.Writer) error {
	// The aspect ratio is needed to build the camera before the scene's own defaults are known
	preliminary := fileConfig.Merge(flagConfig).WithDefaults()
	if err := preliminary.Validate(); err != nil {
		return err
	}

	sc, err := loadScene(sceneFile, preliminary.Scene, scenesDir, preliminary.Aspect())
	if err != nil {
		return fmt.Errorf("while loading scene: %w", err)
	}

	cfg, err := resolveConfig(sc, fileConfig, flagConfig)
	if err != nil {
		return err
	}
	if err := output.CheckFormat(cfg.Output); err != nil {
		return err
	}

	glog.Infof("Rendering scene %q (%d primitives) at %dx%d, %d samples, depth %d",
		sc.Name, sc.GetPrimitiveCount(), cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.Depth())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !cfg.Preview {
		return renderAndSave(ctx, sc, cfg, nil, stdout, stderr)
	}

	frames := make(chan *image.RGBA, cfg.Passes)
	errc := make(chan error, 1)
	go func() {
		defer close(frames)
		errc <- renderAndSave(ctx, sc, cfg, frames, stdout, stderr)
	}()

	title := fmt.Sprintf("rayo - %s", sc.Name)
	previewErr := preview.Run(title, cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample, frames)

	// Closing the window stops an unfinished render
	cancel()
	if err := <-errc; err != nil {
		return err
	}
	return previewErr
}

func renderAndSave(ctx context.Context, sc *scene.Scene, cfg config.Config, frames chan<- *image.RGBA, stdout, stderr io.Writer) error {
	width := cfg.Width * cfg.Supersample
	height := cfg.Height * cfg.Supersample

	var logger core.Logger = core.NopLogger{}
	if !cfg.Silent {
		logger = renderer.NewDefaultLogger()
	}

	sampling := scene.SamplingConfig{SamplesPerPixel: cfg.SamplesPerPixel, MaxDepth: cfg.Depth()}
	progressive := renderer.ProgressiveConfig{
		TileSize:       cfg.TileSize,
		InitialSamples: 1,
		MaxPasses:      cfg.Passes,
		NumWorkers:     cfg.Workers,
		Seed:           cfg.Seed,
	}

	rt := renderer.NewRaytracer(sc, width, height, sampling, progressive, logger)
	if !cfg.Silent {
		rt.SetProgressReporter(renderer.NewProgressReporter(stderr, progressInterval))
	}

	startTime := time.Now()
	img, stats, err := rt.Render(ctx, func(result renderer.PassResult) {
		if frames != nil {
			frames <- result.Image
		}
	})
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("render cancelled: %w", err)
	}
	if err != nil {
		return err
	}

	final := output.Downsample(img, cfg.Width, cfg.Height)
	if err := output.Save(cfg.Output, final, output.Options{Quality: cfg.Quality}); err != nil {
		return err
	}

	if !cfg.Silent {
		fmt.Fprintf(stdout, "Render completed in %v\n", time.Since(startTime).Round(time.Millisecond))
		fmt.Fprintf(stdout, "Samples per pixel: %.1f (range %d - %d)\n",
			stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed)
		fmt.Fprintf(stdout, "Render saved as %s\n", cfg.Output)
	}
	return nil
}

func main() {
	glog.CopyStandardLogTo("INFO")
	// Log to stderr unless the user asks for glog's log files
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
}
