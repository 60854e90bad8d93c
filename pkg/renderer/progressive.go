package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/integrator"
	"github.com/df07/rayo/pkg/scene"
	"github.com/golang/glog"
)

// DefaultLogger implements core.Logger on top of glog
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize       int   // Size of each square tile
	InitialSamples int   // Samples for the first pass when there is more than one
	MaxPasses      int   // Number of passes the sample budget is split across
	NumWorkers     int   // Number of parallel workers (0 = use CPU count)
	Seed           int64 // Base seed for the per-tile random streams
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:       32,
		InitialSamples: 1,
		MaxPasses:      1,
		NumWorkers:     0, // Auto-detect CPU count
		Seed:           42,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// Raytracer renders a scene in tiles over one or more progressive passes
type Raytracer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	width      int
	height     int
	sampling   scene.SamplingConfig
	config     ProgressiveConfig
	tiles      []*Tile        // Tile management
	pixelStats [][]PixelStats // Shared pixel statistics array (global image coordinates)
	workerPool *WorkerPool
	logger     core.Logger
	progress   *ProgressReporter
}

// NewRaytracer creates a raytracer for the scene. The camera aspect ratio is
// taken from the image dimensions.
func NewRaytracer(scn *scene.Scene, width, height int, sampling scene.SamplingConfig, config ProgressiveConfig, logger core.Logger) *Raytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	if config.MaxPasses <= 0 {
		config.MaxPasses = 1
	}
	if config.InitialSamples <= 0 {
		config.InitialSamples = 1
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	cameraConfig := scn.CameraConfig
	cameraConfig.AspectRatio = float64(width) / float64(height)
	camera := geometry.NewCamera(cameraConfig)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tileRenderer := NewTileRenderer(scn, camera, integrator.NewPathTracingIntegrator(sampling.MaxDepth), width, height)

	return &Raytracer{
		scene:      scn,
		camera:     camera,
		width:      width,
		height:     height,
		sampling:   sampling,
		config:     config,
		tiles:      NewTileGrid(width, height, config.TileSize, config.Seed),
		pixelStats: pixelStats,
		workerPool: NewWorkerPool(tileRenderer, config.NumWorkers),
		logger:     logger,
	}
}

// SetProgressReporter enables per-tile progress output
func (rt *Raytracer) SetProgressReporter(progress *ProgressReporter) {
	rt.progress = progress
}

// getSamplesForPass calculates the target total samples for a given pass
func (rt *Raytracer) getSamplesForPass(passNumber int) int {
	maxSamples := rt.sampling.SamplesPerPixel

	// Special case: if only 1 pass, use all samples
	if rt.config.MaxPasses == 1 || passNumber >= rt.config.MaxPasses {
		return maxSamples
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return min(rt.config.InitialSamples, maxSamples)
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := maxSamples - rt.config.InitialSamples
	samplesPerPass := remainingSamples / (rt.config.MaxPasses - 1)

	return min(rt.config.InitialSamples+(passNumber-1)*samplesPerPass, maxSamples)
}

// RenderPass renders a single progressive pass using parallel processing
func (rt *Raytracer) RenderPass(ctx context.Context, passNumber int) (*image.RGBA, RenderStats, error) {
	targetSamples := rt.getSamplesForPass(passNumber)

	rt.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, rt.workerPool.GetNumWorkers())

	tasks := make([]TileTask, 0, len(rt.tiles))
	for _, tile := range rt.tiles {
		tasks = append(tasks, TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			PixelStats:    rt.pixelStats,
		})
	}

	if rt.progress != nil {
		rt.progress.StartPass(passNumber, rt.config.MaxPasses, len(tasks))
	}

	err := rt.workerPool.Run(ctx, tasks, func(result TileResult) {
		if glog.V(2) {
			glog.Infof("Tile %d done: %d samples", result.Tile.ID, result.Stats.TotalSamples)
		}
		if rt.progress != nil {
			rt.progress.TileDone()
		}
	})
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("while rendering pass %d: %w", passNumber, err)
	}

	img, stats := rt.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// Render runs every pass and returns the final image. onPass, if non-nil, receives
// each intermediate snapshot. Cancelling ctx stops at the next tile boundary and
// discards the unfinished pass.
func (rt *Raytracer) Render(ctx context.Context, onPass func(PassResult)) (*image.RGBA, RenderStats, error) {
	rt.logger.Printf("Starting render of %dx%d with %d passes...\n", rt.width, rt.height, rt.config.MaxPasses)

	var img *image.RGBA
	var stats RenderStats
	for pass := 1; pass <= rt.config.MaxPasses; pass++ {
		startTime := time.Now()

		var err error
		img, stats, err = rt.RenderPass(ctx, pass)
		if err != nil {
			rt.logger.Printf("Rendering cancelled during pass %d\n", pass)
			return nil, RenderStats{}, err
		}
		stats.Elapsed = time.Since(startTime)

		rt.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
			pass, stats.Elapsed, int(stats.AverageSamples))
		if glog.V(1) {
			glog.Infof("Pass %d average luminance %.4f", pass, CalculateAverageLuminance(img))
		}

		if onPass != nil {
			onPass(PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == rt.config.MaxPasses,
			})
		}
	}

	if rt.progress != nil {
		rt.progress.Finish()
	}
	return img, stats, nil
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (rt *Raytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))

	stats := RenderStats{
		TotalPixels: rt.width * rt.height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start high, will be reduced
	}

	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			pixel := &rt.pixelStats[y][x]
			img.SetRGBA(x, y, ToneMap(pixel.GetColor()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return img, stats
}
