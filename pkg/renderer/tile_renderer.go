package renderer

import (
	"image"
	"math/rand"

	"github.com/df07/rayo/pkg/core"
	"github.com/df07/rayo/pkg/geometry"
	"github.com/df07/rayo/pkg/integrator"
	"github.com/df07/rayo/pkg/scene"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Random          *rand.Rand      // Tile-specific random generator for deterministic results
}

// NewTile creates a new tile whose random stream is derived from seed and the tile ID
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(seed + int64(id))),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image, in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// TileRenderer renders individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	camera     *geometry.Camera
	integrator integrator.Integrator
	width      int
	height     int
}

// NewTileRenderer creates a tile renderer for an image of the given size
func NewTileRenderer(scn *scene.Scene, cam *geometry.Camera, integ integrator.Integrator, width, height int) *TileRenderer {
	return &TileRenderer{
		scene:      scn,
		camera:     cam,
		integrator: integ,
		width:      width,
		height:     height,
	}
}

// RenderTileBounds tops up every pixel within bounds to targetSamples samples.
// Pixels outside bounds are never touched, so tiles with disjoint bounds can share pixelStats.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples, // Start with max, will be reduced
	}

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			samplesUsed := 0
			for ps.SampleCount < targetSamples {
				ps.AddSample(SamplePixel(i, j, tr.width, tr.height, tr.camera, tr.scene, tr.integrator, sampler))
				samplesUsed++
			}

			stats.TotalSamples += samplesUsed
			stats.MinSamples = min(stats.MinSamples, samplesUsed)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}
