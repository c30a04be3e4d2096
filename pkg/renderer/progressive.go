package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed for the per-tile samplers
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7,
		NumWorkers:         0, // Auto-detect CPU count
		Seed:               0,
	}
}

// Validate rejects configurations that cannot schedule any samples
func (c ProgressiveConfig) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile size must be positive, got %d", c.TileSize)
	}
	if c.MaxPasses <= 0 {
		return fmt.Errorf("max passes must be positive, got %d", c.MaxPasses)
	}
	if c.MaxSamplesPerPixel <= 0 {
		return fmt.Errorf("max samples per pixel must be positive, got %d", c.MaxSamplesPerPixel)
	}
	if c.InitialSamples <= 0 || c.InitialSamples > c.MaxSamplesPerPixel {
		return fmt.Errorf("initial samples must be in [1, %d], got %d", c.MaxSamplesPerPixel, c.InitialSamples)
	}
	return nil
}

// errClosed is returned by passes started after Close
var errClosed = errors.New("progressive raytracer is closed")

// ProgressiveRaytracer manages progressive rendering with multiple passes.
// Passes must not run concurrently; Close may be called from any goroutine.
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile        // Tile management
	pixelStats    [][]PixelStats // Shared pixel statistics array (image coordinates)
	tileRenderer  *TileRenderer
	logger        core.Logger // Logger for rendering output

	mu         sync.Mutex
	workerPool *WorkerPool // Started on the first pass, nil between renders
	closed     bool
}

// NewProgressiveRaytracer creates a new progressive raytracer for the scene's image size
func NewProgressiveRaytracer(s *scene.Scene, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progressive config: %w", err)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	tiles := NewTileGrid(width, height, config.TileSize, config.Seed)

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	pathTracer := integrator.NewPathTracingIntegrator(s.SamplingConfig)
	logger.Printf("Path tracing %dx%d in %d tiles, max depth %d\n",
		width, height, len(tiles), pathTracer.MaxDepth())

	return &ProgressiveRaytracer{
		scene:        s,
		width:        width,
		height:       height,
		config:       config,
		tiles:        tiles,
		pixelStats:   pixelStats,
		tileRenderer: NewTileRenderer(s, pathTracer),
		logger:       logger,
	}, nil
}

// Close stops the worker pool. Passes started afterwards fail with an error.
// It is safe to call more than once.
func (pr *ProgressiveRaytracer) Close() {
	pr.mu.Lock()
	pr.closed = true
	pr.mu.Unlock()
	pr.releasePool()
}

// pool returns the running worker pool, starting a fresh one if needed
func (pr *ProgressiveRaytracer) pool() (*WorkerPool, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.closed {
		return nil, errClosed
	}
	if pr.workerPool == nil {
		pr.workerPool = NewWorkerPool(pr.tileRenderer, len(pr.tiles), pr.config.NumWorkers)
		pr.workerPool.Start()
	}
	return pr.workerPool, nil
}

// releasePool stops the running worker pool, if any. The next pass starts a new one.
func (pr *ProgressiveRaytracer) releasePool() {
	pr.mu.Lock()
	wp := pr.workerPool
	pr.workerPool = nil
	pr.mu.Unlock()
	if wp != nil {
		wp.Stop()
	}
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	// The final pass uses all remaining samples
	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	workerPool, err := pr.pool()
	if err != nil {
		return nil, RenderStats{}, err
	}
	targetSamples := pr.getSamplesForPass(passNumber)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, workerPool.GetNumWorkers())

	submitted := 0
	for taskID, tile := range pr.tiles {
		err := workerPool.SubmitTask(TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        taskID,
			PixelStats:    pr.pixelStats,
		})
		if err != nil {
			break
		}
		submitted++
	}

	// Drain every result before reporting a failure so no worker is left blocked
	var firstErr error
	if submitted < len(pr.tiles) {
		firstErr = errClosed
	}
	for i := 0; i < submitted; i++ {
		result, ok := workerPool.GetResult()
		if !ok {
			// Close stopped the pool mid-pass
			return nil, RenderStats{}, errClosed
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		// Callbacks are dispatched from this goroutine only
		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:       tile.Bounds.Min.X / pr.config.TileSize,
				TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:   pr.extractTileImage(tile),
				PassNumber:  passNumber,
				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
				TilePasses:  tile.PassesCompleted,
			})
		}
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// extractTileImage copies a tile's current pixels into a tile-sized image
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, ColorToRGBA(stats.GetColor()))
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
	TilePasses  int // Passes this tile has completed, including this one
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive runs every pass in a background goroutine and publishes the
// results on channels. All three channels are closed when rendering ends.
// If options.TileUpdates is false the tile channel is closed immediately.
// Cancelling ctx stops rendering between passes and reports ctx.Err().
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.releasePool()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; the next pass image supersedes the tile
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, time.Since(startTime), actualSamples)

			isLast := pass == pr.config.MaxPasses || actualSamples >= pr.config.MaxSamplesPerPixel
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}

			if isLast {
				break
			}
		}
	}()

	return passChan, tileChan, errChan
}

// RenderFinal runs every pass synchronously and returns the last image
func (pr *ProgressiveRaytracer) RenderFinal(ctx context.Context) (*image.RGBA, RenderStats, error) {
	passChan, _, errChan := pr.RenderProgressive(ctx, RenderOptions{})

	var last PassResult
	for result := range passChan {
		last = result
	}
	if err := <-errChan; err != nil {
		return nil, RenderStats{}, err
	}
	if last.Image == nil {
		return nil, RenderStats{}, fmt.Errorf("render produced no passes")
	}
	return last.Image, last.Stats, nil
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))
	stats := newRenderStats(pr.width*pr.height, targetSamples)

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, ColorToRGBA(pixel.GetColor()))
			stats.addPixel(pixel.SampleCount, pixel.MeanVariance())
		}
	}

	stats.finalize()
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Sampler         core.Sampler    // Tile-specific random source, carried across passes
}

// tileSeed derives a tile's seed so that neighbouring tiles and base seeds do not collide
func tileSeed(baseSeed int64, id int) int64 {
	return baseSeed*1_000_003 + int64(id) + 42 // +42 to avoid seed 0
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle, baseSeed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewRandomSampler(rand.New(rand.NewSource(tileSeed(baseSeed, id)))),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, baseSeed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), baseSeed))
			tileID++
		}
	}

	return tiles
}
