package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Config holds the command line options for a single render
type Config struct {
	SceneType string
	Width     int     // 0 keeps the scene's width
	Samples   int     // 0 keeps the scene's samples per pixel
	Depth     int     // 0 keeps the scene's max depth
	Passes    int
	Workers   int
	Seed      int64
	Aperture  float64 // 0 keeps the scene's aperture
	Output    string  // Empty means output/<scene>/render_<timestamp>.ppm
}

func main() {
	config := parseFlags()
	if config == nil {
		return
	}

	fmt.Println("Starting Path Tracer...")

	filename, err := run(context.Background(), *config, renderer.NewDefaultLogger())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Render saved as %s\n", filename)
}

// parseFlags parses command line flags, returning nil when only help was requested
func parseFlags() *Config {
	config := &Config{}
	flag.StringVar(&config.SceneType, "scene", "default", "Scene type: "+strings.Join(scene.Names(), ", "))
	flag.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.Depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	flag.IntVar(&config.Passes, "passes", 1, "Number of progressive passes")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	flag.Int64Var(&config.Seed, "seed", 0, "Base random seed for tile samplers")
	flag.Float64Var(&config.Aperture, "aperture", 0, "Lens diameter override (0 = scene default)")
	flag.StringVar(&config.Output, "output", "", "Output file (.ppm, .png, .bmp, .tiff, optionally + .zst or .sz)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return nil
	}
	return config
}

func showHelp() {
	fmt.Println("Path Tracer")
	fmt.Println("Usage: pathtracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, name := range scene.Names() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Output defaults to output/<scene>/render_<timestamp>.ppm")
}

// createScene builds a registered scene by name
func createScene(sceneType string, overrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("scene name is required")
	}
	return scene.New(sceneType, overrides...)
}

// applySampling folds the non-zero command line options into the scene's sampling config
func applySampling(s *scene.Scene, config Config) {
	if config.Width > 0 {
		s.SamplingConfig.Width = config.Width
		s.SamplingConfig.Height = scene.HeightFor(config.Width, s.CameraConfig.AspectRatio)
	}
	if config.Samples > 0 {
		s.SamplingConfig.SamplesPerPixel = config.Samples
	}
	if config.Depth > 0 {
		s.SamplingConfig.MaxDepth = config.Depth
	}
}

// outputPath returns the explicit output path or a timestamped one under output/<scene>
func outputPath(config Config, now time.Time) string {
	if config.Output != "" {
		return config.Output
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", config.SceneType, fmt.Sprintf("render_%s.ppm", timestamp))
}

// run renders the configured scene and writes the image, returning the written path
func run(ctx context.Context, config Config, logger core.Logger) (string, error) {
	filename := outputPath(config, time.Now())
	if _, _, err := output.ParsePath(filename); err != nil {
		return "", err
	}

	sceneObj, err := createScene(config.SceneType, geometry.CameraConfig{Aperture: config.Aperture})
	if err != nil {
		return "", err
	}
	applySampling(sceneObj, config)

	sampling := sceneObj.SamplingConfig
	logger.Printf("Scene %q: %dx%d, %d samples per pixel, max depth %d, %d primitives\n",
		config.SceneType, sampling.Width, sampling.Height, sampling.SamplesPerPixel,
		sampling.MaxDepth, sceneObj.GetPrimitiveCount())

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxSamplesPerPixel = sampling.SamplesPerPixel
	progressiveConfig.MaxPasses = config.Passes
	progressiveConfig.NumWorkers = config.Workers
	progressiveConfig.Seed = config.Seed
	if progressiveConfig.InitialSamples > progressiveConfig.MaxSamplesPerPixel {
		progressiveConfig.InitialSamples = progressiveConfig.MaxSamplesPerPixel
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, progressiveConfig, logger)
	if err != nil {
		return "", err
	}
	defer raytracer.Close()

	startTime := time.Now()
	img, stats, err := raytracer.RenderFinal(ctx)
	if err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), average luminance %.3f\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed,
		renderer.CalculateAverageLuminance(img))

	if err := output.WriteFile(filename, img); err != nil {
		return "", fmt.Errorf("saving %s: %w", filename, err)
	}
	return filename, nil
}
