package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is a single message on the render websocket
type Event struct {
	Type string      `json:"type"` // "console", "tile", "pass", "error", "complete"
	Data interface{} `json:"data"`
}

// TileUpdate represents a single tile update
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
	TilePasses  int    `json:"tilePasses"`  // Passes this tile has completed
}

// PassUpdate represents a completed progressive pass
type PassUpdate struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG of the whole image
	Stats          Stats  `json:"stats"`
	IsLast         bool   `json:"isLast"`
	ElapsedMs      int64  `json:"elapsedMs"`
	PrimitiveCount int    `json:"primitiveCount"`
}

// RenderingPipeline contains the configured scene and raytracer
type RenderingPipeline struct {
	Scene     *scene.Scene
	Raytracer *renderer.ProgressiveRaytracer
}

// handleRender upgrades to a websocket and streams a progressive render.
// Closing the socket from the client cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go readUntilClosed(conn, cancel)

	events := make(chan Event, 100)
	writerDone := make(chan struct{})
	go writeEvents(conn, events, writerDone, cancel)

	s.render(ctx, r.URL.Query(), events)

	close(events)
	<-writerDone

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "render finished"),
		time.Now().Add(writeWait))
}

// readUntilClosed discards client messages and cancels the render once the client goes away
func readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeEvents is the only goroutine that writes data frames to conn
func writeEvents(conn *websocket.Conn, events <-chan Event, done chan<- struct{}, cancel context.CancelFunc) {
	defer close(done)
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			msg, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error marshaling %s event: %v", event.Type, err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// Client is gone; stop rendering and let the producer unwind
				cancel()
				for range events {
				}
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}

// emit queues an event unless the render has been cancelled
func emit(ctx context.Context, events chan<- Event, event Event) {
	select {
	case events <- event:
	case <-ctx.Done():
	}
}

// render runs one progressive render and reports it as events
func (s *Server) render(ctx context.Context, values url.Values, events chan<- Event) {
	req, err := s.parseRenderRequest(values)
	if err != nil {
		emit(ctx, events, Event{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		emit(ctx, events, Event{Type: "error", Data: err.Error()})
		return
	}

	startTime := time.Now()
	passChan, tileChan, errChan := pipeline.Raytracer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})

	// The pass and tile channels close before the error channel can be trusted as final
	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, events, passResult, req, pipeline.Scene, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, events, tileResult)

		case msg := <-consoleChan:
			emit(ctx, events, Event{Type: "console", Data: msg})

		case <-ctx.Done():
			return
		}
	}

	renderErr := <-errChan
	flushConsole(ctx, consoleChan, events)

	if renderErr != nil {
		emit(ctx, events, Event{Type: "error", Data: fmt.Sprintf("Rendering failed: %v", renderErr)})
		return
	}
	emit(ctx, events, Event{Type: "complete", Data: "Rendering completed"})
}

// flushConsole forwards console messages still buffered after rendering ends
func flushConsole(ctx context.Context, consoleChan <-chan ConsoleMessage, events chan<- Event) {
	for {
		select {
		case msg := <-consoleChan:
			emit(ctx, events, Event{Type: "console", Data: msg})
		default:
			return
		}
	}
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// setupRenderingPipeline creates and configures the scene and raytracer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	overrides := geometry.CameraConfig{
		AspectRatio: float64(req.Width) / float64(req.Height),
		Aperture:    req.Aperture,
	}
	sceneObj, err := scene.New(req.Scene, overrides)
	if err != nil {
		return nil, err
	}

	sceneObj.SamplingConfig.Width = req.Width
	sceneObj.SamplingConfig.Height = req.Height
	sceneObj.SamplingConfig.SamplesPerPixel = req.MaxSamples
	sceneObj.SamplingConfig.MaxDepth = req.MaxDepth

	config := renderer.ProgressiveConfig{
		TileSize:           DefaultTileSize,
		InitialSamples:     1,
		MaxSamplesPerPixel: req.MaxSamples,
		MaxPasses:          req.MaxPasses,
		NumWorkers:         0, // Auto-detect
	}

	raytracer, err := renderer.NewProgressiveRaytracer(sceneObj, config, logger)
	if err != nil {
		return nil, err
	}
	return &RenderingPipeline{
		Scene:     sceneObj,
		Raytracer: raytracer,
	}, nil
}

// handlePassComplete sends a pass completion event with the full image
func (s *Server) handlePassComplete(ctx context.Context, events chan<- Event, passResult renderer.PassResult, req *RenderRequest, sceneObj *scene.Scene, startTime time.Time) {
	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		log.Printf("Error encoding pass %d image: %v", passResult.PassNumber, err)
		return
	}

	stats := passResult.Stats
	emit(ctx, events, Event{Type: "pass", Data: PassUpdate{
		PassNumber:  passResult.PassNumber,
		TotalPasses: req.MaxPasses,
		ImageData:   imageData,
		Stats: Stats{
			TotalPixels:     stats.TotalPixels,
			TotalSamples:    stats.TotalSamples,
			AverageSamples:  stats.AverageSamples,
			MaxSamples:      stats.MaxSamples,
			MinSamples:      stats.MinSamples,
			MaxSamplesUsed:  stats.MaxSamplesUsed,
			AverageVariance: stats.AverageVariance,
		},
		IsLast:         passResult.IsLast,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
	}})
}

// handleTileUpdate sends a tile update event
func (s *Server) handleTileUpdate(ctx context.Context, events chan<- Event, tileResult renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		log.Printf("Error encoding tile image (%d, %d): %v", tileResult.TileX, tileResult.TileY, err)
		return
	}

	emit(ctx, events, Event{Type: "tile", Data: TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
		TilePasses:  tileResult.TilePasses,
	}})
}
