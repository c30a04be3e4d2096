package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/scene"
)

// DefaultTileSize is the tile edge used for live renders
const DefaultTileSize = 32

// Limits for render request parameters
const (
	minImageSize = 8
	maxImageSize = 2000
	maxSamples   = 10000
	maxPasses    = 10000
	maxDepth     = 1000
	maxAperture  = 2.0
)

// Server handles web requests for the path tracer
type Server struct {
	port int
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string  `json:"scene"`      // Registered scene name
	Width      int     `json:"width"`      // Image width
	Height     int     `json:"height"`     // Image height
	MaxSamples int     `json:"maxSamples"` // Maximum samples per pixel
	MaxPasses  int     `json:"maxPasses"`  // Maximum number of passes
	MaxDepth   int     `json:"maxDepth"`   // Maximum ray bounce depth
	Aperture   float64 `json:"aperture"`   // Lens diameter override, 0 keeps the scene's
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalSamples    int     `json:"totalSamples"`
	AverageSamples  float64 `json:"averageSamples"`
	MaxSamples      int     `json:"maxSamples"`
	MinSamples      int     `json:"minSamples"`
	MaxSamplesUsed  int     `json:"maxSamplesUsed"`
	AverageVariance float64 `json:"averageVariance"`
}

// SceneSummary describes a registered scene and its default sampling settings
type SceneSummary struct {
	Name            string `json:"name"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	PrimitiveCount  int    `json:"primitiveCount"`
}

// Handler returns the HTTP handler serving the API and the render websocket
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/ws/render", s.handleRender)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the registered scenes with their defaults and the request limits
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	var scenes []SceneSummary
	for _, name := range scene.Names() {
		sceneObj, err := scene.New(name)
		if err != nil {
			continue
		}
		config := sceneObj.SamplingConfig
		scenes = append(scenes, SceneSummary{
			Name:            name,
			Width:           config.Width,
			Height:          config.Height,
			SamplesPerPixel: config.SamplesPerPixel,
			MaxDepth:        config.MaxDepth,
			PrimitiveCount:  sceneObj.GetPrimitiveCount(),
		})
	}

	response := map[string]interface{}{
		"scenes": scenes,
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":     map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": maxPasses},
			"depth":      map[string]int{"min": 1, "max": maxDepth},
			"aperture":   map[string]float64{"min": 0, "max": maxAperture},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseRenderRequest parses and validates render query parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 225, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(values, "maxSamples", 50, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(values, "maxPasses", 7, 1, maxPasses); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "depth", 50, 1, maxDepth); err != nil {
		return nil, err
	}
	if req.Aperture, err = parseFloatParam(values, "aperture", 0, 0, maxAperture); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
