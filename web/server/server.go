package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/rayo/pkg/config"
	"github.com/df07/rayo/pkg/loaders"
	"github.com/df07/rayo/pkg/scene"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

const defaultScene = "cornell"

// Request limits shared by the render and inspect endpoints
const (
	minImageSize = 16
	maxImageSize = 2000
	maxSamples   = 10000
	maxPasses    = 100
	maxDepth     = 1000
)

// Server handles web requests for the progressive raytracer
type Server struct {
	port      int
	scenesDir string
	staticDir string
}

// NewServer creates a new web server. Scene files are discovered in scenesDir
// and static assets are served from staticDir.
func NewServer(port int, scenesDir, staticDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir, staticDir: staticDir}
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MaxSamples     int     `json:"maxSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("Starting web server on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("while serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.scenesDir)
	if err != nil {
		glog.Warningf("Listing scenes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleSceneConfig returns the recommended sampling of a scene and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = defaultScene
	}

	sceneObj, err := s.createScene(sceneName, 1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := samplingFor(sceneObj, 0, -1)
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
		},
		"limits": map[string]interface{}{
			"width":      map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":     map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxSamples": map[string]int{"min": 1, "max": maxSamples},
			"maxPasses":  map[string]int{"min": 1, "max": maxPasses},
			"maxDepth":   map[string]int{"min": 0, "max": maxDepth},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// createScene resolves a built-in name or file: ID for the given aspect ratio
func (s *Server) createScene(sceneName string, aspectRatio float64) (*scene.Scene, error) {
	return loaders.LoadSceneByID(sceneName, s.scenesDir, aspectRatio)
}

// samplingFor picks the render settings for a scene. Zero samples and negative
// depth fall back to the scene's recommendation, then to the CLI defaults.
func samplingFor(sceneObj *scene.Scene, samples, depth int) scene.SamplingConfig {
	sampling := sceneObj.SamplingConfig
	if samples > 0 {
		sampling.SamplesPerPixel = samples
	}
	if sampling.SamplesPerPixel <= 0 {
		sampling.SamplesPerPixel = config.DefaultSamples
	}
	if depth >= 0 {
		sampling.MaxDepth = depth
	} else if sampling.MaxDepth == scene.UnsetDepth {
		sampling.MaxDepth = config.DefaultMaxDepth
	}
	return sampling
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("Writing JSON response: %v", err)
	}
}
