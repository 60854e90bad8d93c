package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/df07/rayo/pkg/output"
	"github.com/df07/rayo/pkg/renderer"
	"github.com/golang/glog"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene      string // Built-in scene name or file: ID
	Width      int    // Image width
	Height     int    // Image height
	MaxSamples int    // Samples per pixel, 0 = scene default
	MaxDepth   int    // Bounce limit, -1 = scene default
	MaxPasses  int    // Number of progressive passes
	Seed       int64  // Base seed for the tile random streams
	Format     string // Image encoding of each pass, ".png" or ".webp"
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded image
	MIMEType    string `json:"mimeType"`
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// passFrame carries a finished pass to the SSE writer, which does the encoding
type passFrame struct {
	update ProgressUpdate
	image  image.Image
}

// SSEEvent is a named server-sent event
type SSEEvent struct {
	Type string // "console", "progress", "error", "complete"
	Data string // Single-line payload, JSON for everything but errors
}

// handleRender renders a scene progressively, streaming every pass and the
// render log as server-sent events. The render stops when the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)
	ctx := r.Context()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)})
		return
	}

	sceneObj, err := s.createScene(req.Scene, float64(req.Width)/float64(req.Height))
	if err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: err.Error()})
		return
	}

	consoleChan := make(chan ConsoleLine, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	console := newRenderConsole(renderID, consoleChan)
	raytracer := renderer.NewRaytracer(sceneObj, req.Width, req.Height,
		samplingFor(sceneObj, req.MaxSamples, req.MaxDepth),
		renderer.ProgressiveConfig{
			TileSize:       64,
			InitialSamples: 1,
			MaxPasses:      req.MaxPasses,
			NumWorkers:     0, // Auto-detect
			Seed:           req.Seed,
		},
		console)

	// Buffered to the pass count so the render never waits on the client
	passChan := make(chan passFrame, req.MaxPasses)
	errChan := make(chan error, 1)
	startTime := time.Now()

	go func() {
		defer close(consoleChan)
		defer close(passChan)
		_, _, err := raytracer.Render(ctx, func(result renderer.PassResult) {
			passChan <- passFrame{
				image: result.Image,
				update: ProgressUpdate{
					PassNumber:  result.PassNumber,
					TotalPasses: req.MaxPasses,
					MIMEType:    output.MIMEType(req.Format),
					Stats: Stats{
						TotalPixels:    result.Stats.TotalPixels,
						TotalSamples:   int64(result.Stats.TotalSamples),
						AverageSamples: result.Stats.AverageSamples,
						MaxSamples:     result.Stats.MaxSamples,
						MinSamples:     result.Stats.MinSamples,
						MaxSamplesUsed: result.Stats.MaxSamplesUsed,
					},
					IsComplete: result.IsLast,
					ElapsedMs:  time.Since(startTime).Milliseconds(),
				},
			}
		})
		errChan <- err
	}()

	// Single writer: console lines and passes are interleaved in arrival order
	for consoleChan != nil || passChan != nil {
		select {
		case msg, ok := <-consoleChan:
			if !ok {
				consoleChan = nil
				continue
			}
			if err := s.sendJSONEvent(w, "console", msg); err != nil {
				return
			}
		case frame, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			if err := s.sendPass(w, frame, req.Format); err != nil {
				glog.Warningf("%s: %v", renderID, err)
				return
			}
		}
	}

	if n := console.Dropped(); n > 0 {
		glog.Warningf("%s: %d console lines dropped", renderID, n)
	}
	if err := <-errChan; err != nil {
		s.sendSSEEvent(w, SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", err)})
		return
	}
	s.sendSSEEvent(w, SSEEvent{Type: "complete", Data: "Rendering completed"})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene"), Format: ".png"}
	if req.Scene == "" {
		req.Scene = defaultScene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 400, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.MaxSamples, err = parseIntParam(query, "maxSamples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", -1, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.MaxPasses, err = parseIntParam(query, "maxPasses", 7, 1, maxPasses); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	switch format := query.Get("format"); format {
	case "", "png":
	case "webp":
		req.Format = ".webp"
	default:
		return nil, fmt.Errorf("format must be png or webp, got: %s", format)
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.MaxSamples > 100 {
		glog.Warningf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// encodeImage converts an image to a base64 string in the given format
func encodeImage(img image.Image, format string) (string, error) {
	var buf bytes.Buffer
	if err := output.Encode(&buf, format, img, output.Options{}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendPass encodes the pass image and sends it as a progress event
func (s *Server) sendPass(w http.ResponseWriter, frame passFrame, format string) error {
	imageData, err := encodeImage(frame.image, format)
	if err != nil {
		return fmt.Errorf("while encoding pass %d: %w", frame.update.PassNumber, err)
	}
	frame.update.ImageData = imageData
	return s.sendJSONEvent(w, "progress", frame.update)
}

// sendJSONEvent sends v as the JSON payload of an SSE event
func (s *Server) sendJSONEvent(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, SSEEvent{Type: event, Data: string(data)})
}

// sendSSEEvent writes one event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("streaming not supported")
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
