package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"imagetagger/config"
	"imagetagger/imageprocessor"
	"imagetagger/logging"

	"github.com/gin-gonic/gin"
)

const (
	maxUploadBytes  = 20 << 20 // 20 MiB
	urlFetchTimeout = 8 * time.Second
)

// AnalyzeHandler serves the analysis endpoint. The face counter and
// thresholds are injected at construction so tests can substitute fakes.
type AnalyzeHandler struct {
	faceCounter imageprocessor.FaceCounter
	thresholds  config.Thresholds
	httpClient  *http.Client
}

// NewAnalyzeHandler builds a handler around the given detector and thresholds.
func NewAnalyzeHandler(faceCounter imageprocessor.FaceCounter, thresholds config.Thresholds) *AnalyzeHandler {
	return &AnalyzeHandler{
		faceCounter: faceCounter,
		thresholds:  thresholds,
		httpClient:  &http.Client{Timeout: urlFetchTimeout},
	}
}

// NewRouter wires the HTTP routes.
func NewRouter(handler *AnalyzeHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", handler.Status)
	router.GET("/healthz", handler.Health)
	router.POST("/analyze", handler.Analyze)

	return router
}

// Status describes the service and its endpoints.
func (h *AnalyzeHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "imagetagger",
		"endpoints": []string{"/analyze (POST)", "/healthz (GET)"},
	})
}

// Health reports liveness.
func (h *AnalyzeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type urlRequest struct {
	URL string `json:"url"`
}

// Analyze accepts either a multipart file field `image` or a JSON body with
// a `url` field, runs the engine, and returns the combined result.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	data, err := h.readImagePayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := imageprocessor.Decode(data)
	if err != nil {
		img.Close()
		if errors.Is(err, imageprocessor.ErrDecode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not decode image"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	defer img.Close()

	result, err := imageprocessor.AnalyzeImage(img, h.faceCounter, h.thresholds)
	if err != nil {
		logging.LogError("analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// readImagePayload extracts the raw image bytes from the request.
func (h *AnalyzeHandler) readImagePayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("image"); err == nil {
		if file.Size > maxUploadBytes {
			return nil, fmt.Errorf("image too large (limit %d bytes)", maxUploadBytes)
		}
		f, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("cannot open uploaded file: %v", err)
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxUploadBytes))
	}

	var req urlRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.URL != "" {
		return h.fetchURL(req.URL)
	}

	return nil, errors.New("no image file or url provided")
}

// fetchURL downloads the image with a bounded timeout.
func (h *AnalyzeHandler) fetchURL(url string) ([]byte, error) {
	resp, err := h.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch image url: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image url returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes))
}

// Run starts the HTTP server on the given address.
func Run(addr string, handler *AnalyzeHandler) error {
	logging.LogInfo("HTTP server listening on %s", addr)
	return NewRouter(handler).Run(addr)
}
