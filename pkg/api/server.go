// Package api provides the REST API server for midi2strudel
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/james-see/midi2strudel/pkg/converter"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title midi2strudel API
// @version 1.0
// @description API for converting MIDI files to Strudel mini-notation
// @host localhost:8080
// @BasePath /api/v1

const requestIDHeader = "X-Request-ID"

// maxUploadSize bounds the multipart body
const maxUploadSize = 8 << 20

// StartServer starts the API server on the specified port
func StartServer(port int, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	return http.ListenAndServe(fmt.Sprintf(":%d", port), NewHandler(log))
}

// NewHandler returns the router wrapped in CORS handling
func NewHandler(log *zap.Logger) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader, "Content-Disposition"},
	})
	return c.Handler(NewRouter(log))
}

// NewRouter builds the gin engine with all routes
func NewRouter(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/options", listOptions)
		v1.POST("/convert", handleConvert)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// requestLogger tags each request with an id and logs its outcome
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		reqLog := log.With(zap.String("request_id", id))
		c.Set("log", reqLog)

		c.Next()

		reqLog.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

func loggerFrom(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("log"); ok {
		if log, ok := l.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2strudel",
	})
}

// listOptions godoc
// @Summary List conversion options
// @Description Returns the default settings and the sound palette
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/options [get]
func listOptions(c *gin.Context) {
	d := converter.DefaultConfig()
	c.JSON(http.StatusOK, gin.H{
		"defaults": gin.H{
			"notes_per_bar": d.Resolution,
			"bar_limit":     d.BarLimit,
			"flat":          d.Flat,
			"tab_size":      d.TabSize,
		},
		"sounds": converter.Sounds,
	})
}

// handleConvert godoc
// @Summary Convert MIDI to a Strudel pattern
// @Description Upload a MIDI file and receive the pattern text
// @Tags convert
// @Accept multipart/form-data
// @Produce text/plain
// @Param file formData file true "MIDI file to convert"
// @Param notes_per_bar query int false "Slots per bar (default: 128)"
// @Param bar_limit query int false "Maximum bars, 0 for no limit"
// @Param flat query bool false "Disable nested grouping"
// @Param tab_size query int false "Indentation width (default: 2)"
// @Param sound query string false "Sound for every track"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	log := loggerFrom(c)

	cfg, err := configFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	conv, err := converter.New(cfg, converter.WithLogger(log))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := conv.Convert(data)
	if err != nil {
		log.Warn("conversion failed", zap.String("filename", header.Filename), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	base := strings.TrimSuffix(filepath.Base(header.Filename), filepath.Ext(header.Filename))
	if base == "" || base == "." {
		base = "converted"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.strudel.txt", base))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.Text))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, converter.ErrUnsupportedTimeSignature):
		return http.StatusUnprocessableEntity
	case errors.Is(err, converter.ErrMalformedMIDI), errors.Is(err, converter.ErrInvalidConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func configFromQuery(c *gin.Context) (converter.Config, error) {
	cfg := converter.DefaultConfig()

	ints := []struct {
		name string
		dst  *int
	}{
		{"notes_per_bar", &cfg.Resolution},
		{"bar_limit", &cfg.BarLimit},
		{"tab_size", &cfg.TabSize},
	}
	for _, p := range ints {
		v, ok := c.GetQuery(p.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", p.name, v)
		}
		*p.dst = n
	}

	if v, ok := c.GetQuery("flat"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid flat: %q", v)
		}
		cfg.Flat = b
	}
	cfg.Sound = c.Query("sound")

	return cfg, cfg.Validate()
}
