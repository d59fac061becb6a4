// Package httpapi exposes PDF rendering over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/assets"
	"github.com/alnah/go-healthpdf/internal/storage"
)

// Renderer produces a document from a request. *healthpdf.Converter
// satisfies it.
type Renderer interface {
	Render(ctx context.Context, req healthpdf.RenderRequest) (*healthpdf.RenderedDocument, error)
}

var _ Renderer = (*healthpdf.Converter)(nil)

// DefaultAllowedOrigins is used when no CORS allow-list is configured.
var DefaultAllowedOrigins = []string{"http://localhost:3000"}

// Options configures a Server.
type Options struct {
	Renderer       Renderer
	Store          storage.Store
	Logger         *zap.Logger
	AllowedOrigins []string // "*" allows any origin
	PDFDir         string   // served at /pdfs when non-empty
	MaxBodyBytes   int64    // 0 = 10MB
	Now            func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	renderer Renderer
	store    storage.Store
	logger   *zap.Logger
	origins  map[string]bool
	anyOrig  bool
	pdfDir   string
	maxBody  int64
	now      func() time.Time
	engine   *gin.Engine
}

const defaultMaxBody = 10 << 20

// New builds the router.
func New(opts Options) *Server {
	s := &Server{
		renderer: opts.Renderer,
		store:    opts.Store,
		logger:   opts.Logger,
		origins:  map[string]bool{},
		pdfDir:   opts.PDFDir,
		maxBody:  opts.MaxBodyBytes,
		now:      opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	if s.now == nil {
		s.now = time.Now
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}
	for _, o := range origins {
		if o == "*" {
			s.anyOrig = true
		}
		s.origins[o] = true
	}

	s.engine = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID(), s.accessLog(), gin.CustomRecovery(s.recovery), s.cors())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/assets", http.FS(assets.StaticFS()))
	if s.pdfDir != "" {
		r.Static(storage.URLPrefix, s.pdfDir)
	}

	api := r.Group("/api/htmlpdf")
	api.POST("", s.handleRender)
	api.POST("/", s.handleRender)
	api.GET("/health", s.handleRouteHealth)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "Route " + c.Request.Method + " " + c.Request.URL.Path + " not found",
		})
	})

	return r
}
