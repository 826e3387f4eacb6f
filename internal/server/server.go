// Package server exposes the exercise builder and grader over HTTP for
// the browser client.
package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ayasuda/kumitate/internal/builder"
	"github.com/ayasuda/kumitate/internal/corpus"
	"github.com/ayasuda/kumitate/internal/logger"
)

// Options configures the HTTP server.
type Options struct {
	// AllowedOrigins is the extra CORS origin allowlist. Any
	// http://localhost:PORT origin is always allowed for development.
	AllowedOrigins []string

	// Mode is the gin mode ("release" for production).
	Mode string
}

// Server wires the core services into a gin router.
type Server struct {
	builder *builder.Builder
	store   corpus.Store
	log     *logger.Logger
	opts    Options
}

// New creates a Server.
func New(b *builder.Builder, store corpus.Store, log *logger.Logger, opts Options) *Server {
	return &Server{builder: b, store: store, log: log, opts: opts}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	if s.opts.Mode != "" {
		gin.SetMode(s.opts.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLog(s.log))

	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, o := range s.opts.AllowedOrigins {
				if origin == o {
					return true
				}
			}
			return strings.HasPrefix(origin, "http://localhost:")
		},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/manifest", s.getManifest)
	api.GET("/exercise", s.getExercise)
	api.GET("/exercise/:id", s.getExerciseByID)
	api.POST("/grade", s.postGrade)

	return r
}
