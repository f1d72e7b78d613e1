// Package api provides the HTTP API server and handlers for the wishlist application.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wishlistapp/wishlist-server/internal/logger"
	"github.com/wishlistapp/wishlist-server/internal/media/covers"
	"github.com/wishlistapp/wishlist-server/internal/validation"
)

// APIVersion reported in the OpenAPI document.
const APIVersion = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	services  *Services
	covers    *covers.Service // optional; nil disables GET /covers
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *logger.Logger
}

// Options configures a Server.
type Options struct {
	Services    *Services
	Covers      *covers.Service
	CORSOrigins []string
	Logger      *logger.Logger
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig("Wishlist API", APIVersion)
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		services:  opts.Services,
		covers:    opts.Covers,
		validator: validation.New(),
		router:    router,
		api:       api,
		logger:    opts.Logger,
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerTagRoutes()
	s.registerBackupRoutes()
	s.registerMetadataRoutes()
	s.registerCoverRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
