// Package server exposes the advisor over HTTP using gin.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/edgard/careeradvisor/internal/advisor"
	"github.com/edgard/careeradvisor/internal/config"
	"github.com/edgard/careeradvisor/internal/database"
	"github.com/edgard/careeradvisor/internal/logger"
)

// Deps contains everything the HTTP layer needs. Store may be nil, in which
// case nothing is recorded and the history routes are not registered.
type Deps struct {
	Logger  *slog.Logger
	Config  config.ServerConfig
	History config.HistoryConfig
	Model   string
	Advisor *advisor.Advisor
	Relay   *advisor.Relay
	Store   database.Store
}

// Server holds the request handlers.
type Server struct {
	log     *slog.Logger
	cfg     config.ServerConfig
	history config.HistoryConfig
	model   string
	advisor *advisor.Advisor
	relay   *advisor.Relay
	store   database.Store
}

// New creates a Server from its dependencies.
func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		log:     log.With("component", "http_server"),
		cfg:     deps.Config,
		history: deps.History,
		model:   deps.Model,
		advisor: deps.Advisor,
		relay:   deps.Relay,
		store:   deps.Store,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(logger.Middleware(s.log), gin.Recovery())
	router.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))

	router.GET("/health", s.health)
	router.POST("/career-advice", s.careerAdvice)
	router.POST("/chat", s.chat)

	if s.store != nil {
		history := router.Group("/history")
		history.GET("/advice", s.listAdvice)
		history.GET("/chat", s.listChat)
	}

	return router
}

// HTTPServer wraps Router in an *http.Server listening on the configured address.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}
}

// corsConfig allows exactly the configured origins, matched verbatim. An
// origin func is used because the "null" origin is not a URL.
func corsConfig(origins []string) cors.Config {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return cors.Config{
		AllowOriginFunc: func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language",
			"Authorization", "X-Requested-With", logger.RequestIDHeader,
		},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
