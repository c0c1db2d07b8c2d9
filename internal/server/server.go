// Package server exposes the task lifecycle over the JSON HTTP API consumed
// by the remote backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/colonyops/assess/internal/assess"
	"github.com/colonyops/assess/internal/core/config"
	"github.com/colonyops/assess/internal/core/logging"
)

// Server is the assess REST API server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	log        zerolog.Logger
}

// New builds the router for tasks and binds it to cfg.Addr. Routes are mounted
// under cfg.Prefix when set.
func New(cfg config.ServerConfig, tasks *assess.TaskService) *Server {
	log := logging.Component("server")
	h := &handlers{tasks: tasks, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	routes := func(r chi.Router) {
		r.Get("/health", h.health)

		r.Get("/templates", h.listTemplates)
		r.Get("/templates/{templateID}", h.getTemplate)
		r.Get("/stats", h.stats)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.createTask)

			r.Route("/{taskID}", func(r chi.Router) {
				r.Get("/", h.getTask)
				r.Put("/", h.updateTask)
				r.Delete("/", h.deleteTask)
				r.Get("/items", h.listItems)
				r.Put("/items/{itemID}", h.updateItem)
				r.Get("/result", h.getResult)
			})
		})
	}

	if cfg.Prefix != "" && cfg.Prefix != "/" {
		r.Route(cfg.Prefix, routes)
	} else {
		routes(r)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: r,
		log:     log,
	}
}

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting api server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info().Msg("stopping api server")
	return s.httpServer.Shutdown(ctx)
}
