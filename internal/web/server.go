// Package web serves the task pages and the passthrough collection API.
package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net"
	"net/http"

	"todo-app/internal/config"
	"todo-app/internal/logging"
	"todo-app/internal/repository"
	"todo-app/internal/store"
	"todo-app/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server wires the HTTP routes to the task repository and the store
type Server struct {
	cfg       config.ServerConfig
	store     *store.Store
	repo      repository.TaskRepository
	validator *validation.RequestValidator
	templates *template.Template
}

// New creates a server. The store backs the passthrough API and repo backs
// the task pages; both must share the same document.
func New(cfg config.ServerConfig, st *store.Store, repo repository.TaskRepository) *Server {
	return &Server{
		cfg:       cfg,
		store:     st,
		repo:      repo,
		validator: validation.NewRequestValidator(),
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /tasks", s.handleListTasks)
	mux.HandleFunc("POST /tasks/create", s.handleCreateTask)
	mux.HandleFunc("GET /tasks/delete/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /health", s.handleHealth)

	static, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /api/db", s.handleAPIDatabase)
	mux.HandleFunc("GET /api/{resource}", s.handleAPIGetResource)
	mux.HandleFunc("POST /api/{resource}", s.handleAPICreateItem)
	mux.HandleFunc("GET /api/{resource}/{id}", s.handleAPIGetItem)
	mux.HandleFunc("PUT /api/{resource}/{id}", s.handleAPIReplaceItem)
	mux.HandleFunc("PATCH /api/{resource}/{id}", s.handleAPIPatchItem)
	mux.HandleFunc("DELETE /api/{resource}/{id}", s.handleAPIDeleteItem)

	return chain(mux, recoverer, accessLog, requestID)
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// httpServer applies the configured timeouts to an http.Server
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := s.httpServer()

	// The watcher sends exactly once, either the Shutdown result or nil when
	// Serve failed on its own and closed stop.
	stop := make(chan struct{})
	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
			shutdownErr <- nil
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		logging.Infof("shutting down")
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	logging.Infof("listening on %s", ln.Addr())
	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		close(stop)
		<-shutdownErr
		return err
	}
	return <-shutdownErr
}
