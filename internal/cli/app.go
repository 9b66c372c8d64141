package cli

import (
	"io"
	"os"

	"todo-app/internal/config"
	"todo-app/internal/repository"
	"todo-app/internal/store"
)

// App carries what the command handlers need
type App struct {
	repo   repository.TaskRepository
	store  *store.Store
	config *config.Config
	out    io.Writer
	errs   *ErrorHandler
}

// NewApp creates a new CLI application over an opened store
func NewApp(st *store.Store, cfg *config.Config) *App {
	return &App{
		repo:   repository.New(st),
		store:  st,
		config: cfg,
		out:    os.Stdout,
		errs:   NewErrorHandler(),
	}
}

// SetOutput redirects command output
func (a *App) SetOutput(w io.Writer) {
	a.out = w
}
