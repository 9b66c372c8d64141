package cli

import (
	"context"

	"todo-app/internal/web"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute runs the HTTP server until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context) error {
	server := web.New(c.app.config.Server, c.app.store, c.app.repo)
	return server.ListenAndServe(ctx, c.app.config.GetListenAddress())
}
