package cli

import (
	"context"
	"fmt"

	"todo-app/internal/validation"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app       *App
	validator *validation.RequestValidator
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app, validator: validation.NewRequestValidator()}
}

// Execute prints every field of one task
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	id, err := c.validator.ParseTaskID(args[0])
	if err != nil {
		return c.app.errs.HandleSimple(err)
	}

	task, err := c.app.repo.GetTask(ctx, id)
	if err != nil {
		return c.app.errs.Handle("show task", err)
	}

	fmt.Fprintf(c.app.out, "ID:          %d\n", task.ID)
	fmt.Fprintf(c.app.out, "Title:       %s\n", task.Title)
	fmt.Fprintf(c.app.out, "Description: %s\n", task.Description)
	fmt.Fprintf(c.app.out, "Status:      %s\n", task.Status)
	return nil
}
