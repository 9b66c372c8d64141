package cli

import (
	"context"
	"fmt"

	"todo-app/internal/validation"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app       *App
	validator *validation.RequestValidator
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, validator: validation.NewRequestValidator()}
}

// Execute removes the task with the given id. Deleting an unknown id is
// reported but is not an error.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := c.validator.ParseTaskID(args[0])
	if err != nil {
		return c.app.errs.HandleSimple(err)
	}

	removed, err := c.app.repo.DeleteTask(ctx, id)
	if err != nil {
		return c.app.errs.Handle("delete task", err)
	}

	if !removed {
		fmt.Fprintf(c.app.out, "No task with id %d\n", id)
		return nil
	}
	fmt.Fprintf(c.app.out, "Deleted task %d\n", id)
	return nil
}
