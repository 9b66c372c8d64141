package cli

import (
	"context"
	"fmt"
	"strings"

	"todo-app/internal/domain"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Execute creates a task titled with the joined arguments
func (c *AddCommand) Execute(ctx context.Context, args []string, description, status string) error {
	input := domain.NewTask{
		Title:       strings.Join(args, " "),
		Description: description,
		Status:      status,
	}

	task, err := c.app.repo.CreateTask(ctx, input)
	if err != nil {
		return c.app.errs.Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Created task %d: %s\n", task.ID, task)
	return nil
}
