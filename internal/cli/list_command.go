package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints one line per task in stored order
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	tasks, err := c.app.repo.ListTasks(ctx)
	if err != nil {
		return c.app.errs.Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		return nil
	}

	tw := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tDESCRIPTION")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", task.ID, task.Status, task.Title, task.Description)
	}
	return tw.Flush()
}
