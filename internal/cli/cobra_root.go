package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"todo-app/internal/config"
	"todo-app/internal/logging"
	"todo-app/internal/store"
)

// StoreOpener opens the store a command runs against
type StoreOpener func(ctx context.Context, cfg *config.Config) (*store.Store, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	loader    *config.Loader
	openStore StoreOpener
	config    *config.Config
	app       *App
}

// NewRootCommand creates the root cobra command with global flags. The store
// is opened once flags are parsed, since they can move it.
func NewRootCommand(loader *config.Loader, openStore StoreOpener) *RootCommand {
	root := &RootCommand{
		loader:    loader,
		openStore: openStore,
	}

	root.cmd = &cobra.Command{
		Use:   "todo",
		Short: "A minimal task list served over HTTP",
		Long: `todo keeps a task list in a single JSON document and serves it as a web page,
with a passthrough REST API over the same document.

EXAMPLES:
  todo serve                               # Serve on :3000
  todo serve --port 8080                   # Serve on another port
  todo add "Buy milk" --status todo        # Add a task
  todo list                                # List tasks
  todo show 1717171717171                  # Show one task
  todo delete 1717171717171                # Delete a task

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env file > defaults

  Server Configuration:
    TODO_SERVER_HOST                       Listen host (default: all interfaces)
    TODO_SERVER_PORT                       Listen port (default: 3000)
    TODO_SERVER_READ_TIMEOUT               Request read timeout (default: 15s)
    TODO_SERVER_WRITE_TIMEOUT              Response write timeout (default: 15s)
    TODO_SERVER_SHUTDOWN_TIMEOUT           Graceful shutdown timeout (default: 10s)
    TODO_SERVER_IDLE_TIMEOUT               Keep-alive idle timeout (default: 60s)

  Store Configuration:
    TODO_STORE_BACKEND                     file or sqlite (default: file)
    TODO_STORE_PATH                        Document path (default: db.json)
    TODO_STORE_CREATE                      Create an empty document when missing (default: true)
    TODO_STORE_LOCK_TIMEOUT                Wait limit for the mutation section (default: 5s)

  Application Configuration:
    TODO_APP_TIMEOUT                       Command timeout (default: 30s)
    TODO_APP_VERBOSE                       Enable debug output (default: false)
    TODO_ENV                               testing selects an in-memory store`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command exposes the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and closes the store afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if r.app != nil {
		if closeErr := r.app.store.Close(); closeErr != nil {
			logging.Debugf("close store: %v", closeErr)
		}
		r.app = nil
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Store configuration
	flags.String("store-path", "", "Document path (overrides TODO_STORE_PATH)")
	flags.String("store-backend", "", "Store backend, file or sqlite (overrides TODO_STORE_BACKEND)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TODO_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug output (overrides TODO_APP_VERBOSE)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task list over HTTP",
		Long:  "Serve the task pages and the passthrough API until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewServeCommand(r.app).Execute(cmd.Context())
		},
	}
	serveCmd.Flags().Int("port", 0, "Listen port (overrides TODO_SERVER_PORT)")
	serveCmd.Flags().String("host", "", "Listen host (overrides TODO_SERVER_HOST)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()

			return NewListCommand(r.app).Execute(ctx, args)
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task. All arguments are joined into the title.

Examples:
  todo add Buy milk
  todo add "Write report" --description "Q3 numbers" --status todo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()

			description, _ := cmd.Flags().GetString("description")
			status, _ := cmd.Flags().GetString("status")
			return NewAddCommand(r.app).Execute(ctx, args, description, status)
		},
	}
	addCmd.Flags().String("description", "", "Task description")
	addCmd.Flags().String("status", "", "Task status")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()

			return NewShowCommand(r.app).Execute(ctx, args)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()

			return NewDeleteCommand(r.app).Execute(ctx, args)
		},
	}

	r.cmd.AddCommand(
		serveCmd,
		listCmd,
		addCmd,
		showCmd,
		deleteCmd,
	)
}

// setup loads configuration with flag overrides and opens the store
func (r *RootCommand) setup(cmd *cobra.Command) error {
	if !r.needsStore(cmd) {
		return nil
	}

	cfg, err := r.loader.LoadWithOverrides(overridesFromFlags(cmd))
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg
	logging.SetDebug(cfg.Application.Verbose)

	st, err := r.openStore(cmd.Context(), cfg)
	if err != nil {
		return NewErrorHandler().Handle("open store", err)
	}
	r.app = NewApp(st, cfg)
	r.app.SetOutput(cmd.OutOrStdout())
	return nil
}

// needsStore reports whether cmd is one of the task subcommands, as opposed to
// help or shell completion
func (r *RootCommand) needsStore(cmd *cobra.Command) bool {
	if cmd.Parent() != r.cmd {
		return false
	}
	switch cmd.Name() {
	case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return false
	}
	return true
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 30 * time.Second
}

// overridesFromFlags collects the flags the user actually set
func overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	overrides := &config.ConfigOverrides{}
	if changed("store-path") {
		v, _ := flags.GetString("store-path")
		overrides.StorePath = &v
	}
	if changed("store-backend") {
		v, _ := flags.GetString("store-backend")
		overrides.StoreBackend = &v
	}
	if changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &v
	}
	if changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if changed("port") {
		v, _ := flags.GetInt("port")
		overrides.Port = &v
	}
	if changed("host") {
		v, _ := flags.GetString("host")
		overrides.Host = &v
	}
	return overrides
}
