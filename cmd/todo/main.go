package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todo-app/internal/cli"
	"todo-app/internal/config"
)

func main() {
	// Create store factory based on environment
	factory := config.NewStoreFactory(config.GetEnvironment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), factory.CreateStore)

	if err := root.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
