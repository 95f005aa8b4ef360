package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/aws-costwatch-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-costwatch-go/pkg/version"
)

func main() {
	// SIGINT/SIGTERM cancelam o contexto; o loop encerra limpo com código 0
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewCLIApp(version.Version)
	if err := app.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
