package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/urbansound-go/cmd"
	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/internal/buildinfo"
	"github.com/tphakala/urbansound-go/internal/errors"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	buildinfo.Set(version, buildDate)
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &app.Context{}
	rootCmd := cmd.RootCommand(appCtx)

	err := rootCmd.ExecuteContext(ctx)
	if closeErr := appCtx.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", closeErr)
	}

	if err != nil {
		switch {
		case errors.IsFatal(err):
			fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		case errors.IsNotFound(err):
			fmt.Fprintf(os.Stderr, "Not found: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
