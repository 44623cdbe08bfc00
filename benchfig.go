package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fredbi/benchfig/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	// cobra reports errors and usage on stderr
	err := cmd.NewCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
