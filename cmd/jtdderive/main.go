package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/reoring/jtdgen/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.New().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
