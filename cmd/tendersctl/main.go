package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tendersdz/internal/api"
	"tendersdz/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+api.UserMessage(err, err.Error()))
		stop()
		os.Exit(1)
	}
}
